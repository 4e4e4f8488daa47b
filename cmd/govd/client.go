package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/timburman/Reactive-Governance/app"
	"github.com/timburman/Reactive-Governance/crypto"
	"github.com/timburman/Reactive-Governance/tx"
)

type txArguments struct {
	Url   string
	Key   string
	Nonce int64
	Sync  bool
}

var txArgs txArguments

func newClient(url string) (*http.HTTP, error) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}
	return cli, nil
}

func abciQuery(ctx context.Context, cli *http.HTTP, path string, params app.QueryParams) ([]byte, error) {
	dat, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	res, err := cli.ABCIQuery(ctx, path, dat)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if res.Response.Code != 0 {
		return nil, fmt.Errorf("query %s failed: code %d %s", path, res.Response.Code, res.Response.Log)
	}
	return res.Response.Value, nil
}

// sendTx signs body with the key file and broadcasts it. Unless --nonce is
// given the sender's committed nonce is used.
func sendTx(typ tx.GovTxType, body any) error {
	key, err := crypto.LoadKeyFile(txArgs.Key)
	if err != nil {
		return err
	}
	cli, err := newClient(txArgs.Url)
	if err != nil {
		return err
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		return fmt.Errorf("get chain genesis: %w", err)
	}
	chainId := gres.Genesis.ChainID

	nonce := uint64(txArgs.Nonce)
	if txArgs.Nonce < 0 {
		dat, err := abciQuery(ctx, cli, app.QueryNonce, app.QueryParams{Address: key.Address()})
		if err != nil {
			return err
		}
		var info app.NonceInfo
		if err = json.Unmarshal(dat, &info); err != nil {
			return err
		}
		nonce = info.Nonce
	}
	btx := &tx.GovTx{
		Version: tx.GovTxVersion0,
		Type:    typ,
		Nonce:   nonce,
		Sender:  key.Address(),
		Tx:      body,
	}
	if err = btx.Sign(key.PrivateKey(), chainId); err != nil {
		return fmt.Errorf("sign tx: %w", err)
	}
	dat, err := tx.MarshalGovTx(btx)
	if err != nil {
		return err
	}

	if txArgs.Sync {
		res, err := cli.BroadcastTxSync(ctx, dat)
		if err != nil {
			return fmt.Errorf("broadcast tx: %w", err)
		}
		if res.Code != 0 {
			return fmt.Errorf("%v rejected: %s", typ, res.Log)
		}
		fmt.Printf("%v %x\n", typ, res.Hash)
	} else {
		res, err := cli.BroadcastTxCommit(ctx, dat)
		if err != nil {
			return fmt.Errorf("broadcast tx: %w", err)
		}
		if res.CheckTx.Code != 0 {
			return fmt.Errorf("%v rejected: %s", typ, res.CheckTx.Log)
		}
		if res.TxResult.Code != 0 {
			return fmt.Errorf("%v failed at height %d: %s", typ, res.Height, res.TxResult.Log)
		}
		out, _ := json.Marshal(res.TxResult.Events)
		fmt.Printf("%v %x height=%d events=%s\n", typ, res.Hash, res.Height, out)
	}
	if txArgs.Nonce >= 0 {
		txArgs.Nonce++
	}
	return nil
}

func printJSON(dat []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, dat, "", "  "); err != nil {
		return err
	}
	fmt.Println(out.String())
	return nil
}
