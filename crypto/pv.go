package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
)

// Key is a secp256k1 account key kept as a hex file, the format
// config.InitializeOwner writes.
type Key struct {
	privateKey *ecdsa.PrivateKey
}

func LoadKeyFile(keyFilePath string) (*Key, error) {
	dat, err := os.ReadFile(keyFilePath)
	if err != nil {
		return nil, err
	}
	return ParseKey(string(dat))
}

func ParseKey(hexKey string) (*Key, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	priv, err := eth_crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	return &Key{privateKey: priv}, nil
}

func GenerateKey() (*Key, error) {
	priv, err := eth_crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Key{privateKey: priv}, nil
}

func (k *Key) PrivateKey() *ecdsa.PrivateKey {
	return k.privateKey
}

func (k *Key) PublicKey() []byte {
	return eth_crypto.FromECDSAPub(&k.privateKey.PublicKey)
}

func (k *Key) Address() common.Address {
	return eth_crypto.PubkeyToAddress(k.privateKey.PublicKey)
}

// Sign signs the keccak256 hash of data.
func (k *Key) Sign(data []byte) ([]byte, error) {
	return eth_crypto.Sign(eth_crypto.Keccak256(data), k.privateKey)
}
