package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timburman/Reactive-Governance/crypto"
)

var keyPath string

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Show the address of a key file",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := crypto.LoadKeyFile(keyPath)
		if err != nil {
			return err
		}
		fmt.Printf("address:%s\npubkey:%s\n", key.Address().Hex(), hex.EncodeToString(key.PublicKey()))
		return nil
	},
}

func init() {
	keyCmd.Flags().StringVarP(&keyPath, "key", "k", "./config/owner_priv_key", "hex private key file")
}
