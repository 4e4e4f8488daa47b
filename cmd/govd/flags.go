package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "govd",
	Short: "govd runs a stake-weighted governance chain",
}

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.PersistentFlags().StringVarP(url, "url", "u", "http://127.0.0.1:26657", "govd rpc url")
}
