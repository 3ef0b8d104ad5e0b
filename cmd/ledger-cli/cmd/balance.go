/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <account_id> <asset_id>",
	Short: "show the balance of an account for an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client().R().SetPathParams(map[string]string{
			"account_id": args[0],
			"asset_id":   args[1],
		})

		return call(cmd, req, http.MethodGet, "/balance/{account_id}/{asset_id}")
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
