/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var depositOpt struct {
	TraceID string `json:"trace_id,omitempty"`
	AssetID int64  `json:"asset_id"`
	Amount  string `json:"amount"`
	Address string `json:"address"`
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "deposit funds to an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, client().R().SetBody(&depositOpt), http.MethodPost, "/create/deposit")
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().StringVar(&depositOpt.TraceID, "trace", "", "trace id (uuid)")
	depositCmd.Flags().Int64Var(&depositOpt.AssetID, "asset", 0, "asset id")
	depositCmd.Flags().StringVar(&depositOpt.Amount, "amount", "", "amount")
	depositCmd.Flags().StringVar(&depositOpt.Address, "address", "", "address")

	_ = depositCmd.MarkFlagRequired("asset")
	_ = depositCmd.MarkFlagRequired("amount")
	_ = depositCmd.MarkFlagRequired("address")
}
