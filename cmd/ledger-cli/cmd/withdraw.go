/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var withdrawOpt struct {
	TraceID   string `json:"trace_id,omitempty"`
	AccountID int64  `json:"account_id"`
	AssetID   int64  `json:"asset_id"`
	Amount    string `json:"amount"`
	Address   string `json:"address"`
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "withdraw funds from an account wallet to an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, client().R().SetBody(&withdrawOpt), http.MethodPost, "/create/withdrawal")
	},
}

func init() {
	rootCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().StringVar(&withdrawOpt.TraceID, "trace", "", "trace id (uuid)")
	withdrawCmd.Flags().Int64Var(&withdrawOpt.AccountID, "account", 0, "account id")
	withdrawCmd.Flags().Int64Var(&withdrawOpt.AssetID, "asset", 0, "asset id")
	withdrawCmd.Flags().StringVar(&withdrawOpt.Amount, "amount", "", "amount")
	withdrawCmd.Flags().StringVar(&withdrawOpt.Address, "address", "", "destination address")

	_ = withdrawCmd.MarkFlagRequired("account")
	_ = withdrawCmd.MarkFlagRequired("asset")
	_ = withdrawCmd.MarkFlagRequired("amount")
	_ = withdrawCmd.MarkFlagRequired("address")
}
