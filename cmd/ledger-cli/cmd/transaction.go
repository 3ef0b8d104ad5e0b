/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var transactionCmd = &cobra.Command{
	Use:   "transaction <trace_id>",
	Short: "show a ledgered transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client().R().SetPathParam("trace_id", args[0])
		return call(cmd, req, http.MethodGet, "/transactions/{trace_id}")
	},
}

var transactionsOpt struct {
	offset int64
	limit  int
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions <account_id>",
	Short: "list the transactions of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client().R().
			SetPathParam("account_id", args[0]).
			SetQueryParam("offset", strconv.FormatInt(transactionsOpt.offset, 10)).
			SetQueryParam("limit", strconv.Itoa(transactionsOpt.limit))

		return call(cmd, req, http.MethodGet, "/accounts/{account_id}/transactions")
	},
}

func init() {
	rootCmd.AddCommand(transactionCmd)
	rootCmd.AddCommand(transactionsCmd)

	transactionsCmd.Flags().Int64Var(&transactionsOpt.offset, "offset", 0, "list transactions after this id")
	transactionsCmd.Flags().IntVar(&transactionsOpt.limit, "limit", 100, "max transactions")
}
