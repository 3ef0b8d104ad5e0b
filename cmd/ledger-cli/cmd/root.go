/*
Copyright © 2024 pando
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "ledger-cli",
	Short:        "http client for the safe-ledger service",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("endpoint", "l", "http://localhost:8080", "api endpoint")
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))

	viper.SetEnvPrefix("ledger")
	viper.AutomaticEnv()
}

func client() *resty.Client {
	return resty.New().SetBaseURL(viper.GetString("endpoint"))
}

type apiError struct {
	Detail string `json:"detail"`
}

// call sends the request and prints the decoded response body.
func call(cmd *cobra.Command, req *resty.Request, method, url string) error {
	var e apiError
	resp, err := req.SetContext(cmd.Context()).SetError(&e).Execute(method, url)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("%s: %s", resp.Status(), e.Detail)
	}

	return printJson(cmd, json.RawMessage(resp.Body()))
}

func printJson(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(b))
	return nil
}
