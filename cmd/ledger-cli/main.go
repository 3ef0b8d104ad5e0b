package main

import "github.com/pandodao/safe-ledger/cmd/ledger-cli/cmd"

func main() {
	cmd.Execute()
}
