package main

import "savings-ledger/cmd"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	cmd.Execute(version)
}
