// main is the entry point for the storewatch CLI.
package main

import (
	"github.com/storewatch/storewatch/cmd"
	"github.com/storewatch/storewatch/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
