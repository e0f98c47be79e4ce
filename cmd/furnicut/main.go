package main

import (
	"context"
	"os"

	"github.com/piwi3910/FurniCut/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
