// Diagnostic tool for inspecting replay files
package main

import (
	"context"
	"flag"
	"os"

	"github.com/robert-malhotra/go-twreplay/internal/cmd/diagnose"
	"github.com/robert-malhotra/go-twreplay/internal/config"
)

func main() {
	cfg, err := diagnose.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := diagnose.Run(context.Background(), cfg, os.Stdout); err != nil {
		os.Exit(1)
	}
}
