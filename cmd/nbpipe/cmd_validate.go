package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nbpipe/nbpipe/internal/config"
	"github.com/nbpipe/nbpipe/internal/pipeline"
)

func validateCmd(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "nbpipe.yaml", "Path to pipeline config")
	fs.Parse(args)

	loader := config.NewLoader()
	cfg, err := loader.LoadAndValidate(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	stages, err := pipeline.StagesFromConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("%s: %d stage(s) OK\n", cfg.Name, len(stages))
	for _, s := range stages {
		fmt.Printf("  %d. %s  %s  (failure code %d)\n", s.Position, s.Name, s.Notebook, s.FailureCode)
	}
	return 0
}
