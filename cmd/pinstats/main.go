package main

import (
	"flag"
	"fmt"
	"os"

	"pinstats/internal/di"
	"pinstats/internal/structures"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to the configuration file")
	debug := flag.Bool("d", false, "enable debug output to stderr")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pinstats: %s\n", err)
		os.Exit(1)
	}
}
