package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "yedamo",
		Short:         "Yedamo: four pillars charts and consultations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (built-in defaults when empty)")

	root.AddCommand(
		newServeCmd(&configPath),
		newComputeCmd(&configPath),
		newLookupCmd(&configPath),
		newConsultCmd(&configPath),
		newCacheCmd(&configPath),
		newMCPCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
