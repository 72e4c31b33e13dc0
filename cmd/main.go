package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env must be loaded before viper reads the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var configDir string
	root := &cobra.Command{
		Use:          "sitegen",
		Short:        "Generate web application source trees from blueprints",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")

	root.AddCommand(
		serveCmd(&configDir),
		generateCmd(&configDir),
		cacheCmd(&configDir),
	)
	return root
}
