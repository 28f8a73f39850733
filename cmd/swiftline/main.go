package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/swiftline/config"
	"github.com/lexcodex/swiftline/server"
)

var flagConfig string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swiftline",
		Short: "Document-outline language server and tools for Swift sources",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("SWIFTLINE_CONFIG", "swiftline.yaml"), "Path to the YAML config file")

	root.AddCommand(newServeCmd(), newOutlineCmd(), newIndexCmd(), newShowCmd(), newBrowseCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			logger.Printf("swiftline %s listening on stdio", server.Version)
			return server.RunStdio(cmd.Context(), server.New(logger))
		},
	}
}

// newLogger builds the server logger, writing to the configured log
// file or stderr. Stdout is reserved for the protocol stream.
func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.New(os.Stderr, "swiftline: ", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "swiftline: ", log.LstdFlags), func() { _ = f.Close() }, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
