package main

import (
	"github.com/spf13/cobra"

	"github.com/lexcodex/swiftline/config"
	"github.com/lexcodex/swiftline/tui"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the symbol outline of a Swift file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			symbols, _, err := extractFile(cfg, args[0])
			if err != nil {
				return err
			}
			return tui.Run(args[0], symbols)
		},
	}
}
