package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexcodex/swiftline/config"
	"github.com/lexcodex/swiftline/persistence"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <dir>",
		Short: "Extract and store outlines for all Swift files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			indexed := 0
			err = filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !strings.HasSuffix(path, ".swift") {
					return nil
				}
				symbols, text, err := extractFile(cfg, path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", path, err)
					return nil
				}
				if err := store.SaveOutline(path, persistence.HashContent(text), symbols); err != nil {
					return err
				}
				indexed++
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files into %s\n", indexed, cfg.IndexPath)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the stored outline for an indexed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			symbols, _, err := store.LoadOutline(args[0])
			if err != nil {
				return err
			}
			printSymbols(cmd.OutOrStdout(), symbols, 0)
			return nil
		},
	}
}

func openStore(cfg *config.Config) (*persistence.OutlineStore, error) {
	if dir := filepath.Dir(cfg.IndexPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return persistence.NewOutlineStore(cfg.IndexPath)
}
