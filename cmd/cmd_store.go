// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/pollosandino/andino/config"
	"github.com/pollosandino/andino/geocode"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the validated address cache",
}

var storeExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export the validated address cache to a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		cache := geocode.NewSQLCache(db, clockwork.NewRealClock())
		if err := cache.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating address cache schema: %w", err)
		}

		exported, err := cache.ExportToJSON(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exporting address cache: %w", err)
		}

		log.Printf("📦 Exported %d direcciones to %s", exported, args[0])

		return nil
	},
}

var storeImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Restore the validated address cache from a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		cache := geocode.NewSQLCache(db, clockwork.NewRealClock())
		if err := cache.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating address cache schema: %w", err)
		}

		imported, err := cache.ImportFromJSON(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("importing address cache: %w", err)
		}

		log.Printf("📦 Imported %d direcciones from %s", imported, args[0])

		return nil
	},
}

func init() {
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeImportCmd)
	rootCmd.AddCommand(storeCmd)
}
