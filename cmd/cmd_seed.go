// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/config"
	"github.com/pollosandino/andino/sedes"
	"github.com/pollosandino/andino/seed"
)

func newSeedCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sedes and productos from the seed YAML, replacing existing entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()

			sedeRepo := sedes.NewRepository(db)
			if err := sedeRepo.CreateSchema(ctx); err != nil {
				return fmt.Errorf("creating sedes schema: %w", err)
			}

			catalogRepo := catalog.NewRepository(db)
			if err := catalogRepo.CreateSchema(ctx); err != nil {
				return fmt.Errorf("creating catalog schema: %w", err)
			}

			nSedes, nProductos, err := seed.Import(ctx, sedeRepo, catalogRepo, seedFile)
			if err != nil {
				return fmt.Errorf("importing seed: %w", err)
			}

			log.Printf("🌱 Imported %d sedes and %d productos from %s",
				nSedes, nProductos, seedFile)

			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed-file", "seed/seed.yaml",
		"YAML file with sedes and productos")

	return cmd
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}
