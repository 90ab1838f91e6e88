// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/chat"
	"github.com/pollosandino/andino/config"
	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/orders"
	"github.com/pollosandino/andino/sedes"
	"github.com/pollosandino/andino/seed"
	"github.com/pollosandino/andino/server"
)

var serveSeedFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the chat assistant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		clock := clockwork.NewRealClock()

		cache := geocode.NewSQLCache(db, clock)
		if err := cache.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating address cache schema: %w", err)
		}

		sedeRepo := sedes.NewRepository(db)
		if err := sedeRepo.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating sedes schema: %w", err)
		}

		orderRepo := orders.NewRepository(db)
		if err := orderRepo.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating orders schema: %w", err)
		}

		catalogRepo := catalog.NewRepository(db)
		if err := catalogRepo.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}

		history := chat.NewSQLConversationLog(db, clock)
		if err := history.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating conversations schema: %w", err)
		}

		seeded, err := seed.IfEmpty(ctx, sedeRepo, catalogRepo, serveSeedFile)
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if seeded {
			log.Printf("🌱 Seeded sedes and productos from %s", serveSeedFile)
		}

		apiKey := server.ResolveMapsAPIKey(ctx, cfg.Maps.APIKey)
		fmt.Println("📍 Geocoding: Google Maps (primary)")

		resolver := geocode.NewResolver(
			geocode.NewGoogleMapsGeocoder(apiKey), cache, clock, cfg.Cache.TTL)
		geofence := sedes.NewGeofence(sedeRepo)

		sessions := chat.NewSessionStore(clock, cfg.Chat.InactivityTimeout)
		engine := chat.NewEngine(resolver, geofence,
			orders.NewService(orderRepo, clock), catalogRepo, sedeRepo,
			nil, history, sessions)

		srv := server.NewServer(resolver, geofence, engine, sedeRepo)

		log.Printf("🚀 Listening on %s", cfg.Server.ListenAddr)

		return srv.Run(cfg.Server.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSeedFile, "seed-file", "seed/seed.yaml",
		"YAML file with sedes and productos for first boot")
	rootCmd.AddCommand(serveCmd)
}

// openDatabase abre DuckDB embebido o PostgreSQL según la configuración.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DB.Driver {
	case "duckdb":
		db, err := sql.Open("duckdb", cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("opening duckdb at %s: %w", cfg.DB.Path, err)
		}

		return db, nil
	case "pgx":
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER is pgx")
		}

		db, err := sql.Open("pgx", cfg.DB.URL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		if err := db.PingContext(context.Background()); err != nil {
			return nil, fmt.Errorf("pinging postgres: %w", err)
		}

		return db, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want duckdb or pgx)", cfg.DB.Driver)
	}
}
