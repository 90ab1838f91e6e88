// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pollosandino/andino/spatial"
)

// CachedAddress es una dirección previamente validada y todavía vigente.
type CachedAddress struct {
	Original     string
	Formatted    string
	Point        spatial.Point
	City         string
	Neighborhood string
	PlaceID      string
	Confidence   float64
}

// Cache guarda direcciones validadas para evitar llamadas repetidas al
// proveedor. Lookup devuelve (nil, nil) en caso de miss o entrada expirada.
type Cache interface {
	Lookup(ctx context.Context, normalized string) (*CachedAddress, error)
	Store(ctx context.Context, normalized string, s Suggestion, expiresAt time.Time) error
}

// SQLCache es un Cache sobre database/sql. Funciona con DuckDB y con
// PostgreSQL: usa placeholders $n y tipos comunes a ambos.
type SQLCache struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLCache crea el cache sobre la base dada.
func NewSQLCache(db *sql.DB, clock clockwork.Clock) *SQLCache {
	return &SQLCache{db: db, clock: clock}
}

// CreateSchema crea la tabla de direcciones validadas si no existe.
func (c *SQLCache) CreateSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS direcciones_validadas (
			direccion_original   VARCHAR PRIMARY KEY,
			direccion_formateada VARCHAR NOT NULL,
			latitud              DOUBLE PRECISION NOT NULL,
			longitud             DOUBLE PRECISION NOT NULL,
			ciudad               VARCHAR,
			barrio               VARCHAR,
			place_id             VARCHAR,
			confidence_score     DOUBLE PRECISION,
			expires_at           TIMESTAMP NOT NULL,
			created_at           TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creando schema de direcciones_validadas: %w", err)
	}

	return nil
}

// Lookup busca una entrada no expirada para la dirección normalizada.
func (c *SQLCache) Lookup(ctx context.Context, normalized string) (*CachedAddress, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT direccion_original, direccion_formateada, latitud, longitud,
		       ciudad, barrio, place_id, confidence_score
		  FROM direcciones_validadas
		 WHERE direccion_original = $1
		   AND expires_at > $2`,
		normalized, c.clock.Now())

	var cached CachedAddress
	var ciudad, barrio, placeID sql.NullString
	var confidence sql.NullFloat64

	err := row.Scan(&cached.Original, &cached.Formatted,
		&cached.Point.Lat, &cached.Point.Lng,
		&ciudad, &barrio, &placeID, &confidence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consultando cache de direcciones: %w", err)
	}

	cached.City = ciudad.String
	cached.Neighborhood = barrio.String
	cached.PlaceID = placeID.String
	cached.Confidence = confidence.Float64

	return &cached, nil
}

// Store guarda la mejor sugerencia para la dirección normalizada,
// reemplazando cualquier entrada anterior.
func (c *SQLCache) Store(ctx context.Context, normalized string, s Suggestion, expiresAt time.Time) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciando transacción de cache: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM direcciones_validadas WHERE direccion_original = $1`,
		normalized); err != nil {
		return fmt.Errorf("reemplazando entrada de cache: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO direcciones_validadas
			(direccion_original, direccion_formateada, latitud, longitud,
			 ciudad, barrio, place_id, confidence_score, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		normalized, s.Formatted, s.Coordinates.Lat, s.Coordinates.Lng,
		s.Components.City, s.Components.Neighborhood, s.PlaceID,
		s.Confidence, expiresAt, c.clock.Now()); err != nil {
		return fmt.Errorf("insertando entrada de cache: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmando transacción de cache: %w", err)
	}

	return nil
}
