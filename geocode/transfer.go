// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Snapshot es el formato del archivo de exportación del cache de
// direcciones validadas.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Addresses  []SnapshotAddress `json:"addresses"`
}

// SnapshotAddress es una entrada del cache con sus timestamps originales,
// para poder restaurarla sin renovar su vigencia.
type SnapshotAddress struct {
	Original   string    `json:"direccion_original"`
	Formatted  string    `json:"direccion_formateada"`
	Latitud    float64   `json:"latitud"`
	Longitud   float64   `json:"longitud"`
	Ciudad     string    `json:"ciudad,omitempty"`
	Barrio     string    `json:"barrio,omitempty"`
	PlaceID    string    `json:"place_id,omitempty"`
	Confidence float64   `json:"confidence_score"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExportToJSON vuelca todo el cache (incluidas entradas expiradas) a un
// archivo JSON.
func (c *SQLCache) ExportToJSON(ctx context.Context, filepath string) (int, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT direccion_original, direccion_formateada, latitud, longitud,
		       ciudad, barrio, place_id, confidence_score, expires_at, created_at
		  FROM direcciones_validadas
		 ORDER BY direccion_original`)
	if err != nil {
		return 0, fmt.Errorf("listando cache de direcciones: %w", err)
	}
	defer rows.Close()

	snapshot := Snapshot{
		Version:    "1.0",
		ExportedAt: c.clock.Now(),
	}

	for rows.Next() {
		var a SnapshotAddress
		if err := rows.Scan(&a.Original, &a.Formatted, &a.Latitud, &a.Longitud,
			&a.Ciudad, &a.Barrio, &a.PlaceID, &a.Confidence,
			&a.ExpiresAt, &a.CreatedAt); err != nil {
			return 0, fmt.Errorf("leyendo fila del cache: %w", err)
		}

		snapshot.Addresses = append(snapshot.Addresses, a)
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterando cache de direcciones: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("serializando snapshot: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o600); err != nil {
		return 0, fmt.Errorf("escribiendo snapshot: %w", err)
	}

	return len(snapshot.Addresses), nil
}

// ImportFromJSON restaura entradas desde un archivo exportado, preservando
// expires_at y created_at tal como fueron exportados.
func (c *SQLCache) ImportFromJSON(ctx context.Context, filepath string) (int, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return 0, fmt.Errorf("leyendo snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return 0, fmt.Errorf("parseando snapshot: %w", err)
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(snapshot.Addresses),
			progressbar.OptionSetDescription("Importing direcciones"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	imported := 0

	for _, a := range snapshot.Addresses {
		if err := c.restore(ctx, a); err != nil {
			return imported, fmt.Errorf("restaurando %q: %w", a.Original, err)
		}

		imported++

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return imported, nil
}

func (c *SQLCache) restore(ctx context.Context, a SnapshotAddress) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciando transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM direcciones_validadas WHERE direccion_original = $1`,
		a.Original); err != nil {
		return fmt.Errorf("reemplazando entrada: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO direcciones_validadas
			(direccion_original, direccion_formateada, latitud, longitud,
			 ciudad, barrio, place_id, confidence_score, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.Original, a.Formatted, a.Latitud, a.Longitud,
		a.Ciudad, a.Barrio, a.PlaceID, a.Confidence,
		a.ExpiresAt, a.CreatedAt); err != nil {
		return fmt.Errorf("insertando entrada: %w", err)
	}

	return tx.Commit()
}
