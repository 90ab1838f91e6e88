// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package sedes

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository persiste sedes sobre database/sql (DuckDB o PostgreSQL).
type Repository struct {
	db *sql.DB
}

// NewRepository crea el repositorio de sedes.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema crea la tabla de sedes si no existe.
func (r *Repository) CreateSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sedes (
			codigo          VARCHAR PRIMARY KEY,
			nombre          VARCHAR NOT NULL,
			ciudad          VARCHAR NOT NULL,
			direccion       VARCHAR,
			telefono        VARCHAR,
			horario         VARCHAR,
			latitud         DOUBLE PRECISION NOT NULL,
			longitud        DOUBLE PRECISION NOT NULL,
			radio_cobertura INTEGER NOT NULL,
			activa          BOOLEAN NOT NULL,
			h3_res5         BIGINT,
			h3_res6         BIGINT,
			h3_res7         BIGINT,
			h3_res8         BIGINT
		)`)
	if err != nil {
		return fmt.Errorf("creando schema de sedes: %w", err)
	}

	return nil
}

// Save valida la sede, calcula sus celdas H3 y la inserta reemplazando
// cualquier versión anterior con el mismo código.
func (r *Repository) Save(ctx context.Context, s *Sede) error {
	if err := validateSede(s); err != nil {
		return err
	}

	if s.RadioCobertura == 0 {
		s.RadioCobertura = DefaultCoverageRadius
	}

	if err := s.computeH3(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciando transacción de sedes: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sedes WHERE codigo = $1`, s.Codigo); err != nil {
		return fmt.Errorf("reemplazando sede %s: %w", s.Codigo, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sedes
			(codigo, nombre, ciudad, direccion, telefono, horario,
			 latitud, longitud, radio_cobertura, activa,
			 h3_res5, h3_res6, h3_res7, h3_res8)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.Codigo, s.Nombre, s.Ciudad, s.Direccion, s.Telefono, s.Horario,
		s.Point.Lat, s.Point.Lng, s.RadioCobertura, s.Activa,
		s.H3Res5, s.H3Res6, s.H3Res7, s.H3Res8); err != nil {
		return fmt.Errorf("insertando sede %s: %w", s.Codigo, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmando transacción de sedes: %w", err)
	}

	return nil
}

// ListActive devuelve las sedes activas ordenadas por código.
func (r *Repository) ListActive(ctx context.Context) ([]Sede, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT codigo, nombre, ciudad, direccion, telefono, horario,
		       latitud, longitud, radio_cobertura, activa
		  FROM sedes
		 WHERE activa
		 ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("consultando sedes activas: %w", err)
	}
	defer rows.Close()

	var result []Sede
	for rows.Next() {
		var s Sede
		var direccion, telefono, horario sql.NullString

		if err := rows.Scan(&s.Codigo, &s.Nombre, &s.Ciudad,
			&direccion, &telefono, &horario,
			&s.Point.Lat, &s.Point.Lng, &s.RadioCobertura, &s.Activa); err != nil {
			return nil, fmt.Errorf("leyendo sede: %w", err)
		}

		s.Direccion = direccion.String
		s.Telefono = telefono.String
		s.Horario = horario.String
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterando sedes: %w", err)
	}

	return result, nil
}

// Count devuelve el total de sedes registradas.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sedes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("contando sedes: %w", err)
	}

	return count, nil
}
