// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package orders

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository persiste clientes y pedidos sobre database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository crea el repositorio de pedidos.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema crea las tablas de clientes y pedidos si no existen.
func (r *Repository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clientes (
			cedula            VARCHAR PRIMARY KEY,
			nombre            VARCHAR NOT NULL,
			telefono          VARCHAR,
			email             VARCHAR,
			puntos_acumulados INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		return fmt.Errorf("creando schema de clientes: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pedidos (
			numero_pedido         VARCHAR PRIMARY KEY,
			cliente_cedula        VARCHAR NOT NULL,
			cliente_nombre        VARCHAR NOT NULL,
			cliente_telefono      VARCHAR NOT NULL,
			cliente_email         VARCHAR,
			direccion_entrega     VARCHAR NOT NULL,
			latitud_entrega       DOUBLE PRECISION,
			longitud_entrega      DOUBLE PRECISION,
			sede_asignada         VARCHAR,
			validacion_geografica BOOLEAN NOT NULL,
			distancia_metros      INTEGER,
			producto              VARCHAR NOT NULL,
			total                 INTEGER NOT NULL,
			estado                VARCHAR NOT NULL
		)`); err != nil {
		return fmt.Errorf("creando schema de pedidos: %w", err)
	}

	return nil
}

// UpsertCliente registra o actualiza un cliente sin tocar sus puntos.
func (r *Repository) UpsertCliente(ctx context.Context, cedula, nombre, telefono, email string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciando transacción de clientes: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT cedula FROM clientes WHERE cedula = $1`, cedula).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO clientes (cedula, nombre, telefono, email, puntos_acumulados)
			VALUES ($1, $2, $3, $4, 0)`,
			cedula, nombre, telefono, email); err != nil {
			return fmt.Errorf("insertando cliente %s: %w", cedula, err)
		}
	case err != nil:
		return fmt.Errorf("consultando cliente %s: %w", cedula, err)
	default:
		if _, err := tx.ExecContext(ctx, `
			UPDATE clientes SET nombre = $2, telefono = $3, email = $4
			 WHERE cedula = $1`,
			cedula, nombre, telefono, email); err != nil {
			return fmt.Errorf("actualizando cliente %s: %w", cedula, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmando transacción de clientes: %w", err)
	}

	return nil
}

// InsertPedido inserta el pedido.
func (r *Repository) InsertPedido(ctx context.Context, o *Order, email string) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO pedidos
			(numero_pedido, cliente_cedula, cliente_nombre, cliente_telefono,
			 cliente_email, direccion_entrega, latitud_entrega, longitud_entrega,
			 sede_asignada, validacion_geografica, distancia_metros,
			 producto, total, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.Numero, o.Telefono, o.Nombre, o.Telefono, email,
		o.Delivery.Direccion, o.Delivery.Lat, o.Delivery.Lng,
		o.Delivery.SedeID, true, o.Delivery.DistanciaMetros,
		o.Producto, o.Total, o.Estado); err != nil {
		return fmt.Errorf("insertando pedido %s: %w", o.Numero, err)
	}

	return nil
}
