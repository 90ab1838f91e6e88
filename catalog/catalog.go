// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog expone productos y puntos de fidelidad, las consultas
// disponibles desde el paso inicial de la conversación.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Producto es un producto del menú.
type Producto struct {
	Nombre string `json:"nombre"`
	Precio int    `json:"precio"`
	Stock  int    `json:"stock"`
	Activo bool   `json:"activo"`
}

// Cliente son los datos de fidelidad de un cliente registrado.
type Cliente struct {
	Cedula           string `json:"cedula"`
	Nombre           string `json:"nombre"`
	PuntosAcumulados int    `json:"puntos_acumulados"`
}

// Repository consulta el catálogo sobre database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository crea el repositorio de catálogo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema crea la tabla de productos si no existe.
func (r *Repository) CreateSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS productos (
			nombre VARCHAR PRIMARY KEY,
			precio INTEGER NOT NULL,
			stock  INTEGER NOT NULL DEFAULT 0,
			activo BOOLEAN NOT NULL DEFAULT true
		)`)
	if err != nil {
		return fmt.Errorf("creando schema de productos: %w", err)
	}

	return nil
}

// SaveProducto inserta o reemplaza un producto.
func (r *Repository) SaveProducto(ctx context.Context, p Producto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciando transacción de productos: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM productos WHERE nombre = $1`, p.Nombre); err != nil {
		return fmt.Errorf("reemplazando producto %s: %w", p.Nombre, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO productos (nombre, precio, stock, activo)
		VALUES ($1, $2, $3, $4)`,
		p.Nombre, p.Precio, p.Stock, p.Activo); err != nil {
		return fmt.Errorf("insertando producto %s: %w", p.Nombre, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmando transacción de productos: %w", err)
	}

	return nil
}

// ListActiveProducts devuelve los productos activos ordenados por nombre.
func (r *Repository) ListActiveProducts(ctx context.Context) ([]Producto, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT nombre, precio, stock, activo
		  FROM productos
		 WHERE activo
		 ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("consultando productos: %w", err)
	}
	defer rows.Close()

	var result []Producto
	for rows.Next() {
		var p Producto
		if err := rows.Scan(&p.Nombre, &p.Precio, &p.Stock, &p.Activo); err != nil {
			return nil, fmt.Errorf("leyendo producto: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterando productos: %w", err)
	}

	return result, nil
}

// CountProducts devuelve el total de productos registrados.
func (r *Repository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM productos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("contando productos: %w", err)
	}

	return count, nil
}

// PointsByCedula busca los puntos acumulados de un cliente. Devuelve
// (nil, nil) cuando la cédula no está registrada.
func (r *Repository) PointsByCedula(ctx context.Context, cedula string) (*Cliente, error) {
	var c Cliente
	err := r.db.QueryRowContext(ctx, `
		SELECT cedula, nombre, puntos_acumulados
		  FROM clientes
		 WHERE cedula = $1`, cedula).Scan(&c.Cedula, &c.Nombre, &c.PuntosAcumulados)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consultando puntos de %s: %w", cedula, err)
	}

	return &c, nil
}
