// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package seed

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/sedes"
)

func setupSeedDB(t *testing.T) (*sedes.Repository, *catalog.Repository) {
	t.Helper()

	db, err := sql.Open("duckdb", "") // In-memory database
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	sedeRepo := sedes.NewRepository(db)
	require.NoError(t, sedeRepo.CreateSchema(ctx))

	catalogRepo := catalog.NewRepository(db)
	require.NoError(t, catalogRepo.CreateSchema(ctx))

	return sedeRepo, catalogRepo
}

func TestImportSeedFile(t *testing.T) {
	sedeRepo, catalogRepo := setupSeedDB(t)
	ctx := context.Background()

	nSedes, nProductos, err := Import(ctx, sedeRepo, catalogRepo, "seed.yaml")
	require.NoError(t, err)
	assert.Equal(t, 4, nSedes)
	assert.Equal(t, 6, nProductos)

	activas, err := sedeRepo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, activas, 4)
	assert.Equal(t, "BAR01", activas[0].Codigo)
	assert.Equal(t, "Barranquilla", activas[0].Ciudad)
	assert.Equal(t, 5000, activas[0].RadioCobertura)

	productos, err := catalogRepo.ListActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, productos, 6)
}

func TestIfEmptySeedsOnlyOnce(t *testing.T) {
	sedeRepo, catalogRepo := setupSeedDB(t)
	ctx := context.Background()

	seeded, err := IfEmpty(ctx, sedeRepo, catalogRepo, "seed.yaml")
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = IfEmpty(ctx, sedeRepo, catalogRepo, "seed.yaml")
	require.NoError(t, err)
	assert.False(t, seeded)

	count, err := sedeRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestIfEmptyMissingFileIsNotAnError(t *testing.T) {
	sedeRepo, catalogRepo := setupSeedDB(t)

	seeded, err := IfEmpty(context.Background(), sedeRepo, catalogRepo, "no-such-file.yaml")
	require.NoError(t, err)
	assert.False(t, seeded)
}
