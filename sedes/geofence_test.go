// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package sedes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollosandino/andino/spatial"
)

type fakeLister struct {
	sedes []Sede
	err   error
}

func (f *fakeLister) ListActive(_ context.Context) ([]Sede, error) {
	return f.sedes, f.err
}

// chapinero es el punto de referencia de los tests: Cra. 15 #93-07, Bogotá.
var chapinero = spatial.Point{Lat: 4.6769, Lng: -74.0508}

func sedeAt(codigo string, p spatial.Point, radio int) Sede {
	return Sede{
		Codigo:         codigo,
		Nombre:         "Pollos Andino " + codigo,
		Ciudad:         "Bogotá",
		Direccion:      "Calle falsa 123",
		Telefono:       "6015551234",
		Point:          p,
		RadioCobertura: radio,
		Activa:         true,
	}
}

// offsetNorth corre el punto hacia el norte aproximadamente la distancia dada.
func offsetNorth(p spatial.Point, meters float64) spatial.Point {
	return spatial.Point{Lat: p.Lat + meters/111195.0, Lng: p.Lng}
}

func TestResolveInclusiveRadiusBoundary(t *testing.T) {
	sede := sedeAt("BOG01", offsetNorth(chapinero, 4000), 0)
	distance := spatial.DistanceMeters(chapinero, sede.Point)
	require.Positive(t, distance)

	t.Run("distance equal to radius is covered", func(t *testing.T) {
		s := sede
		s.RadioCobertura = distance
		g := NewGeofence(&fakeLister{sedes: []Sede{s}})

		result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
		require.NoError(t, err)
		assert.True(t, result.WithinRadius)
		assert.True(t, result.CoverageAvailable)
		assert.Equal(t, distance, result.DistanceMeters)
	})

	t.Run("one meter past the radius is not covered", func(t *testing.T) {
		s := sede
		s.RadioCobertura = distance - 1
		g := NewGeofence(&fakeLister{sedes: []Sede{s}})

		result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
		require.NoError(t, err)
		assert.False(t, result.WithinRadius)
		assert.False(t, result.CoverageAvailable)
		// La más cercana se reporta aunque no tenga cobertura.
		require.NotNil(t, result.NearestSede)
		assert.Equal(t, "BOG01", result.NearestSede.ID)
	})
}

func TestResolveZeroDistanceIsCovered(t *testing.T) {
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("BOG01", chapinero, 5000),
	}})

	result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
	require.NoError(t, err)
	assert.True(t, result.WithinRadius)
	assert.Zero(t, result.DistanceMeters)
}

func TestResolveNearestIsDistanceMonotonic(t *testing.T) {
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("MIL", offsetNorth(chapinero, 1000), 5000),
		sedeAt("DOSMIL", offsetNorth(chapinero, 2000), 5000),
		sedeAt("QUINIENTOS", offsetNorth(chapinero, 500), 5000),
	}})

	result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
	require.NoError(t, err)

	require.NotNil(t, result.NearestSede)
	assert.Equal(t, "QUINIENTOS", result.NearestSede.ID)

	require.Len(t, result.NearestSedes, 3)
	assert.Equal(t, "QUINIENTOS", result.NearestSedes[0].ID)
	assert.Equal(t, "MIL", result.NearestSedes[1].ID)
	assert.Equal(t, "DOSMIL", result.NearestSedes[2].ID)
	assert.LessOrEqual(t, result.NearestSedes[0].DistanceMeters, result.NearestSedes[1].DistanceMeters)
	assert.LessOrEqual(t, result.NearestSedes[1].DistanceMeters, result.NearestSedes[2].DistanceMeters)
}

func TestResolveRanksAtMostThree(t *testing.T) {
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("A", offsetNorth(chapinero, 1000), 5000),
		sedeAt("B", offsetNorth(chapinero, 2000), 5000),
		sedeAt("C", offsetNorth(chapinero, 3000), 5000),
		sedeAt("D", offsetNorth(chapinero, 4000), 5000),
	}})

	result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
	require.NoError(t, err)
	assert.Len(t, result.NearestSedes, 3)
}

func TestResolveZeroRadiusUsesDefault(t *testing.T) {
	// ~1000m de distancia con radio sin configurar: el default de 5000 cubre.
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("BOG01", offsetNorth(chapinero, 1000), 0),
	}})

	result, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
	require.NoError(t, err)
	assert.True(t, result.WithinRadius)
}

func TestResolveOutsideColombia(t *testing.T) {
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("BOG01", chapinero, 5000),
	}})

	// Madrid
	result, err := g.Resolve(context.Background(), 40.4168, -3.7038, "Gran Vía 28, Madrid")
	require.NoError(t, err, "fuera de territorio es resultado estructurado, no error")

	assert.False(t, result.WithinRadius)
	assert.False(t, result.CoverageAvailable)
	assert.Equal(t, "Coordenadas fuera del territorio colombiano", result.Error)
	assert.Equal(t, "Gran Vía 28, Madrid", result.ValidatedAddress)
	assert.Nil(t, result.NearestSede)
}

func TestResolveNoSedesConfigured(t *testing.T) {
	g := NewGeofence(&fakeLister{})

	_, err := g.Resolve(context.Background(), chapinero.Lat, chapinero.Lng, "dir")
	require.ErrorIs(t, err, ErrNoSedes)
}

func TestResolveInvalidCoordinates(t *testing.T) {
	g := NewGeofence(&fakeLister{sedes: []Sede{
		sedeAt("BOG01", chapinero, 5000),
	}})

	_, err := g.Resolve(context.Background(), 100, -74, "dir")
	require.Error(t, err)
}

func TestEstimateDeliveryTime(t *testing.T) {
	tests := []struct {
		name     string
		meters   int
		expected string
	}{
		{"at the door", 0, "20-25 minutos"},
		{"800 meters", 800, "20-29 minutos"},
		{"3 km", 3000, "25-40 minutos"},
		{"10 km", 10000, "60-75 minutos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimateDeliveryTime(tt.meters))
		})
	}
}
