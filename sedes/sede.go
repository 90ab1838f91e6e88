// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package sedes maneja las sedes de la cadena y la resolución de cobertura
// de domicilios.
package sedes

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/pollosandino/andino/spatial"
)

// Sede es un punto de venta con zona de cobertura de domicilios.
type Sede struct {
	Codigo         string        `json:"codigo"`
	Nombre         string        `json:"nombre"`
	Ciudad         string        `json:"ciudad"`
	Direccion      string        `json:"direccion"`
	Telefono       string        `json:"telefono"`
	Horario        string        `json:"horario"`
	Point          spatial.Point `json:"point"`
	RadioCobertura int           `json:"radio_cobertura"` // metros
	Activa         bool          `json:"activa"`

	// Celdas H3 precalculadas para análisis espacial.
	H3Res5 int64 `json:"-"`
	H3Res6 int64 `json:"-"`
	H3Res7 int64 `json:"-"`
	H3Res8 int64 `json:"-"`
}

func (s *Sede) computeH3() error {
	latLng := h3.NewLatLng(s.Point.Lat, s.Point.Lng)
	for res := 5; res <= 8; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 5:
			s.H3Res5 = int64(cell)
		case 6:
			s.H3Res6 = int64(cell)
		case 7:
			s.H3Res7 = int64(cell)
		case 8:
			s.H3Res8 = int64(cell)
		}
	}

	return nil
}
