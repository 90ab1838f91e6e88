// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package sedes

import (
	"errors"
	"fmt"
	"strings"
)

// Límites aproximados de Colombia: Guajira al norte, Amazonas al sur,
// Guainía al oriente, el Pacífico de Nariño al occidente.
const (
	colombiaMinLat = -4.2
	colombiaMaxLat = 15.5
	colombiaMinLng = -84.8
	colombiaMaxLng = -66.8
)

// WithinColombiaBounds indica si las coordenadas caen dentro del territorio
// colombiano (caja aproximada).
func WithinColombiaBounds(lat, lng float64) bool {
	return lat >= colombiaMinLat && lat <= colombiaMaxLat &&
		lng >= colombiaMinLng && lng <= colombiaMaxLng
}

// validateCoordinates verifica que las coordenadas sean válidas globalmente.
func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitud debe estar entre -90 y 90 (recibido: %f)", lat)
	}

	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitud debe estar entre -180 y 180 (recibido: %f)", lng)
	}

	return nil
}

// validateSede verifica que una sede tenga datos válidos antes de guardarla.
func validateSede(s *Sede) error {
	if s == nil {
		return errors.New("sede no puede ser nil")
	}

	if strings.TrimSpace(s.Codigo) == "" {
		return errors.New("codigo no puede estar vacío")
	}

	if strings.TrimSpace(s.Nombre) == "" {
		return errors.New("nombre no puede estar vacío")
	}

	if err := validateCoordinates(s.Point.Lat, s.Point.Lng); err != nil {
		return fmt.Errorf("coordenadas inválidas: %w", err)
	}

	if !WithinColombiaBounds(s.Point.Lat, s.Point.Lng) {
		return fmt.Errorf("sede fuera del territorio colombiano: %s", s.Point)
	}

	if s.RadioCobertura < 0 {
		return fmt.Errorf("radio de cobertura negativo: %d", s.RadioCobertura)
	}

	return nil
}
