// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package sedes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pollosandino/andino/metrics"
	"github.com/pollosandino/andino/spatial"
)

// DefaultCoverageRadius es el radio de cobertura en metros cuando la sede no
// tiene uno configurado.
const DefaultCoverageRadius = 5000

const (
	basePrepMinutes = 15
	minutesPerKm    = 5
)

// ErrNoSedes indica que no hay sedes activas con coordenadas configuradas.
// Es un error de configuración, no del usuario.
var ErrNoSedes = errors.New("no hay sedes disponibles con coordenadas configuradas")

// NearestSede son los datos públicos de la sede más cercana.
type NearestSede struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Ciudad    string `json:"ciudad"`
}

// RankedSede es una sede anotada con su distancia para ofrecer alternativas.
type RankedSede struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	Direccion      string `json:"direccion"`
	Ciudad         string `json:"ciudad"`
	DistanceMeters int    `json:"distance_meters"`
	WithinRadius   bool   `json:"within_radius"`
}

// Result es el resultado de validar cobertura para una coordenada confirmada.
// "Más cercana" y "con cobertura" son hechos independientes: NearestSede es
// siempre la sede globalmente más cercana aunque quede fuera de su radio.
type Result struct {
	WithinRadius          bool         `json:"within_radius"`
	NearestSede           *NearestSede `json:"nearest_sede,omitempty"`
	DistanceMeters        int          `json:"distance_meters,omitempty"`
	EstimatedDeliveryTime string       `json:"estimated_delivery_time,omitempty"`
	NearestSedes          []RankedSede `json:"nearest_sedes,omitempty"`
	CoverageAvailable     bool         `json:"coverage_available"`
	ValidatedAddress      string       `json:"validated_address,omitempty"`
	Error                 string       `json:"error,omitempty"`
}

// SedeLister abstrae la fuente de sedes activas.
type SedeLister interface {
	ListActive(ctx context.Context) ([]Sede, error)
}

// Geofence resuelve cobertura de domicilios contra las sedes activas.
type Geofence struct {
	sedes SedeLister
}

// NewGeofence crea el resolver de cobertura.
func NewGeofence(sedes SedeLister) *Geofence {
	return &Geofence{sedes: sedes}
}

// Resolve calcula la distancia Haversine de la coordenada confirmada a cada
// sede activa, decide cobertura (distancia <= radio, inclusivo), elige la más
// cercana y estima el tiempo de entrega. Coordenadas fuera de Colombia
// producen un resultado estructurado, no un error.
func (g *Geofence) Resolve(ctx context.Context, lat, lng float64, formattedAddress string) (*Result, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	if !WithinColombiaBounds(lat, lng) {
		metrics.LocationValidations.WithLabelValues("outside_territory").Inc()

		return &Result{
			Error:            "Coordenadas fuera del territorio colombiano",
			ValidatedAddress: formattedAddress,
		}, nil
	}

	activas, err := g.sedes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("consultando sedes: %w", err)
	}
	if len(activas) == 0 {
		return nil, ErrNoSedes
	}

	point := spatial.Point{Lat: lat, Lng: lng}

	type sedeDistance struct {
		sede         Sede
		distance     int
		withinRadius bool
	}

	ranked := make([]sedeDistance, 0, len(activas))
	anyCovered := false
	for _, s := range activas {
		radio := s.RadioCobertura
		if radio == 0 {
			radio = DefaultCoverageRadius
		}

		d := spatial.DistanceMeters(point, s.Point)
		within := d <= radio
		anyCovered = anyCovered || within
		ranked = append(ranked, sedeDistance{sede: s, distance: d, withinRadius: within})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	nearest := ranked[0]

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	alternatives := make([]RankedSede, 0, len(top))
	for _, rd := range top {
		alternatives = append(alternatives, RankedSede{
			ID:             rd.sede.Codigo,
			Nombre:         rd.sede.Nombre,
			Direccion:      rd.sede.Direccion,
			Ciudad:         rd.sede.Ciudad,
			DistanceMeters: rd.distance,
			WithinRadius:   rd.withinRadius,
		})
	}

	telefono := nearest.sede.Telefono
	if telefono == "" {
		telefono = "Sin teléfono"
	}

	if anyCovered {
		metrics.LocationValidations.WithLabelValues("covered").Inc()
	} else {
		metrics.LocationValidations.WithLabelValues("not_covered").Inc()
	}

	return &Result{
		WithinRadius: anyCovered,
		NearestSede: &NearestSede{
			ID:        nearest.sede.Codigo,
			Nombre:    nearest.sede.Nombre,
			Direccion: nearest.sede.Direccion,
			Telefono:  telefono,
			Ciudad:    nearest.sede.Ciudad,
		},
		DistanceMeters:        nearest.distance,
		EstimatedDeliveryTime: estimateDeliveryTime(nearest.distance),
		NearestSedes:          alternatives,
		CoverageAvailable:     anyCovered,
		ValidatedAddress:      formattedAddress,
	}, nil
}

// estimateDeliveryTime estima el tiempo de entrega: 15 minutos base de
// preparación más 5 minutos por kilómetro, expresado como rango.
func estimateDeliveryTime(distanceMeters int) string {
	total := basePrepMinutes + float64(distanceMeters)/1000*minutesPerKm

	minTime := int(math.Round(total - 5))
	if minTime < 20 {
		minTime = 20
	}
	maxTime := int(math.Round(total + 10))

	return fmt.Sprintf("%d-%d minutos", minTime, maxTime)
}
