// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GeocodeRequests cuenta resoluciones de dirección por resultado
	// (ok, cache_hit, invalid_format, not_found, international, internal_error).
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "andino_geocode_requests_total",
		Help: "Resoluciones de dirección, por resultado.",
	}, []string{"result"})

	// ProviderAttempts cuenta llamadas individuales al proveedor de geocoding.
	ProviderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "andino_geocode_provider_attempts_total",
		Help: "Intentos contra el proveedor de geocoding, por desenlace.",
	}, []string{"outcome"})

	// LocationValidations cuenta validaciones de cobertura por desenlace
	// (covered, not_covered, outside_territory).
	LocationValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "andino_location_validations_total",
		Help: "Validaciones de cobertura de domicilio, por desenlace.",
	}, []string{"coverage"})

	// ChatMessages cuenta mensajes procesados por paso de la conversación.
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "andino_chat_messages_total",
		Help: "Mensajes de chat procesados, por paso.",
	}, []string{"step"})

	// OrdersCreated cuenta pedidos creados.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "andino_orders_created_total",
		Help: "Pedidos creados.",
	})
)
