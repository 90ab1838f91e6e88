// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat implementa la máquina de estados de la conversación de
// pedidos: captura de dirección, confirmación, validación de cobertura y
// toma del pedido.
package chat

import (
	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/sedes"
)

// Step es el paso actual de la conversación. Determina de forma única qué
// handler interpreta el próximo mensaje del usuario.
type Step string

const (
	// StepInitial sin flujo activo; consultas generales.
	StepInitial Step = "initial"
	// StepWaitingForAddress el próximo mensaje se trata como dirección.
	StepWaitingForAddress Step = "waiting_for_address"
	// StepConfirmingAddress esperando sí/no/selección sobre las sugerencias.
	StepConfirmingAddress Step = "confirming_address"
	// StepValidatingLocation transitorio mientras corre el geofence.
	StepValidatingLocation Step = "validating_location"
	// StepTakingOrder esperando "nombre, teléfono, producto".
	StepTakingOrder Step = "taking_order"
)

// PendingAddress es la dirección en proceso de confirmación.
type PendingAddress struct {
	Original    string
	Suggestions []geocode.Suggestion
	Confirmed   *geocode.Suggestion
}

// DeliveryInfo es la entrega ya validada geográficamente.
type DeliveryInfo struct {
	Address        geocode.Suggestion
	Sede           sedes.NearestSede
	DistanceMeters int
	EstimatedTime  string
}

// State es la única fuente de verdad del progreso de una conversación.
type State struct {
	Step           Step
	PendingAddress *PendingAddress
	DeliveryInfo   *DeliveryInfo
}

func initialState() State {
	return State{Step: StepInitial}
}
