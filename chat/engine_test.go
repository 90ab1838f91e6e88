// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/orders"
	"github.com/pollosandino/andino/sedes"
	"github.com/pollosandino/andino/spatial"
)

type fakeResolver struct {
	result *geocode.ValidationResult
	calls  int
	lastIn string
}

func (f *fakeResolver) Resolve(_ context.Context, raw string) *geocode.ValidationResult {
	f.calls++
	f.lastIn = raw

	return f.result
}

type fakeValidator struct {
	result *sedes.Result
	err    error
	calls  int
}

func (f *fakeValidator) Resolve(_ context.Context, _, _ float64, _ string) (*sedes.Result, error) {
	f.calls++

	return f.result, f.err
}

type fakeOrders struct {
	order *orders.Order
	err   error
	calls int
}

func (f *fakeOrders) Create(_ context.Context, in *orders.Input, d orders.Delivery) (*orders.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.order != nil {
		return f.order, nil
	}

	return &orders.Order{
		Numero:      "PL1748779200000",
		Nombre:      in.Nombre,
		Telefono:    in.Telefono,
		Producto:    in.Producto,
		Total:       orders.PriceFor(in.Producto),
		PaymentLink: "https://pagos.pollosandino.com/pagar/PL1748779200000",
		Delivery:    d,
		Estado:      orders.EstadoPendientePago,
	}, nil
}

type fakeCatalog struct {
	productos []catalog.Producto
	cliente   *catalog.Cliente
}

func (f *fakeCatalog) ListActiveProducts(_ context.Context) ([]catalog.Producto, error) {
	return f.productos, nil
}

func (f *fakeCatalog) PointsByCedula(_ context.Context, _ string) (*catalog.Cliente, error) {
	return f.cliente, nil
}

type fakeDirectory struct {
	sedes []sedes.Sede
}

func (f *fakeDirectory) ListActive(_ context.Context) ([]sedes.Sede, error) {
	return f.sedes, nil
}

type testHarness struct {
	engine    *Engine
	resolver  *fakeResolver
	validator *fakeValidator
	orders    *fakeOrders
	sessions  *SessionStore
	clock     *clockwork.FakeClock
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	clock := clockwork.NewFakeClock()
	sessions := NewSessionStore(clock, DefaultInactivityTimeout)

	resolver := &fakeResolver{result: &geocode.ValidationResult{
		IsValid: true,
		Suggestions: []geocode.Suggestion{{
			Formatted:   "Cra. 15 #93-07, Chapinero, Bogotá, Colombia",
			PlaceID:     "ChIJtest",
			Coordinates: spatial.Point{Lat: 4.6769, Lng: -74.0508},
			Confidence:  0.95,
		}},
	}}

	validator := &fakeValidator{result: &sedes.Result{
		WithinRadius: true,
		NearestSede: &sedes.NearestSede{
			ID:        "BOG01",
			Nombre:    "Pollos Andino Chapinero",
			Direccion: "Calle 93 #15-20",
			Telefono:  "6015551234",
			Ciudad:    "Bogotá",
		},
		DistanceMeters:        800,
		EstimatedDeliveryTime: "20-29 minutos",
		CoverageAvailable:     true,
	}}

	fo := &fakeOrders{}

	engine := NewEngine(resolver, validator, fo,
		&fakeCatalog{}, &fakeDirectory{}, nil, nil, sessions)

	return &testHarness{
		engine:    engine,
		resolver:  resolver,
		validator: validator,
		orders:    fo,
		sessions:  sessions,
		clock:     clock,
	}
}

func (h *testHarness) step(id string) Step {
	return h.sessions.Get(id).State().Step
}

func TestEndToEndOrderFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	// Intención de domicilio desde el paso inicial.
	reply := h.engine.HandleMessage(ctx, sid, "quiero un pedido a domicilio")
	assert.Equal(t, StepWaitingForAddress, reply.Step)
	assert.Equal(t, StepWaitingForAddress, h.step(sid))

	// La dirección produce una sugerencia de alta confianza.
	reply = h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07, Chapinero, Bogotá")
	assert.Equal(t, StepConfirmingAddress, reply.Step)
	assert.Contains(t, reply.Message, "Cra. 15 #93-07")
	assert.Equal(t, 1, h.resolver.calls)

	// "sí" confirma, el geofence aprueba y pasamos a tomar el pedido.
	reply = h.engine.HandleMessage(ctx, sid, "sí")
	assert.Equal(t, StepTakingOrder, reply.Step)
	assert.Contains(t, reply.Message, "Pollos Andino Chapinero")
	assert.Contains(t, reply.Message, "800m")
	assert.Equal(t, 1, h.validator.calls)

	state := h.sessions.Get(sid).State()
	require.NotNil(t, state.DeliveryInfo)
	assert.Equal(t, 800, state.DeliveryInfo.DistanceMeters)
	assert.Equal(t, "BOG01", state.DeliveryInfo.Sede.ID)

	// Datos del pedido: se crea y la sesión vuelve al inicio.
	reply = h.engine.HandleMessage(ctx, sid, "Juan Pérez, 3001234567, pechuga")
	assert.Equal(t, StepInitial, reply.Step)
	assert.Contains(t, reply.Message, "PL1748779200000")
	assert.Contains(t, reply.Message, "pagos.pollosandino.com")
	assert.Equal(t, 1, h.orders.calls)
	assert.Equal(t, StepInitial, h.step(sid))
}

func TestRejectionBeatsConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	require.Equal(t, StepConfirmingAddress, h.step(sid))

	// Contiene "correcta" pero es un rechazo.
	reply := h.engine.HandleMessage(ctx, sid, "no es correcta")
	assert.Equal(t, StepWaitingForAddress, reply.Step)
	assert.Equal(t, StepWaitingForAddress, h.step(sid))
	assert.Zero(t, h.validator.calls)
	assert.Nil(t, h.sessions.Get(sid).State().PendingAddress)
}

func TestNumberedSelection(t *testing.T) {
	h := newHarness(t)
	h.resolver.result = &geocode.ValidationResult{
		IsValid: true,
		Suggestions: []geocode.Suggestion{
			{Formatted: "Opción A", Coordinates: spatial.Point{Lat: 4.6, Lng: -74.0}},
			{Formatted: "Opción B", Coordinates: spatial.Point{Lat: 4.7, Lng: -74.1}},
		},
	}
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	reply := h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	assert.Contains(t, reply.Message, "1. Opción A")
	assert.Contains(t, reply.Message, "2. Opción B")

	reply = h.engine.HandleMessage(ctx, sid, "2️⃣")
	assert.Equal(t, StepTakingOrder, reply.Step)
	assert.Equal(t, 1, h.validator.calls)

	state := h.sessions.Get(sid).State()
	require.NotNil(t, state.DeliveryInfo)
	assert.Equal(t, "Opción B", state.DeliveryInfo.Address.Formatted)
}

func TestSelectionOutOfRangeReprompts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")

	reply := h.engine.HandleMessage(ctx, sid, "3️⃣")
	assert.Equal(t, StepConfirmingAddress, reply.Step)
	assert.Zero(t, h.validator.calls)
}

func TestUnrecognizedConfirmationReprompts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")

	reply := h.engine.HandleMessage(ctx, sid, "qué dirección era?")
	assert.Equal(t, StepConfirmingAddress, reply.Step)
	assert.Contains(t, reply.Message, "No entendí")
	assert.Equal(t, StepConfirmingAddress, h.step(sid))
}

func TestStateOwnershipAtTakingOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	h.engine.HandleMessage(ctx, sid, "sí")
	require.Equal(t, StepTakingOrder, h.step(sid))
	resolverCalls := h.resolver.calls

	// Un mensaje con pinta de dirección NO se interpreta como dirección
	// mientras se toma el pedido.
	reply := h.engine.HandleMessage(ctx, sid, "Calle 10 # 5-20 Bogotá")
	assert.Equal(t, StepTakingOrder, reply.Step)
	assert.Equal(t, resolverCalls, h.resolver.calls, "el resolver no debe correr")
	assert.Contains(t, reply.Message, "nombre, teléfono, producto")
}

func TestInvalidAddressStaysWaiting(t *testing.T) {
	h := newHarness(t)
	h.resolver.result = &geocode.ValidationResult{
		Suggestions: []geocode.Suggestion{},
		Error:       geocode.ErrorInvalidFormat,
	}
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	reply := h.engine.HandleMessage(ctx, sid, "el parque")

	assert.Equal(t, StepWaitingForAddress, reply.Step)
	assert.Contains(t, reply.Message, "muy general")
	assert.Equal(t, StepWaitingForAddress, h.step(sid))
}

func TestInternationalAddressUsesDetectorMessage(t *testing.T) {
	h := newHarness(t)
	h.resolver.result = &geocode.ValidationResult{
		Suggestions:     []geocode.Suggestion{},
		Error:           geocode.ErrorInternationalAddress,
		DetectedCountry: "España",
		Message:         "🌎 Parece que esa dirección está en España.",
	}
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	reply := h.engine.HandleMessage(ctx, sid, "gran via 28 madrid")

	assert.Contains(t, reply.Message, "España")
	assert.Equal(t, StepWaitingForAddress, h.step(sid))
}

func TestOutOfCoverageOffersAlternatives(t *testing.T) {
	h := newHarness(t)
	h.validator.result = &sedes.Result{
		WithinRadius: false,
		NearestSede: &sedes.NearestSede{
			ID: "BOG01", Nombre: "Pollos Andino Chapinero",
			Direccion: "Calle 93 #15-20", Ciudad: "Bogotá",
		},
		DistanceMeters: 8200,
		NearestSedes: []sedes.RankedSede{
			{ID: "BOG01", Nombre: "Pollos Andino Chapinero", Direccion: "Calle 93 #15-20", DistanceMeters: 8200},
			{ID: "BOG02", Nombre: "Pollos Andino Kennedy", Direccion: "Av. 1 de Mayo #80-10", DistanceMeters: 9100},
			{ID: "MED01", Nombre: "Pollos Andino Laureles", Direccion: "Circular 74B #39-21", DistanceMeters: 240000},
		},
	}
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	reply := h.engine.HandleMessage(ctx, sid, "sí")

	assert.Equal(t, StepInitial, reply.Step)
	assert.Contains(t, reply.Message, "fuera de nuestra zona")
	assert.Contains(t, reply.Message, "8.2km")
	// Sólo ofrece las dos más cercanas.
	assert.Contains(t, reply.Message, "Pollos Andino Kennedy")
	assert.NotContains(t, reply.Message, "Laureles")
	assert.Equal(t, StepInitial, h.step(sid))
}

func TestCancelResetsFromAnyStep(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	require.Equal(t, StepConfirmingAddress, h.step(sid))

	reply := h.engine.HandleMessage(ctx, sid, "cancelar")
	assert.Equal(t, StepInitial, reply.Step)
	assert.Equal(t, StepInitial, h.step(sid))
}

type countingAssistant struct {
	calls int
}

func (a *countingAssistant) Reply(_ context.Context, _, _ string) (string, error) {
	a.calls++

	return "El menú de hoy trae pollo asado y sopa de la casa.", nil
}

func TestCancelWordsAtInitialReachAssistant(t *testing.T) {
	h := newHarness(t)
	assistant := &countingAssistant{}
	engine := NewEngine(h.resolver, h.validator, h.orders,
		&fakeCatalog{}, &fakeDirectory{}, assistant, nil, h.sessions)

	// En initial, "menu" es una pregunta, no una cancelación.
	reply := engine.HandleMessage(context.Background(), "s1", "¿qué trae el menu de hoy?")
	assert.Equal(t, 1, assistant.calls)
	assert.Equal(t, StepInitial, reply.Step)
	assert.Contains(t, reply.Message, "pollo asado")
}

func TestOrderBadPhoneStaysTakingOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")
	h.engine.HandleMessage(ctx, sid, "sí")

	reply := h.engine.HandleMessage(ctx, sid, "Juan, 300123")
	assert.Equal(t, StepTakingOrder, reply.Step)
	assert.Contains(t, reply.Message, "10 dígitos")
	assert.Equal(t, StepTakingOrder, h.step(sid))
	assert.Zero(t, h.orders.calls)
}

func TestPointsLookup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	engine := NewEngine(h.resolver, h.validator, h.orders,
		&fakeCatalog{cliente: &catalog.Cliente{
			Cedula: "12345678", Nombre: "Ana Gómez", PuntosAcumulados: 340,
		}}, &fakeDirectory{}, nil, nil, h.sessions)

	reply := engine.HandleMessage(ctx, "s1", "cuántos puntos tengo? mi cédula es 12345678")
	assert.Contains(t, reply.Message, "Ana Gómez")
	assert.Contains(t, reply.Message, "340 puntos")
	assert.Equal(t, StepInitial, reply.Step)
}

func TestInactivityTimeoutResetsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")
	require.Equal(t, StepWaitingForAddress, h.step(sid))

	// El callback del timer corre en su propio goroutine.
	h.clock.Advance(DefaultInactivityTimeout + time.Second)
	assert.Eventually(t, func() bool {
		return h.step(sid) == StepInitial
	}, time.Second, 10*time.Millisecond)
}

func TestActivityRearmsInactivityTimer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const sid = "s1"

	h.engine.HandleMessage(ctx, sid, "pedido a domicilio")

	h.clock.Advance(4 * time.Minute)
	h.engine.HandleMessage(ctx, sid, "Carrera 15 # 93-07")

	// El timer se reinició: 4 minutos más no llegan al límite.
	h.clock.Advance(4 * time.Minute)
	assert.Equal(t, StepConfirmingAddress, h.step(sid))
}
