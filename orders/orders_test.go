// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package orders

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected *Input
		err      error
	}{
		{
			name:    "full order",
			message: "Juan Pérez, 3001234567, pechuga",
			expected: &Input{
				Nombre:   "Juan Pérez",
				Telefono: "3001234567",
				Producto: "pechuga",
			},
		},
		{
			name:    "product defaults to pollo entero",
			message: "Juan Pérez, 3001234567",
			expected: &Input{
				Nombre:   "Juan Pérez",
				Telefono: "3001234567",
				Producto: DefaultProduct,
			},
		},
		{
			name:    "short phone",
			message: "Juan, 300123",
			err:     ErrInvalidPhone,
		},
		{
			name:    "phone with letters",
			message: "Juan, 30012345ab",
			err:     ErrInvalidPhone,
		},
		{
			name:    "eleven digits",
			message: "Juan, 30012345678",
			err:     ErrInvalidPhone,
		},
		{
			name:    "missing phone",
			message: "Juan Pérez",
			err:     ErrMissingFields,
		},
		{
			name:    "empty name",
			message: ", 3001234567",
			err:     ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput(tt.message)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, in)
		})
	}
}

func TestPriceFor(t *testing.T) {
	tests := []struct {
		producto string
		expected int
	}{
		{"pollo entero", 15000},
		{"pechuga", 18000},
		{"pechuga a la plancha", 18000},
		{"muslos", 12000},
		{"alas", 8000},
		{"huevos aa", 12000},
		{"huevos campesinos", 8000},
		{"Pechuga", 18000},
		{"algo raro", 15000},
	}

	for _, tt := range tests {
		t.Run(tt.producto, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriceFor(tt.producto))
		})
	}
}

type fakeStore struct {
	clientes []string
	pedidos  []*Order
	err      error
}

func (f *fakeStore) UpsertCliente(_ context.Context, cedula, _, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.clientes = append(f.clientes, cedula)

	return nil
}

func (f *fakeStore) InsertPedido(_ context.Context, o *Order, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.pedidos = append(f.pedidos, o)

	return nil
}

func TestServiceCreate(t *testing.T) {
	clock := clockwork.NewFakeClockAt(
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeStore{}
	svc := NewService(store, clock)

	in := &Input{Nombre: "Juan Pérez", Telefono: "3001234567", Producto: "pechuga"}
	delivery := Delivery{
		Direccion:       "Cra. 15 #93-07, Bogotá",
		Lat:             4.6769,
		Lng:             -74.0508,
		SedeID:          "BOG01",
		SedeNombre:      "Pollos Andino Chapinero",
		DistanciaMetros: 800,
	}

	order, err := svc.Create(context.Background(), in, delivery)
	require.NoError(t, err)

	expectedNumero := "PL" + "1748779200000"
	assert.Equal(t, expectedNumero, order.Numero)
	assert.Equal(t, 18000, order.Total)
	assert.Equal(t, "https://pagos.pollosandino.com/pagar/"+expectedNumero, order.PaymentLink)
	assert.Equal(t, EstadoPendientePago, order.Estado)
	assert.Equal(t, delivery, order.Delivery)

	require.Len(t, store.clientes, 1)
	assert.Equal(t, "3001234567", store.clientes[0])
	require.Len(t, store.pedidos, 1)
}

func TestTempEmail(t *testing.T) {
	assert.Equal(t, "juanpérez@temp.com", tempEmail("Juan Pérez"))
}
