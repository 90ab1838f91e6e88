// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package orders crea pedidos a domicilio una vez confirmada la cobertura.
package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/pollosandino/andino/metrics"
)

const (
	// DefaultProduct se asume cuando el cliente no nombra producto.
	DefaultProduct = "pollo entero"
	// EstadoPendientePago es el estado inicial de todo pedido.
	EstadoPendientePago = "pendiente_pago"

	paymentBaseURL = "https://pagos.pollosandino.com/pagar/"
	defaultPrice   = 15000
)

var (
	// ErrMissingFields el mensaje no trae al menos nombre y teléfono.
	ErrMissingFields = errors.New("faltan datos del pedido")
	// ErrInvalidPhone el teléfono no tiene exactamente 10 dígitos.
	ErrInvalidPhone = errors.New("el teléfono debe tener 10 dígitos")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// priceTable mapea palabras clave de producto a precio. Primera coincidencia
// gana; sin coincidencia aplica el precio del pollo entero.
var priceTable = []struct {
	keyword string
	price   int
}{
	{"pechuga", 18000},
	{"muslos", 12000},
	{"alas", 8000},
	{"huevos aa", 12000},
	{"huevos campesinos", 8000},
}

// Input son los datos del pedido tal como los escribe el cliente:
// "nombre, teléfono, producto".
type Input struct {
	Nombre   string
	Telefono string
	Producto string
}

// ParseInput interpreta el formato separado por comas. El producto es
// opcional y por defecto es pollo entero.
func ParseInput(message string) (*Input, error) {
	parts := strings.Split(message, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMissingFields
	}

	in := &Input{
		Nombre:   parts[0],
		Telefono: parts[1],
		Producto: DefaultProduct,
	}
	if len(parts) >= 3 && parts[2] != "" {
		in.Producto = parts[2]
	}

	if !phonePattern.MatchString(in.Telefono) {
		return nil, ErrInvalidPhone
	}

	return in, nil
}

// PriceFor calcula el precio según la tabla de palabras clave.
func PriceFor(producto string) int {
	lower := strings.ToLower(producto)
	for _, entry := range priceTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.price
		}
	}

	return defaultPrice
}

// Delivery es la información de entrega confirmada por el geofence.
type Delivery struct {
	Direccion       string
	Lat             float64
	Lng             float64
	SedeID          string
	SedeNombre      string
	DistanciaMetros int
}

// Order es un pedido creado, listo para pagar.
type Order struct {
	Numero      string
	Nombre      string
	Telefono    string
	Producto    string
	Total       int
	PaymentLink string
	Delivery    Delivery
	Estado      string
}

// Store persiste clientes y pedidos.
type Store interface {
	UpsertCliente(ctx context.Context, cedula, nombre, telefono, email string) error
	InsertPedido(ctx context.Context, o *Order, email string) error
}

// Service crea pedidos: número secuencial por reloj, precio por tabla y
// link de pago.
type Service struct {
	store Store
	clock clockwork.Clock
}

// NewService crea el servicio de pedidos.
func NewService(store Store, clock clockwork.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Create registra el cliente, inserta el pedido en estado pendiente_pago y
// devuelve el pedido con su link de pago.
func (s *Service) Create(ctx context.Context, in *Input, d Delivery) (*Order, error) {
	numero := fmt.Sprintf("PL%d", s.clock.Now().UnixMilli())

	order := &Order{
		Numero:      numero,
		Nombre:      in.Nombre,
		Telefono:    in.Telefono,
		Producto:    in.Producto,
		Total:       PriceFor(in.Producto),
		PaymentLink: paymentBaseURL + numero,
		Delivery:    d,
		Estado:      EstadoPendientePago,
	}

	// El cliente queda registrado con la cédula igual al teléfono y un
	// email provisional, igual que el flujo de caja.
	email := tempEmail(in.Nombre)
	if err := s.store.UpsertCliente(ctx, in.Telefono, in.Nombre, in.Telefono, email); err != nil {
		return nil, fmt.Errorf("registrando cliente: %w", err)
	}

	if err := s.store.InsertPedido(ctx, order, email); err != nil {
		return nil, fmt.Errorf("creando pedido %s: %w", numero, err)
	}

	metrics.OrdersCreated.Inc()

	return order, nil
}

func tempEmail(nombre string) string {
	return strings.ReplaceAll(strings.ToLower(nombre), " ", "") + "@temp.com"
}
