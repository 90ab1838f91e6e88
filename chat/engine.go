// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/metrics"
	"github.com/pollosandino/andino/orders"
	"github.com/pollosandino/andino/sedes"
)

// AddressResolver valida texto libre como dirección colombiana.
type AddressResolver interface {
	Resolve(ctx context.Context, raw string) *geocode.ValidationResult
}

// LocationValidator decide cobertura de entrega para una coordenada.
type LocationValidator interface {
	Resolve(ctx context.Context, lat, lng float64, formattedAddress string) (*sedes.Result, error)
}

// OrderCreator crea pedidos confirmados.
type OrderCreator interface {
	Create(ctx context.Context, in *orders.Input, d orders.Delivery) (*orders.Order, error)
}

// Catalog responde las consultas del paso inicial.
type Catalog interface {
	ListActiveProducts(ctx context.Context) ([]catalog.Producto, error)
	PointsByCedula(ctx context.Context, cedula string) (*catalog.Cliente, error)
}

// SedeDirectory lista las sedes para consultas informativas.
type SedeDirectory interface {
	ListActive(ctx context.Context) ([]sedes.Sede, error)
}

// Assistant atiende los mensajes que ningún flujo estructurado reconoce.
type Assistant interface {
	Reply(ctx context.Context, sessionID, message string) (string, error)
}

// CannedAssistant es el fallback por defecto: siempre ofrece el menú.
type CannedAssistant struct{}

// Reply devuelve el menú de ayuda.
func (CannedAssistant) Reply(_ context.Context, _, _ string) (string, error) {
	return "¡Hola! Soy el asistente virtual de Pollos Andino. Puedo ayudarte con:\n\n" +
		"• Consultar tus puntos acumulados\n• Ver disponibilidad de productos\n" +
		"• Información de nuestras sedes\n• **Realizar pedidos con entrega a domicilio** 🚚\n\n" +
		"¿En qué puedo ayudarte hoy?", nil
}

// NopConversationLog descarta el historial.
type NopConversationLog struct{}

// Append no hace nada.
func (NopConversationLog) Append(context.Context, string, string, bool) error { return nil }

var (
	cedulaPattern     = regexp.MustCompile(`\d{7,10}`)
	cedulaOnlyPattern = regexp.MustCompile(`^\d{7,10}$`)
)

const fallbackPhone = "(4) 123-4567"

// Engine ejecuta un turno de conversación contra la máquina de estados.
// Cada paso tiene exactamente un handler dueño del próximo mensaje.
type Engine struct {
	resolver  AddressResolver
	validator LocationValidator
	orders    OrderCreator
	catalog   Catalog
	directory SedeDirectory
	assistant Assistant
	history   ConversationLog
	sessions  *SessionStore
}

// NewEngine arma el motor de conversación. assistant y history pueden ser
// nil; se reemplazan por el fallback de menú y un log nulo.
func NewEngine(resolver AddressResolver, validator LocationValidator,
	orderCreator OrderCreator, cat Catalog, directory SedeDirectory,
	assistant Assistant, history ConversationLog, sessions *SessionStore,
) *Engine {
	if assistant == nil {
		assistant = CannedAssistant{}
	}
	if history == nil {
		history = NopConversationLog{}
	}

	return &Engine{
		resolver:  resolver,
		validator: validator,
		orders:    orderCreator,
		catalog:   cat,
		directory: directory,
		assistant: assistant,
		history:   history,
		sessions:  sessions,
	}
}

// HandleMessage procesa un mensaje del usuario y devuelve la respuesta del
// asistente. Nunca devuelve error: toda falla se expresa como mensaje de
// recuperación.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, message string) Reply {
	session := e.sessions.Get(sessionID)
	metrics.ChatMessages.WithLabelValues(string(session.State().Step)).Inc()

	e.logTurn(ctx, sessionID, message, true)

	reply := e.dispatch(ctx, session, message)

	e.logTurn(ctx, sessionID, reply.Message, false)
	e.sessions.Touch(session)

	return reply
}

func (e *Engine) dispatch(ctx context.Context, session *Session, message string) Reply {
	// El escape de cancelación sólo aplica dentro de un flujo: en initial,
	// "menu" o "inicio" son preguntas para el asistente, no una salida.
	if session.State().Step != StepInitial && IsCancel(message) {
		session.setState(initialState())

		return Reply{Message: msgWelcomeMenu, Step: StepInitial}
	}

	if IsChangeAddress(message) {
		session.setState(State{Step: StepWaitingForAddress})

		return Reply{Message: msgAskNewAddress, Step: StepWaitingForAddress}
	}

	switch session.State().Step {
	case StepWaitingForAddress:
		return e.handleAddress(ctx, session, message)
	case StepConfirmingAddress:
		return e.handleConfirmation(ctx, session, message)
	case StepTakingOrder:
		return e.handleOrder(ctx, session, message)
	default:
		return e.handleInitial(ctx, session, message)
	}
}

// handleAddress trata cualquier mensaje como candidata a dirección.
func (e *Engine) handleAddress(ctx context.Context, session *Session, message string) Reply {
	result := e.resolver.Resolve(ctx, message)
	reply := confirmationReply(result)

	if result.IsValid {
		session.setState(State{
			Step: StepConfirmingAddress,
			PendingAddress: &PendingAddress{
				Original:    message,
				Suggestions: result.Suggestions,
			},
		})
	} else {
		session.setState(State{Step: StepWaitingForAddress})
	}

	return reply
}

func (e *Engine) handleConfirmation(ctx context.Context, session *Session, message string) Reply {
	state := session.State()
	pending := state.PendingAddress
	if pending == nil || len(pending.Suggestions) == 0 {
		session.setState(State{Step: StepWaitingForAddress})

		return Reply{Message: msgRetryAddress, Step: StepWaitingForAddress}
	}

	verdict, idx := InterpretConfirmation(message)
	switch verdict {
	case VerdictRejection:
		session.setState(State{Step: StepWaitingForAddress})

		return Reply{Message: msgRetryAddress, Step: StepWaitingForAddress}

	case VerdictSelection:
		if idx >= len(pending.Suggestions) {
			return Reply{
				Message:      msgUnrecognizedConfirmation,
				QuickReplies: []string{"✅ Sí, es correcta", "❌ No, corregir"},
				Step:         StepConfirmingAddress,
			}
		}

		return e.validateDelivery(ctx, session, pending, pending.Suggestions[idx])

	case VerdictConfirmation:
		return e.validateDelivery(ctx, session, pending, pending.Suggestions[0])

	default:
		return Reply{
			Message:      msgUnrecognizedConfirmation,
			QuickReplies: []string{"✅ Sí, es correcta", "❌ No, corregir"},
			Step:         StepConfirmingAddress,
		}
	}
}

// validateDelivery corre el geofence sobre la sugerencia confirmada. El paso
// validating_location es transitorio: no consume input del usuario.
func (e *Engine) validateDelivery(ctx context.Context, session *Session,
	pending *PendingAddress, confirmed geocode.Suggestion,
) Reply {
	pending.Confirmed = &confirmed
	session.setState(State{Step: StepValidatingLocation, PendingAddress: pending})

	result, err := e.validator.Resolve(ctx,
		confirmed.Coordinates.Lat, confirmed.Coordinates.Lng, confirmed.Formatted)
	if err != nil {
		log.Printf("❌ error validando cobertura para %q: %v", confirmed.Formatted, err)
		session.setState(initialState())

		return Reply{
			Message:      msgGeofenceError,
			QuickReplies: []string{"🔄 Reintentar", "📞 Hablar con agente"},
			Step:         StepInitial,
		}
	}

	if result.NearestSede == nil {
		// Fuera del territorio u otra respuesta sin sede utilizable.
		session.setState(initialState())

		return Reply{
			Message:      "🌎 Solo hacemos entregas dentro de Colombia. ¿La dirección está en el país?",
			QuickReplies: retryQuickReplies,
			Step:         StepInitial,
		}
	}

	if result.WithinRadius {
		session.setState(State{
			Step: StepTakingOrder,
			DeliveryInfo: &DeliveryInfo{
				Address:        confirmed,
				Sede:           *result.NearestSede,
				DistanceMeters: result.DistanceMeters,
				EstimatedTime:  result.EstimatedDeliveryTime,
			},
		})

		return coveredReply(result)
	}

	session.setState(initialState())

	return notCoveredReply(result)
}

func (e *Engine) handleOrder(ctx context.Context, session *Session, message string) Reply {
	if strings.Contains(message, ",") {
		return e.createOrder(ctx, session, message)
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "productos disponibles") || strings.Contains(lower, "ver productos") {
		return e.productListReply(ctx, StepTakingOrder,
			"\n📝 Para hacer tu pedido, escribe:\n**nombre, teléfono, producto**\n💡 Ejemplo: Juan Pérez, 3001234567, pollo entero")
	}

	return Reply{Message: msgOrderFormat, Step: StepTakingOrder}
}

func (e *Engine) createOrder(ctx context.Context, session *Session, message string) Reply {
	in, err := orders.ParseInput(message)
	switch {
	case errors.Is(err, orders.ErrInvalidPhone):
		return Reply{Message: msgOrderBadPhone, Step: StepTakingOrder}
	case err != nil:
		return Reply{Message: msgOrderMissingData, Step: StepTakingOrder}
	}

	info := session.State().DeliveryInfo
	if info == nil {
		session.setState(initialState())

		return Reply{Message: msgWelcomeMenu, Step: StepInitial}
	}

	order, err := e.orders.Create(ctx, in, orders.Delivery{
		Direccion:       info.Address.Formatted,
		Lat:             info.Address.Coordinates.Lat,
		Lng:             info.Address.Coordinates.Lng,
		SedeID:          info.Sede.ID,
		SedeNombre:      info.Sede.Nombre,
		DistanciaMetros: info.DistanceMeters,
	})
	if err != nil {
		log.Printf("❌ error creando pedido: %v", err)
		telefono := info.Sede.Telefono
		if telefono == "" {
			telefono = fallbackPhone
		}

		return Reply{
			Message: fmt.Sprintf("❌ Error al crear el pedido. Llámanos al %s", telefono),
			Step:    StepTakingOrder,
		}
	}

	session.setState(initialState())

	return orderCreatedReply(order, info.EstimatedTime)
}

func (e *Engine) handleInitial(ctx context.Context, session *Session, message string) Reply {
	lower := strings.ToLower(message)

	// "nombre, lo que sea" desde el inicio: el cliente quiere ordenar pero
	// falta validar la dirección primero.
	if strings.Contains(message, ",") {
		parts := strings.Split(message, ",")
		if len(parts) >= 2 && strings.TrimSpace(parts[0]) != "" {
			session.setState(State{Step: StepWaitingForAddress})

			return Reply{
				Message: fmt.Sprintf("Perfecto %s, ahora necesito tu dirección completa para verificar si hacemos entrega en tu zona.\n\n📝 Por favor escribe tu dirección completa:\n💡 Ejemplo: Carrera 15 # 93-07, Chapinero, Bogotá",
					strings.TrimSpace(parts[0])),
				Step: StepWaitingForAddress,
			}
		}
	}

	if IsDeliveryIntent(message) {
		session.setState(State{Step: StepWaitingForAddress})

		return Reply{Message: msgAskAddress, Step: StepWaitingForAddress}
	}

	if strings.Contains(lower, "puntos") && !strings.Contains(lower, "productos") {
		cedula := cedulaPattern.FindString(message)
		if cedula == "" {
			return Reply{
				Message: "Para consultar tus puntos necesito tu cédula. ¿Me la puedes dar?",
				Step:    StepInitial,
			}
		}

		return e.pointsReply(ctx, cedula,
			"¿Quieres registrarte? Solo dime: nombre, teléfono, dirección")
	}

	if cedulaOnlyPattern.MatchString(strings.TrimSpace(message)) {
		return e.pointsReply(ctx, strings.TrimSpace(message),
			"¿Quieres registrarte haciendo un pedido?")
	}

	if e.mentionsProducts(lower) {
		return e.productListReply(ctx, StepInitial, "\n¿Quieres hacer un pedido a domicilio? 🚚")
	}

	if e.mentionsSedes(lower) {
		return e.sedesReply(ctx)
	}

	text, err := e.assistant.Reply(ctx, session.ID, message)
	if err != nil {
		log.Printf("⚠️ fallback del asistente falló: %v", err)
		text, _ = CannedAssistant{}.Reply(ctx, session.ID, message)
	}

	return Reply{Message: text, Step: StepInitial}
}

func (e *Engine) mentionsProducts(lower string) bool {
	if strings.Contains(lower, "puntos") {
		return false
	}

	for _, kw := range []string{"producto", "disponib", "precio", "cuánto", "cuanto"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func (e *Engine) mentionsSedes(lower string) bool {
	for _, kw := range []string{"sede", "dirección", "direccion", "ubicación", "ubicacion",
		"horario", "medellín", "medellin", "bogotá", "bogota", "cali", "barranquilla"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func (e *Engine) pointsReply(ctx context.Context, cedula, registerPrompt string) Reply {
	cliente, err := e.catalog.PointsByCedula(ctx, cedula)
	if err != nil {
		log.Printf("⚠️ error consultando puntos: %v", err)

		return Reply{Message: "Error consultando puntos. Intenta de nuevo.", Step: StepInitial}
	}

	if cliente == nil {
		return Reply{
			Message: fmt.Sprintf("No encontré la cédula %s. %s", cedula, registerPrompt),
			Step:    StepInitial,
		}
	}

	return Reply{
		Message: fmt.Sprintf("¡Hola %s! 🎉\n\nTus puntos acumulados: **%d puntos**\n\n¿Te ayudo con algo más?",
			cliente.Nombre, cliente.PuntosAcumulados),
		Step: StepInitial,
	}
}

func (e *Engine) productListReply(ctx context.Context, step Step, suffix string) Reply {
	productos, err := e.catalog.ListActiveProducts(ctx)
	if err != nil || len(productos) == 0 {
		if err != nil {
			log.Printf("⚠️ error consultando productos: %v", err)
		}

		return Reply{
			Message: "Error consultando productos. Llámanos al " + fallbackPhone,
			Step:    step,
		}
	}

	var b strings.Builder
	b.WriteString("🐔 **PRODUCTOS DISPONIBLES:**\n\n")
	for _, p := range productos {
		disponible := "✅ Disponible"
		if p.Stock <= 0 {
			disponible = "❌ Agotado"
		}
		fmt.Fprintf(&b, "**%s**: $%s - %s\n", p.Nombre, formatPesos(p.Precio), disponible)
	}
	b.WriteString(suffix)

	return Reply{Message: b.String(), Step: step}
}

func (e *Engine) sedesReply(ctx context.Context) Reply {
	activas, err := e.directory.ListActive(ctx)
	if err != nil || len(activas) == 0 {
		if err != nil {
			log.Printf("⚠️ error consultando sedes: %v", err)
		}

		return Reply{
			Message: "Error consultando sedes. Llámanos al " + fallbackPhone,
			Step:    StepInitial,
		}
	}

	var b strings.Builder
	b.WriteString("📍 **NUESTRAS SEDES:**\n\n")
	for _, s := range activas {
		fmt.Fprintf(&b, "**%s**\n🏠 %s\n⏰ %s\n📞 %s\n\n",
			s.Nombre, s.Direccion, s.Horario, s.Telefono)
	}
	b.WriteString("¿Te ayudo con algo más?")

	return Reply{Message: b.String(), Step: StepInitial}
}

func (e *Engine) logTurn(ctx context.Context, sessionID, message string, esUsuario bool) {
	if err := e.history.Append(ctx, sessionID, message, esUsuario); err != nil {
		log.Printf("⚠️ no se pudo guardar el historial de %s: %v", sessionID, err)
	}
}
