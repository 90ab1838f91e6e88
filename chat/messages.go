// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/orders"
	"github.com/pollosandino/andino/sedes"
	"github.com/pollosandino/andino/utils/textutils"
)

// Reply es la respuesta del asistente para un turno de conversación.
type Reply struct {
	Message      string   `json:"message"`
	QuickReplies []string `json:"quick_replies,omitempty"`
	Step         Step     `json:"step"`
}

const (
	msgWelcomeMenu = "¡Perfecto! ¿En qué más puedo ayudarte?\n\n• 🍗 Ver productos\n• 📍 Pedido a domicilio\n• ⭐ Consultar puntos\n• 🏪 Ver sedes"

	msgAskAddress = "🍗 ¡Perfecto! Para hacer tu pedido con entrega a domicilio necesito validar la dirección.\n\n📝 Por favor escribe tu dirección completa:\n💡 Ejemplo: Carrera 15 # 93-07, Chapinero, Bogotá"

	msgAskNewAddress = "📝 Perfecto, escribe tu nueva dirección completa:\n\n💡 Ejemplo: Carrera 15 # 93-07, Chapinero, Bogotá"

	msgRetryAddress = "📝 Por favor, escribe tu dirección de nuevo con más detalles:\n\n💡 Ejemplo: Carrera 15 # 93-07, Chapinero, Bogotá"

	msgUnrecognizedConfirmation = "🤔 No entendí tu respuesta. Por favor confirma:\n\n¿Es correcta esta dirección?\n\n• Escribe \"Sí\" para confirmar\n• Escribe \"No\" para corregir"

	msgGeofenceError = "⚠️ Hubo un error verificando la cobertura. Por favor intenta de nuevo."

	msgOrderFormat = "📝 Para continuar con tu pedido, necesito estos datos en este formato:\n\n**nombre, teléfono, producto**\n💡 Ejemplo: Juan Pérez, 3001234567, pollo entero\n\n🍗 O escribe \"ver productos\" para ver el menú disponible"

	msgOrderBadPhone = "📱 El teléfono debe tener 10 dígitos. Por favor intenta de nuevo:\n\n📝 Formato: nombre, teléfono, producto\n💡 Ejemplo: Juan Pérez, 3001234567, pollo entero"

	msgOrderMissingData = "📝 Necesito más información. Por favor usa este formato:\n\n**nombre, teléfono, producto**\n💡 Ejemplo: Juan Pérez, 3001234567, pollo entero"
)

// errorMessages traduce el error tipificado del resolver a lenguaje natural.
var errorMessages = map[geocode.ErrorKind]string{
	geocode.ErrorInvalidFormat: "🤔 Tu dirección es muy general. Por favor incluye más detalles como el número de la casa y el barrio.\n\n💡 Ejemplo: Carrera 15 # 93-07, Chapinero, Bogotá",
	geocode.ErrorNotFound:      "❌ No encontré esa dirección. ¿Podrías verificar la ortografía y incluir más detalles?",
	geocode.ErrorInternal:      "⚠️ Tengo problemas verificando la dirección. ¿Podrías intentar de nuevo?",
}

var retryQuickReplies = []string{"🔄 Intentar de nuevo", "📞 Hablar con agente"}

// confirmationReply arma la pregunta de confirmación según cuántas
// sugerencias hay y qué tan confiable es la mejor.
func confirmationReply(result *geocode.ValidationResult) Reply {
	if !result.IsValid {
		message := result.Message
		if message == "" {
			message = errorMessages[result.Error]
		}
		if message == "" {
			message = errorMessages[geocode.ErrorInternal]
		}

		return Reply{
			Message:      message,
			QuickReplies: retryQuickReplies,
			Step:         StepWaitingForAddress,
		}
	}

	suggestions := result.Suggestions

	if len(suggestions) == 1 && suggestions[0].Confidence > 0.8 {
		return Reply{
			Message: fmt.Sprintf("✅ Encontré tu dirección:\n\n📍 **%s**\n\n¿Es correcta esta dirección?",
				suggestions[0].Formatted),
			QuickReplies: []string{"✅ Sí, es correcta", "❌ No, corregir"},
			Step:         StepConfirmingAddress,
		}
	}

	if len(suggestions) > 1 {
		var options strings.Builder
		for i, s := range suggestions {
			fmt.Fprintf(&options, "%d. %s\n", i+1, s.Formatted)
		}

		return Reply{
			Message: fmt.Sprintf("🔍 Encontré varias direcciones similares:\n\n%s\nSelecciona el número de la dirección correcta:",
				options.String()),
			QuickReplies: []string{"1️⃣", "2️⃣", "3️⃣", "❌ Ninguna es correcta"},
			Step:         StepConfirmingAddress,
		}
	}

	return Reply{
		Message: fmt.Sprintf("🤔 Creo que encontré tu dirección, pero quiero confirmar:\n\n📍 **%s**\n\n¿Es esta la dirección correcta?",
			suggestions[0].Formatted),
		QuickReplies: []string{"✅ Sí, es correcta", "❌ No, escribir de nuevo"},
		Step:         StepConfirmingAddress,
	}
}

// coveredReply celebra la cobertura y pide los datos del pedido.
func coveredReply(result *sedes.Result) Reply {
	return Reply{
		Message: fmt.Sprintf("🎉 ¡Perfecto! Hacemos entregas en tu zona.\n\n"+
			"🏪 Sede más cercana: **%s**\n"+
			"📏 Distancia: %s\n"+
			"⏰ Tiempo estimado: %s\n\n"+
			"Ahora necesito algunos datos para tu pedido:\n📝 Escribe: **nombre, teléfono, producto**\n\n💡 Ejemplo: Juan Pérez, 3001234567, pollo entero",
			result.NearestSede.Nombre,
			textutils.FormatDistance(result.DistanceMeters),
			result.EstimatedDeliveryTime),
		QuickReplies: []string{"🍗 Ver productos disponibles"},
		Step:         StepTakingOrder,
	}
}

// notCoveredReply ofrece las dos sedes más cercanas para recoger el pedido.
func notCoveredReply(result *sedes.Result) Reply {
	alternatives := result.NearestSedes
	if len(alternatives) > 2 {
		alternatives = alternatives[:2]
	}

	var lines []string
	for _, s := range alternatives {
		lines = append(lines, fmt.Sprintf("📍 **%s**: %s (%s)",
			s.Nombre, s.Direccion, textutils.FormatDistance(s.DistanceMeters)))
	}

	return Reply{
		Message: fmt.Sprintf("😔 Lo sentimos, tu dirección está fuera de nuestra zona de entrega.\n\n"+
			"📏 Distancia a la sede más cercana: %s\n"+
			"🚚 Nuestro radio máximo es de 5km\n\n"+
			"**Sedes más cercanas:**\n%s\n\n"+
			"💡 ¿Te gustaría recoger tu pedido en alguna de estas sedes?",
			textutils.FormatDistance(result.DistanceMeters),
			strings.Join(lines, "\n")),
		QuickReplies: []string{"🏪 Ver todas las sedes", "📝 Cambiar dirección", "📞 Hablar con agente"},
		Step:         StepInitial,
	}
}

// orderCreatedReply resume el pedido con su link de pago.
func orderCreatedReply(o *orders.Order, estimatedTime string) Reply {
	producto := o.Producto
	if r := []rune(producto); len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
		producto = string(r)
	}

	return Reply{
		Message: fmt.Sprintf("¡Listo %s! 🐔\n\n"+
			"**Pedido #%s**\n"+
			"%s - $%s\n\n"+
			"📍 **Entrega en:** %s\n"+
			"🏪 **Desde sede:** %s\n"+
			"📏 **Distancia:** %s\n"+
			"⏰ **Tiempo estimado:** %s\n\n"+
			"💳 **Link de pago:**\n%s\n\n"+
			"¿Algo más en lo que pueda ayudarte?",
			o.Nombre, o.Numero, producto, formatPesos(o.Total),
			o.Delivery.Direccion, o.Delivery.SedeNombre,
			textutils.FormatDistance(o.Delivery.DistanciaMetros),
			estimatedTime, o.PaymentLink),
		Step: StepInitial,
	}
}

// formatPesos escribe el precio con separador de miles al estilo es-CO.
func formatPesos(amount int) string {
	digits := fmt.Sprintf("%d", amount)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	return b.String()
}
