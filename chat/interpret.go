// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import "strings"

// Verdict clasifica la respuesta del usuario durante la confirmación.
type Verdict int

const (
	// VerdictNone respuesta no reconocida; se repregunta.
	VerdictNone Verdict = iota
	// VerdictRejection el usuario rechazó la dirección.
	VerdictRejection
	// VerdictConfirmation el usuario aceptó la primera sugerencia.
	VerdictConfirmation
	// VerdictSelection el usuario eligió una opción numerada.
	VerdictSelection
)

// rejectionContains se evalúa antes que cualquier afirmación: "no es
// correcta" contiene "correcta" y clasificaría mal si la confirmación
// corriera primero.
var rejectionContains = []string{
	"no es correcta",
	"no es correcto",
	"no está correcta",
	"no está correcto",
	"incorrecta",
	"incorrecto",
	"no, ",
	"❌",
	"ninguna es correcta",
	"ninguna está correcta",
}

// confirmationContains incluye los errores tipográficos frecuentes de
// "correcta" que los clientes escriben desde el celular.
var confirmationContains = []string{
	"sí",
	"si",
	"correcta",
	"correcto",
	"orrecta",
	"orrecto",
	"corecta",
	"confirmado",
	"confirmo",
	"✅",
	"ok",
	"vale",
	"perfecto",
	"exacto",
	"así es",
	"bien",
}

// selectionGlyphs mapea los emojis de opción a su índice (base cero).
var selectionGlyphs = map[string]int{
	"1️⃣": 0,
	"2️⃣": 1,
	"3️⃣": 2,
}

// cancelKeywords resetea la conversación desde cualquier paso.
var cancelKeywords = []string{"cancelar", "salir", "menu", "inicio", "volver"}

// InterpretConfirmation clasifica la respuesta a "¿es correcta esta
// dirección?". El rechazo se evalúa primero; la selección numerada exige el
// mensaje exacto; la confirmación sólo corre si no hubo rechazo. Devuelve el
// índice seleccionado (base cero) cuando el veredicto es VerdictSelection.
func InterpretConfirmation(reply string) (Verdict, int) {
	trimmed := strings.TrimSpace(reply)
	lower := strings.ToLower(trimmed)

	if isRejection(lower) {
		return VerdictRejection, 0
	}

	if idx, ok := selectionGlyphs[trimmed]; ok {
		return VerdictSelection, idx
	}

	for _, token := range confirmationContains {
		if strings.Contains(lower, token) {
			return VerdictConfirmation, 0
		}
	}

	return VerdictNone, 0
}

func isRejection(lower string) bool {
	if lower == "no" || strings.HasPrefix(lower, "no ") {
		return true
	}

	for _, token := range rejectionContains {
		if strings.Contains(lower, token) {
			return true
		}
	}

	return false
}

// IsCancel detecta los comandos de escape globales.
func IsCancel(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range cancelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// IsChangeAddress detecta la petición explícita de cambiar la dirección.
func IsChangeAddress(message string) bool {
	lower := strings.ToLower(message)

	return strings.Contains(lower, "cambiar dirección") ||
		strings.Contains(lower, "cambiar direccion")
}

// IsDeliveryIntent detecta la intención de pedido a domicilio desde el paso
// inicial.
func IsDeliveryIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range []string{"pedido", "pedir", "domicilio", "entrega", "📍", "hacer pedido"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
