// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretConfirmation(t *testing.T) {
	tests := []struct {
		reply   string
		verdict Verdict
		index   int
	}{
		// El rechazo gana aunque la frase contenga "correcta".
		{"no es correcta", VerdictRejection, 0},
		{"no es correcto", VerdictRejection, 0},
		{"no está correcta", VerdictRejection, 0},
		{"esa no es correcta", VerdictRejection, 0},
		{"no", VerdictRejection, 0},
		{"No", VerdictRejection, 0},
		{"no, esa no es", VerdictRejection, 0},
		{"no esa dirección", VerdictRejection, 0},
		{"incorrecta", VerdictRejection, 0},
		{"incorrecto", VerdictRejection, 0},
		{"ninguna es correcta", VerdictRejection, 0},
		{"❌ Ninguna es correcta", VerdictRejection, 0},

		{"sí es correcta", VerdictConfirmation, 0},
		{"si está correcta", VerdictConfirmation, 0},
		{"correcta", VerdictConfirmation, 0},
		{"correcto", VerdictConfirmation, 0},
		{"orrecta", VerdictConfirmation, 0},
		{"corecta", VerdictConfirmation, 0},
		{"está bien", VerdictConfirmation, 0},
		{"perfecto", VerdictConfirmation, 0},
		{"✅ sí", VerdictConfirmation, 0},
		{"ok", VerdictConfirmation, 0},
		{"vale", VerdictConfirmation, 0},
		{"así es", VerdictConfirmation, 0},
		{"confirmado", VerdictConfirmation, 0},

		{"1️⃣", VerdictSelection, 0},
		{"2️⃣", VerdictSelection, 1},
		{"3️⃣", VerdictSelection, 2},
		{" 2️⃣ ", VerdictSelection, 1},

		{"qué dirección era?", VerdictNone, 0},
		{"", VerdictNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			verdict, idx := InterpretConfirmation(tt.reply)
			assert.Equal(t, tt.verdict, verdict)
			if tt.verdict == VerdictSelection {
				assert.Equal(t, tt.index, idx)
			}
		})
	}
}

func TestIsCancel(t *testing.T) {
	assert.True(t, IsCancel("cancelar"))
	assert.True(t, IsCancel("quiero SALIR de aquí"))
	assert.True(t, IsCancel("volver al inicio"))
	assert.False(t, IsCancel("carrera 15 # 93-07"))
}

func TestIsDeliveryIntent(t *testing.T) {
	assert.True(t, IsDeliveryIntent("quiero hacer un pedido"))
	assert.True(t, IsDeliveryIntent("📍 Pedido a domicilio"))
	assert.True(t, IsDeliveryIntent("tienen entrega?"))
	assert.False(t, IsDeliveryIntent("cuánto cuesta el pollo"))
}

func TestIsChangeAddress(t *testing.T) {
	assert.True(t, IsChangeAddress("📝 Cambiar dirección"))
	assert.True(t, IsChangeAddress("cambiar direccion por favor"))
	assert.False(t, IsChangeAddress("mi dirección es carrera 15"))
}
