// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
)

// ConversationLog persiste los turnos de la conversación. Las escrituras son
// best-effort: el chat nunca falla por no poder guardar el historial.
type ConversationLog interface {
	Append(ctx context.Context, sessionID, mensaje string, esUsuario bool) error
}

// SQLConversationLog guarda los turnos en la tabla conversaciones.
type SQLConversationLog struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLConversationLog crea el log de conversaciones.
func NewSQLConversationLog(db *sql.DB, clock clockwork.Clock) *SQLConversationLog {
	return &SQLConversationLog{db: db, clock: clock}
}

// CreateSchema crea la tabla de conversaciones si no existe.
func (l *SQLConversationLog) CreateSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS conversaciones (
			session_id VARCHAR NOT NULL,
			mensaje    VARCHAR NOT NULL,
			es_usuario BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creando schema de conversaciones: %w", err)
	}

	return nil
}

// Append inserta un turno.
func (l *SQLConversationLog) Append(ctx context.Context, sessionID, mensaje string, esUsuario bool) error {
	if _, err := l.db.ExecContext(ctx, `
		INSERT INTO conversaciones (session_id, mensaje, es_usuario, created_at)
		VALUES ($1, $2, $3, $4)`,
		sessionID, mensaje, esUsuario, l.clock.Now()); err != nil {
		return fmt.Errorf("guardando turno de conversación: %w", err)
	}

	return nil
}
