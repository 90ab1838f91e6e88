// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInactivityTimeout resetea conversaciones abandonadas a mitad de
// flujo.
const DefaultInactivityTimeout = 5 * time.Minute

// Session es el estado de una conversación. Se asume un mensaje en vuelo a
// la vez por sesión; el mutex protege contra resets del timer de
// inactividad.
type Session struct {
	ID string

	mu    sync.Mutex
	state State
	timer clockwork.Timer
}

// State devuelve una copia del estado actual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// reset vuelve al paso inicial sólo si la sesión sigue a mitad de flujo.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Step != StepInitial {
		s.state = initialState()
	}
}

// SessionStore mantiene las sesiones activas en memoria y arma el timer de
// inactividad de cada una.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	clock    clockwork.Clock
	timeout  time.Duration
}

// NewSessionStore crea el store con el timeout de inactividad dado.
func NewSessionStore(clock clockwork.Clock, timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}

	return &SessionStore{
		sessions: map[string]*Session{},
		clock:    clock,
		timeout:  timeout,
	}
}

// Get devuelve la sesión, creándola si no existe.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		s = &Session{ID: id, state: initialState()}
		st.sessions[id] = s
	}

	return s
}

// Touch reinicia el timer de inactividad de la sesión: si pasan timeout
// minutos sin actividad, la conversación vuelve al paso inicial.
func (st *SessionStore) Touch(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = st.clock.AfterFunc(st.timeout, s.reset)
}
