// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind is the public error taxonomy surfaced to callers of the resolver.
type ErrorKind string

const (
	// ErrorInvalidFormat the text does not look like any Colombian address.
	ErrorInvalidFormat ErrorKind = "INVALID_FORMAT"
	// ErrorNotFound the address is well formed but the provider found nothing in Colombia.
	ErrorNotFound ErrorKind = "NOT_FOUND"
	// ErrorInternal the provider was unreachable or misconfigured after exhausting retries.
	ErrorInternal ErrorKind = "INTERNAL_ERROR"
	// ErrorInternationalAddress the text was confidently matched to a foreign place.
	ErrorInternationalAddress ErrorKind = "INTERNATIONAL_ADDRESS"
)

// ProviderError representa errores específicos del proveedor de geocodificación.
type ProviderError struct {
	Type    ProviderErrorType
	Message string
	Err     error
}

// ProviderErrorType define tipos de errores del proveedor.
type ProviderErrorType int

const (
	// ProviderErrorUnknown error desconocido.
	ProviderErrorUnknown ProviderErrorType = iota
	// ProviderErrorRateLimit límite de tasa alcanzado.
	ProviderErrorRateLimit
	// ProviderErrorQuotaExceeded cuota excedida.
	ProviderErrorQuotaExceeded
	// ProviderErrorTimeout timeout de conexión.
	ProviderErrorTimeout
	// ProviderErrorInvalidRequest request inválido.
	ProviderErrorInvalidRequest
	// ProviderErrorNetwork error de red.
	ProviderErrorNetwork
)

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRateLimitError verifica si el error es por límite de tasa.
func IsRateLimitError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ProviderErrorRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsTimeoutError verifica si el error es por timeout.
func IsTimeoutError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ProviderErrorTimeout
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// ClassifyHTTPError clasifica un código HTTP en un tipo de error del proveedor.
func ClassifyHTTPError(statusCode int) *ProviderError {
	switch statusCode {
	case http.StatusTooManyRequests: // 429
		return &ProviderError{
			Type:    ProviderErrorRateLimit,
			Message: "límite de tasa alcanzado",
		}
	case http.StatusForbidden: // 403
		return &ProviderError{
			Type:    ProviderErrorQuotaExceeded,
			Message: "cuota excedida o acceso denegado",
		}
	case http.StatusBadRequest: // 400
		return &ProviderError{
			Type:    ProviderErrorInvalidRequest,
			Message: "request inválido",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &ProviderError{
			Type:    ProviderErrorNetwork,
			Message: fmt.Sprintf("servicio no disponible (código %d)", statusCode),
		}
	default:
		return &ProviderError{
			Type:    ProviderErrorUnknown,
			Message: fmt.Sprintf("error HTTP %d", statusCode),
		}
	}
}
