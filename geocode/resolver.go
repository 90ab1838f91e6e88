// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pollosandino/andino/address"
	"github.com/pollosandino/andino/metrics"
)

const (
	// defaultCacheConfidence se asume para entradas de cache guardadas sin score.
	defaultCacheConfidence = 0.8
	// maxSuggestions es el tope de sugerencias ofrecidas al usuario.
	maxSuggestions = 3
)

// Resolver orquesta la validación completa de una dirección: normalización,
// detección de direcciones extranjeras, cache, formato colombiano,
// geocodificación con reintentos y puntuación de sugerencias.
type Resolver struct {
	geocoder Geocoder
	cache    Cache
	clock    clockwork.Clock
	policy   RetryPolicy
	cacheTTL time.Duration
}

// NewResolver crea un resolver con la política de reintentos por defecto.
func NewResolver(geocoder Geocoder, cache Cache, clock clockwork.Clock, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		cache:    cache,
		clock:    clock,
		policy:   DefaultRetryPolicy(),
		cacheTTL: cacheTTL,
	}
}

// WithRetryPolicy reemplaza la política de reintentos.
func (r *Resolver) WithRetryPolicy(policy RetryPolicy) *Resolver {
	r.policy = policy

	return r
}

// Resolve valida la dirección cruda del usuario y devuelve hasta 3
// sugerencias en Colombia, o un resultado inválido con el error tipificado.
// Nunca devuelve error de Go: toda falla queda expresada en el resultado.
func (r *Resolver) Resolve(ctx context.Context, raw string) *ValidationResult {
	clean := address.Normalize(raw)
	if clean == "" {
		metrics.GeocodeRequests.WithLabelValues("invalid_format").Inc()

		return &ValidationResult{Suggestions: []Suggestion{}, Error: ErrorInvalidFormat}
	}

	if d := address.DetectInternational(clean); d.IsInternational {
		metrics.GeocodeRequests.WithLabelValues("international").Inc()

		return &ValidationResult{
			Suggestions:     []Suggestion{},
			Error:           ErrorInternationalAddress,
			DetectedCountry: d.Country,
			Message:         d.Message,
		}
	}

	if cached, err := r.cache.Lookup(ctx, clean); err != nil {
		log.Printf("⚠️ cache de direcciones no disponible: %v", err)
	} else if cached != nil {
		metrics.GeocodeRequests.WithLabelValues("cache_hit").Inc()

		return &ValidationResult{
			IsValid:     true,
			FromCache:   true,
			Suggestions: []Suggestion{cachedSuggestion(cached)},
		}
	}

	if !address.HasColombianFormat(clean) {
		metrics.GeocodeRequests.WithLabelValues("invalid_format").Inc()

		return &ValidationResult{Suggestions: []Suggestion{}, Error: ErrorInvalidFormat}
	}

	candidates, err := withRetry(ctx, r.clock, r.policy,
		func(ctx context.Context) ([]Candidate, error) {
			cs, err := r.geocoder.Geocode(ctx, clean)
			if err != nil {
				metrics.ProviderAttempts.WithLabelValues(attemptOutcome(err)).Inc()

				return nil, err
			}
			metrics.ProviderAttempts.WithLabelValues("ok").Inc()

			return cs, nil
		})
	if err != nil {
		log.Printf("❌ geocoding de %q falló tras %d intentos: %v",
			clean, r.policy.MaxAttempts, err)
		metrics.GeocodeRequests.WithLabelValues("internal_error").Inc()

		return &ValidationResult{Suggestions: []Suggestion{}, Error: ErrorInternal}
	}

	suggestions := make([]Suggestion, 0, maxSuggestions)
	for _, c := range candidates {
		if !c.InColombia() {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			Formatted:   c.FormattedAddress,
			PlaceID:     c.PlaceID,
			Coordinates: c.Point,
			Confidence:  Confidence(clean, c.FormattedAddress),
			Components:  c.Components,
		})
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	if len(suggestions) == 0 {
		metrics.GeocodeRequests.WithLabelValues("not_found").Inc()

		return &ValidationResult{Suggestions: []Suggestion{}, Error: ErrorNotFound}
	}

	// Escritura best-effort: un cache caído no debe romper la validación.
	if err := r.cache.Store(ctx, clean, suggestions[0],
		r.clock.Now().Add(r.cacheTTL)); err != nil {
		log.Printf("⚠️ no se pudo guardar %q en cache: %v", clean, err)
	}

	metrics.GeocodeRequests.WithLabelValues("ok").Inc()

	return &ValidationResult{IsValid: true, Suggestions: suggestions}
}

// attemptOutcome etiqueta un intento fallido del proveedor para las métricas,
// distinguiendo rate limiting y timeouts del resto de las fallas.
func attemptOutcome(err error) string {
	switch {
	case IsRateLimitError(err):
		return "rate_limited"
	case IsTimeoutError(err):
		return "timeout"
	default:
		return "error"
	}
}

func cachedSuggestion(cached *CachedAddress) Suggestion {
	confidence := cached.Confidence
	if confidence == 0 {
		confidence = defaultCacheConfidence
	}

	return Suggestion{
		Formatted:   cached.Formatted,
		PlaceID:     cached.PlaceID,
		Coordinates: cached.Point,
		Confidence:  confidence,
		Components: Components{
			Neighborhood: cached.Neighborhood,
			City:         cached.City,
		},
	}
}
