// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"strings"

	"github.com/pollosandino/andino/spatial"
)

// Components holds the structural pieces extracted from a geocoded address.
type Components struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	Department   string `json:"department,omitempty"`
}

// Candidate is one raw geocoding result from a provider, before confidence
// scoring and country filtering.
type Candidate struct {
	FormattedAddress string
	PlaceID          string
	Point            spatial.Point
	CountryCode      string
	CountryName      string
	Components       Components
}

// InColombia accepts either the ISO country code or a country-name substring,
// since providers are not consistent about which they populate.
func (c Candidate) InColombia() bool {
	return c.CountryCode == "CO" ||
		strings.Contains(strings.ToLower(c.CountryName), "colombia")
}

// Geocoder resolves a free-text address into ranked candidates.
// An empty slice with a nil error means the provider answered but found
// nothing; an error means the provider could not be reached or misbehaved
// (and the call may be retried).
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Candidate, error)
}

// Suggestion is one scored candidate offered to the user for confirmation.
// Immutable once built.
type Suggestion struct {
	Formatted   string        `json:"formatted"`
	PlaceID     string        `json:"placeId"`
	Coordinates spatial.Point `json:"coordinates"`
	Confidence  float64       `json:"confidence"`
	Components  Components    `json:"components"`
}

// ValidationResult is the outcome of resolving raw user text into address
// suggestions.
type ValidationResult struct {
	IsValid         bool         `json:"isValid"`
	Suggestions     []Suggestion `json:"suggestions"`
	FromCache       bool         `json:"fromCache"`
	Error           ErrorKind    `json:"error,omitempty"`
	DetectedCountry string       `json:"detectedCountry,omitempty"`
	Message         string       `json:"message,omitempty"`
}
