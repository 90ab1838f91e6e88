// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/pollosandino/andino/spatial"
)

const googleMapsBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder geocodifica direcciones usando la API de Google Maps,
// sesgada a Colombia vía region y components.
type GoogleMapsGeocoder struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleMapsGeocoder crea un geocoder de Google Maps. El timeout por
// intento lo controla el contexto del caller, no el cliente HTTP.
// MAPS_HTTP_DEBUG vuelca el tráfico HTTP a stderr con la key redactada.
func NewGoogleMapsGeocoder(apiKey string) *GoogleMapsGeocoder {
	client := &http.Client{}
	if os.Getenv("MAPS_HTTP_DEBUG") != "" {
		client.Transport = &debugTransport{
			transport: http.DefaultTransport,
			writer:    os.Stderr,
		}
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		httpClient: client,
		baseURL:    googleMapsBaseURL,
	}
}

type googleMapsResponse struct {
	Results []googleMapsResult `json:"results"`
	Status  string             `json:"status"`
}

type googleMapsResult struct {
	FormattedAddress  string `json:"formatted_address"`
	PlaceID           string `json:"place_id"`
	AddressComponents []struct {
		LongName  string   `json:"long_name"`
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Geocode consulta la API de geocoding. Devuelve slice vacío sin error cuando
// la API responde pero no encuentra resultados (status != OK).
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	params.Set("region", "co")
	params.Set("components", "country:CO")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creando request de geocoding: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Type:    ProviderErrorNetwork,
			Message: "error llamando a google maps",
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var body googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decodificando respuesta de google maps: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(body.Results))
	for _, r := range body.Results {
		candidates = append(candidates, toCandidate(r))
	}

	return candidates, nil
}

func toCandidate(r googleMapsResult) Candidate {
	c := Candidate{
		FormattedAddress: r.FormattedAddress,
		PlaceID:          r.PlaceID,
		Point: spatial.Point{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		},
	}

	for _, comp := range r.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "route":
				c.Components.Street = comp.LongName
			case "street_number":
				c.Components.Number = comp.LongName
			case "sublocality", "neighborhood":
				if c.Components.Neighborhood == "" {
					c.Components.Neighborhood = comp.LongName
				}
			case "locality":
				c.Components.City = comp.LongName
			case "administrative_area_level_1":
				c.Components.Department = comp.LongName
			case "country":
				c.CountryCode = comp.ShortName
				c.CountryName = comp.LongName
			}
		}
	}

	return c
}
