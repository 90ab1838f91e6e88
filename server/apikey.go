// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// ResolveMapsAPIKey devuelve la key de Google Maps: primero la configurada
// explícitamente, y si falta intenta recuperarla vía Application Default
// Credentials del proyecto GCP.
func ResolveMapsAPIKey(ctx context.Context, configured string) string {
	if configured != "" {
		return configured
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	apiKey, err := getAPIKeyFromADC(ctx)
	if err != nil {
		log.Printf("Failed to retrieve API key via ADC: %v", err)
		log.Print("GOOGLE_MAPS_API_KEY is not set and ADC failed. Google Maps Geocoding is required.")

		return ""
	}

	log.Println("✅ Successfully retrieved Google Maps API Key via ADC")

	return apiKey
}

func getAPIKeyFromADC(ctx context.Context) (string, error) {
	// 1. Get Project ID from ADC
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		// Fallback to known Project ID if not found in credentials
		// This happens when using user credentials without a quota project
		projectID = "pollosandino-20250530"
		log.Printf("⚠️ No Project ID found in credentials. Using fallback: %s", projectID)
	}

	// 2. Create API Keys client
	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	// 3. List keys to find the one with the expected display name
	const targetDisplayName = "Pollos Andino Geocoding Key"

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName == targetDisplayName {
			// ListKeys and GetKey redact the KeyString.
			// We must use GetKeyString to retrieve the secret.
			log.Printf("Found key resource '%s', retrieving secret...", key.Name)

			getReq := &apikeyspb.GetKeyStringRequest{
				Name: key.Name,
			}

			resp, err := client.GetKeyString(ctx, getReq)
			if err != nil {
				return "", fmt.Errorf("getting key string: %w", err)
			}

			if resp.KeyString == "" {
				return "", fmt.Errorf("key '%s' found but KeyString is still empty after GetKeyString", targetDisplayName)
			}

			return resp.KeyString, nil
		}
	}

	return "", fmt.Errorf("no API key with display name '%s' found in project %s", targetDisplayName, projectID)
}
