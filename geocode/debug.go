// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"
)

// debugTransport vuelca cada request y response del proveedor de geocoding
// al writer dado, redactando la API key. Se activa con MAPS_HTTP_DEBUG.
type debugTransport struct {
	transport http.RoundTripper
	writer    io.Writer
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redacted := req.Clone(req.Context())
	query := redacted.URL.Query()

	if query.Get("key") != "" {
		query.Set("key", "REDACTED")
		redacted.URL.RawQuery = query.Encode()
	}

	if dump, err := httputil.DumpRequestOut(redacted, false); err == nil {
		fmt.Fprintf(t.writer, "> %s", dump)
	}

	start := time.Now()

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(t.writer, "! %v\n", err)

		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		fmt.Fprintf(t.writer, "< (%s) %s", time.Since(start).Round(time.Millisecond), dump)
	}

	return resp, nil
}
