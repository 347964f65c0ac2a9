// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

/*
Package cricbuzz talks to the Cricbuzz RapidAPI.

The package is built from three stackable Fetchers:

  - Client: one authenticated GET, classified into NetworkError, HTTPError
    or MalformedResponseError
  - RetryPolicy: retries HTTP 429 with exponential backoff (1s, 2s, 4s, 8s),
    honouring Retry-After, and gives up with RateLimitedError after 5 attempts
  - Breaker: a sony/gobreaker circuit breaker that rejects calls while the
    upstream is failing

NewPipeline assembles them in the order Breaker -> RetryPolicy -> Client.

# Example

	client := cricbuzz.NewClient(&cfg.API)
	f := cricbuzz.NewPipeline(&cfg.API, client, nil)
	raw, err := f.Fetch(ctx, cricbuzz.PlayerBatting.Path("1413"))
	var limited *cricbuzz.RateLimitedError
	if errors.As(err, &limited) {
	    // every attempt was answered with 429
	}
*/
package cricbuzz
