// Package nuclino provides a typed client for the Nuclino REST API
// (teams, workspaces, items, collections, files, users):
//
//   - Typed domain objects with navigation helpers (workspace → children → items)
//   - Polymorphic response dispatch driven by the API's "object" discriminator
//   - Structured error taxonomy mapping HTTP status codes to concrete kinds
//   - Transparent client-side rate limiting (rolling 60s window, blocking admission)
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - One outbound request per call – no hidden retries, caching or coalescing
//   - Safe concurrent use of a single *Client instance
//   - Every failure is a *APIError carrying status code, message and raw body
//
// Typical usage:
//
//	client, err := nuclino.New(os.Getenv("NUCLINO_API_KEY"),
//	    nuclino.WithRequestsPerMinute(140),
//	    nuclino.WithMetrics(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	teams, err := client.GetTeams(ctx, nil)
//
// Domain objects keep a back-reference to the client that produced them, used
// only for further navigation calls; an object must not outlive its client.
// Objects are immutable snapshots: a fresh fetch always yields a new object.
// There is no identity map and no local cache.
package nuclino
