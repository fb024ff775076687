// Package client contains the HTTP client the STAKR CLI uses to talk to the
// API.
//
// # Overview
//
// Client is the transport-agnostic contract (Register, Login, Me, Ping);
// HTTPClient implements it over the JSON/form endpoints under /auth and the
// /health probe.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable (transport failures and 5xx answers),
// ErrUnauthorized (401), and common.ErrEmailInUse for a taken email. Any
// other non-2xx answer is returned as *APIError carrying the server's detail.
package client
