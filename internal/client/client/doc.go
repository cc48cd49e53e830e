// Package client contains the client-side building blocks that talk to the
// storefront backend and bootstrap local storage.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface): login and
//     signup, chat room listing and history, product pages, plus a generic
//     Request for anything else the backend exposes.
//  2. A concrete HTTP implementation (see HTTPClient) built on heimdall. It
//     decorates every request with the bearer token of the current session,
//     retries with a constant backoff and maps HTTP status codes to errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *StatusError. A 401 additionally matches
// ErrUnauthorized with errors.Is and fires the unauthorized hook, which the
// application wires to clearing the session. Transport failures match
// ErrUnavailable.
package client
