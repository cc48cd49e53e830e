// Package session keeps the authenticated identity of the storefront client.
//
// The Store persists a Credential as four metadata keys (id, token, username,
// email) written and removed together, and lets other components observe
// login and logout through Subscribe. The realtime connection manager and the
// notification state are driven solely by these observations.
package session
