// Package models defines the storefront payloads exchanged with the backend
// over HTTP and STOMP, plus the client-side notification record.
package models
