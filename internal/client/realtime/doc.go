// Package realtime keeps one STOMP-over-WebSocket connection per logged-in
// session and routes the frames it delivers to topic handlers.
//
// # Overview
//
// Manager is an explicit state machine (Disconnected, Connecting, Connected,
// Reconnecting) bound to the session store: a credential appearing starts a
// connection, clearing it tears the connection down synchronously. Every
// attempt carries an epoch, so dial results, read errors and retry timers that
// belong to an earlier attempt are ignored.
//
// Registry tracks topic subscriptions independently of the transport. Topics
// registered while offline are queued and all registered topics are
// re-subscribed on every Connected transition, in registration order.
//
// Inbound bodies are decoded by topic into the closed set of Payload variants
// (ChatEvent, NotificationEvent); anything else is logged and dropped.
package realtime
