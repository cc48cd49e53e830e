package realtime

import "errors"

var (
	ErrNotConnected      = errors.New("realtime connection is not ready")
	ErrHandshakeRejected = errors.New("stomp handshake rejected")
	ErrConnectionClosed  = errors.New("realtime connection closed")
	ErrMalformedTopic    = errors.New("malformed topic")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrUnknownTopic      = errors.New("unknown topic")
)
