package realtime

import "context"

// FrameKind tells inbound frames apart.
type FrameKind int

const (
	// KindMessage is a MESSAGE frame delivered on a subscription.
	KindMessage FrameKind = iota
	// KindError is a protocol-level ERROR frame; the server closes the
	// connection after sending one.
	KindError
)

// Frame is an inbound frame reduced to what the manager and registry need.
type Frame struct {
	Kind         FrameKind
	Destination  string
	Subscription string
	Body         []byte
	// Message is the "message" header of an ERROR frame.
	Message string
}

// Conn is one live, authenticated realtime connection. Receive is called from
// a single goroutine; the other methods may be called concurrently with it.
type Conn interface {
	Subscribe(id, destination string) error
	Unsubscribe(id string) error
	Send(destination string, body []byte) error
	Receive() (*Frame, error)
	Close() error
}

// Dialer opens a connection authenticated with a bearer token. Dial returns
// only after the protocol handshake has completed.
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}
