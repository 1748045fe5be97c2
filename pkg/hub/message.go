// Package hub fans emotion snapshots out to websocket subscribers using a
// single goroutine that owns the client set.
package hub

// Message is one pre-encoded text frame.
type Message struct {
	Topic string
	Data  []byte
}
