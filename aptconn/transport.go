package aptconn

import "io"

// Transport is the byte-stream primitive the connection core is built on
// (C2): exclusive open, fixed framing/flow-control already configured by the
// caller, blocking reads of exact length, write, flush, close. It is
// satisfied by *serial.Port (via serial.OpenAPT) and, in tests, by either
// end of a serial.OpenPTY loopback pair or any io.ReadWriteCloser.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Drainer is implemented by transports that can discard buffered but
// unread/unwritten bytes left over from a previous session (serial.Port,
// wrapped as PortTransport, does). Open skips the drain step for a
// transport that doesn't implement it, which is how tests can hand it a
// plain in-memory pipe.
type Drainer interface {
	Drain() error
}
