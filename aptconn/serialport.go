package aptconn

import "github.com/daedaluz/thorapt/serial"

// PortTransport adapts *serial.Port to the Transport/Drainer interfaces used
// by Connection. Reads go through ReadFull so the RX dispatcher's "read
// exactly N bytes" contract holds even if the underlying driver ever
// returns short reads.
type PortTransport struct {
	Port *serial.Port
}

func (p PortTransport) Read(buf []byte) (int, error)  { return p.Port.ReadFull(buf) }
func (p PortTransport) Write(buf []byte) (int, error) { return p.Port.Write(buf) }
func (p PortTransport) Close() error                  { return p.Port.Close() }
func (p PortTransport) Drain() error                  { return p.Port.Flush(serial.TCIOFLUSH) }

// OpenPort opens the named serial device configured for the APT family and
// wraps it as a Transport.
func OpenPort(path string) (PortTransport, error) {
	p, err := serial.OpenAPT(path)
	if err != nil {
		return PortTransport{}, err
	}
	return PortTransport{Port: p}, nil
}
