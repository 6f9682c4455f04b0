package serial

import (
	ioctl "github.com/daedaluz/goioctl"
	"fmt"
)

// SetExclusive puts the port into (or out of) TIOCEXCL mode, refusing
// further opens from other processes while held.
func (p *Port) SetExclusive(exclusive bool) error {
	if exclusive {
		return ioctl.Ioctl(uintptr(p.f), tiocexcl, 0)
	}
	return ioctl.Ioctl(uintptr(p.f), tiocnxcl, 0)
}

// OpenAPT opens the serial device at path and configures it the way every
// Thorlabs APT controller expects to be talked to: 115200 8N1, hardware
// (RTS/CTS) flow control, raw mode, exclusive access, blocking reads.
func OpenAPT(path string) (*Port, error) {
	opts := NewOptions()
	p, err := Open(path, opts)
	if err != nil {
		return nil, err
	}

	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, err
	}
	attrs.MakeRaw()
	attrs.SetSpeed(B115200)
	attrs.Cflag |= CREAD | CLOCAL | CRTSCTS
	attrs.Cflag &= ^(PARENB | CSTOPB)
	attrs.Cc[VMIN] = 1
	attrs.Cc[VTIME] = 0

	if err := p.SetAttr2(TCSANOW, attrs); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.Flush(TCIOFLUSH); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.SetExclusive(true); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// ReadFull blocks until exactly len(p) bytes have been read, or an error
// (including a closed port) interrupts the read. APT messages are framed by
// length, not by a delimiter, so callers never want a short read.
func (p *Port) ReadFull(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := p.Read(buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			return total, fmt.Errorf("serial: short read (%d/%d bytes): %w", total, len(buf), err)
		}
		if n == 0 {
			return total, fmt.Errorf("serial: read returned no data and no error")
		}
	}
	return total, nil
}
