package serial

import (
	ioctl "github.com/daedaluz/goioctl"
	"syscall"
	"unsafe"
)

// Winsize mirrors struct winsize from <asm-generic/termios.h>.
type Winsize struct {
	Row    uint16
	Col    uint16
	Xpixel uint16
	Ypixel uint16
}

// GetWinSize reads the terminal window size via TIOCGWINSZ.
func (p *Port) GetWinSize() (*Winsize, error) {
	ws := &Winsize{}
	err := ioctl.Ioctl(uintptr(p.f), tiocgwinsz, uintptr(unsafe.Pointer(ws)))
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// SetWinSize sets the terminal window size via TIOCSWINSZ.
func (p *Port) SetWinSize(ws *Winsize) error {
	return ioctl.Ioctl(uintptr(p.f), tiocswinsz, uintptr(unsafe.Pointer(ws)))
}

// SetLockPT locks or unlocks the pty pair referred to by a /dev/ptmx master
// fd via TIOCSPTLCK. The slave cannot be opened while locked.
func (p *Port) SetLockPT(locked bool) error {
	var v int32
	if locked {
		v = 1
	}
	return ioctl.Ioctl(uintptr(p.f), tiocsptlck, uintptr(unsafe.Pointer(&v)))
}

// LockedPT reports the current lock state of the pty pair via TIOCGPTLCK.
func (p *Port) LockedPT() (bool, error) {
	var v int32
	err := ioctl.Ioctl(uintptr(p.f), tiocgptlck, uintptr(unsafe.Pointer(&v)))
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// PTN returns the pty number of the master via TIOCGPTN, i.e. the N in
// /dev/pts/N.
func (p *Port) PTN() (uint32, error) {
	var n uint32
	err := ioctl.Ioctl(uintptr(p.f), tiocgptn, uintptr(unsafe.Pointer(&n)))
	if err != nil {
		return 0, err
	}
	return n, nil
}

// GetPTPeer opens the pty slave directly from the master fd via TIOCGPTPEER
// (Linux 4.13+), avoiding a path lookup through /dev/pts. flags are the
// open(2) flags of the new descriptor, access mode included: 0 opens the
// slave read-only.
//
// TIOCGPTPEER returns the new fd as the ioctl return value rather than
// through an argument, so it bypasses the error-only goioctl wrapper used
// elsewhere in this file.
func (p *Port) GetPTPeer(flags int) (*Port, error) {
	fd, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(p.f), tiocgptpeer, uintptr(flags))
	if errno != 0 {
		return nil, errno
	}
	return &Port{
		options: NewOptions(),
		f:       int(fd),
	}, nil
}
