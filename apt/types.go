// Package apt implements the APT binary message codec (C1): encoding and
// decoding of the tagged union of known Thorlabs APT messages, plus the
// 6-byte header peek used to frame the stream.
package apt

import (
	"fmt"

	"github.com/daedaluz/thorapt/apterr"
)

// Address identifies a sender or destination on the APT bus.
type Address byte

const (
	HostController Address = 0x01
	RackController Address = 0x11
	GenericUSB     Address = 0x50

	Bay0 Address = 0x21
	Bay1 Address = 0x22
	Bay2 Address = 0x23
	Bay3 Address = 0x24
	Bay4 Address = 0x25
	Bay5 Address = 0x26
	Bay6 Address = 0x27
	Bay7 Address = 0x28
	Bay8 Address = 0x29
	Bay9 Address = 0x2A
)

const destDataBit = 0x80

func (a Address) String() string {
	switch a {
	case HostController:
		return "HOST_CONTROLLER"
	case RackController:
		return "RACK_CONTROLLER"
	case GenericUSB:
		return "GENERIC_USB"
	default:
		if a >= Bay0 && a <= Bay9 {
			return fmt.Sprintf("BAY_%d", int(a-Bay0))
		}
		return fmt.Sprintf("Address(0x%02x)", byte(a))
	}
}

// ChanIdent is a bitflag set of motor channels. Zero means "all channels
// disabled" in the MOD_SET_CHANENABLESTATE sense; any other value must be
// composed only of the four known bits.
type ChanIdent uint16

const (
	Channel1 ChanIdent = 0x01
	Channel2 ChanIdent = 0x02
	Channel3 ChanIdent = 0x04
	Channel4 ChanIdent = 0x08

	chanIdentKnownBits = Channel1 | Channel2 | Channel3 | Channel4
)

// Valid reports whether c is zero or composed only of known channel bits.
func (c ChanIdent) Valid() bool {
	return c&^chanIdentKnownBits == 0
}

// validateChanIdent rejects a ChanIdent carrying unknown bits: "unknown bits
// reject" is strict, not a warn-and-mask.
func validateChanIdent(c ChanIdent, op string) error {
	if !c.Valid() {
		return apterr.New(apterr.MalformedMessage, op)
	}
	return nil
}

// EnableState is the on/off state of a channel's drive electronics.
type EnableState byte

const (
	Enabled  EnableState = 0x01
	Disabled EnableState = 0x02
)

// JogDirection selects the direction of a MOVE_JOG command.
type JogDirection byte

const (
	JogForward JogDirection = 0x01
	JogReverse JogDirection = 0x02
)

// StopMode selects how a MOVE_STOP command decelerates the motor.
type StopMode byte

const (
	StopImmediate StopMode = 0x01
	StopProfiled  StopMode = 0x02
)

// HardwareType identifies the controller hardware reported by HW_GET_INFO.
// The wire value is vendor-assigned; this codec carries it opaquely.
type HardwareType uint16

// FirmwareVersion is the 4-byte firmware version field embedded in
// HW_GET_INFO. Its on-wire byte order is ambiguous in vendor documentation;
// per the resolved reading it is (unused, minor, interim, major) from byte 0
// to byte 3 (little-endian positional order).
type FirmwareVersion struct {
	Major  byte
	Interim byte
	Minor  byte
	Unused byte
}

func decodeFirmwareVersion(b [4]byte) FirmwareVersion {
	return FirmwareVersion{
		Unused:  b[0],
		Minor:   b[1],
		Interim: b[2],
		Major:   b[3],
	}
}

func (f FirmwareVersion) encode() [4]byte {
	return [4]byte{f.Unused, f.Minor, f.Interim, f.Major}
}

func (f FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", f.Major, f.Interim, f.Minor)
}

// StatusBits is the 32-bit flag set carried by USTATUS and similar payloads.
type StatusBits uint32

const (
	CWHardLimit StatusBits = 1 << iota
	CCWHardLimit
	CWSoftLimit
	CCWSoftLimit
	InMotionCW
	InMotionCCW
	JoggingCW
	JoggingCCW
	Connected
	Homing
	Homed
	Initializing
	Tracking
	Settled
	PositionError
	InstrError
	Interlock
	Overtemp
	BusVoltFault
	CommutationError
	DigIP1
	DigIP2
	DigIP3
	DigIP4
	Overload
	EncoderFault
	Overcurrent
	BusCurrentFault
	PowerOK
	Active
	Err
	statusEnabled
)

// Enabled reports the ENABLED bit (bit 31) of a USTATUS status word.
func (s StatusBits) Enabled() bool {
	return s&statusEnabled != 0
}

var statusBitNames = []struct {
	bit  StatusBits
	name string
}{
	{CWHardLimit, "CWHARDLIMIT"},
	{CCWHardLimit, "CCWHARDLIMIT"},
	{CWSoftLimit, "CWSOFTLIMIT"},
	{CCWSoftLimit, "CCWSOFTLIMIT"},
	{InMotionCW, "INMOTIONCW"},
	{InMotionCCW, "INMOTIONCCW"},
	{JoggingCW, "JOGGINGCW"},
	{JoggingCCW, "JOGGINGCCW"},
	{Connected, "CONNECTED"},
	{Homing, "HOMING"},
	{Homed, "HOMED"},
	{Initializing, "INITIALIZING"},
	{Tracking, "TRACKING"},
	{Settled, "SETTLED"},
	{PositionError, "POSITIONERROR"},
	{InstrError, "INSTRERROR"},
	{Interlock, "INTERLOCK"},
	{Overtemp, "OVERTEMP"},
	{BusVoltFault, "BUSVOLTFAULT"},
	{CommutationError, "COMMUTATIONERROR"},
	{DigIP1, "DIGIP1"},
	{DigIP2, "DIGIP2"},
	{DigIP3, "DIGIP3"},
	{DigIP4, "DIGIP4"},
	{Overload, "OVERLOAD"},
	{EncoderFault, "ENCODERFAULT"},
	{Overcurrent, "OVERCURRENT"},
	{BusCurrentFault, "BUSCURRENTFAULT"},
	{PowerOK, "POWEROK"},
	{Active, "ACTIVE"},
	{Err, "ERROR"},
	{statusEnabled, "ENABLED"},
}

// Names returns the set bits of s as their vocabulary names, for
// human-readable logging.
func (s StatusBits) Names() []string {
	var out []string
	for _, e := range statusBitNames {
		if s&e.bit != 0 {
			out = append(out, e.name)
		}
	}
	return out
}

func (s StatusBits) String() string {
	names := s.Names()
	if len(names) == 0 {
		return "[]"
	}
	out := "["
	for i, n := range names {
		if i > 0 {
			out += "|"
		}
		out += n
	}
	return out + "]"
}
