package apt

import (
	"encoding/binary"

	"github.com/daedaluz/thorapt/apterr"
)

// MOT_MOVE_COMPLETED is documented as carrying a 14-byte USTATUS payload but
// is observed to arrive header-only on MPC320 and with a 20-byte payload on
// K10CR1. All three shapes share the same wire id and are disambiguated by
// the stream header's HasData flag and, for the with-data case, the
// data_length field. Each shape decodes to its own Go type so callers never
// have to re-inspect wire framing to tell them apart.

// MotMoveCompletedHeaderOnly is the 6-byte header-only MOT_MOVE_COMPLETED
// shape observed on MPC320: only chan_ident, no status payload.
type MotMoveCompletedHeaderOnly struct {
	dest, src Address
	ChanIdent ChanIdent
}

// NewMotMoveCompletedHeaderOnly builds the header-only MOT_MOVE_COMPLETED
// shape observed on MPC320, for device simulators and tests.
func NewMotMoveCompletedHeaderOnly(dest, src Address, chanIdent ChanIdent) MotMoveCompletedHeaderOnly {
	return MotMoveCompletedHeaderOnly{dest, src, chanIdent}
}

func (m MotMoveCompletedHeaderOnly) ID() MessageID { return idMotMoveCompleted }
func (m MotMoveCompletedHeaderOnly) Dest() Address { return m.dest }
func (m MotMoveCompletedHeaderOnly) Src() Address  { return m.src }
func (m MotMoveCompletedHeaderOnly) Encode() []byte {
	return encodeHeaderOnly(idMotMoveCompleted, m.dest, m.src, byte(m.ChanIdent), 0)
}

// MotMoveCompletedUStatus is the 14-byte with-data shape documented for the
// APT family generally: a full UStatus record.
type MotMoveCompletedUStatus struct {
	dest, src Address
	Status    UStatus
}

// NewMotMoveCompletedUStatus builds the 14-byte MOT_MOVE_COMPLETED shape,
// for device simulators and tests.
func NewMotMoveCompletedUStatus(dest, src Address, status UStatus) MotMoveCompletedUStatus {
	return MotMoveCompletedUStatus{dest, src, status}
}

func (m MotMoveCompletedUStatus) ID() MessageID { return idMotMoveCompleted }
func (m MotMoveCompletedUStatus) Dest() Address { return m.dest }
func (m MotMoveCompletedUStatus) Src() Address  { return m.src }
func (m MotMoveCompletedUStatus) Encode() []byte {
	return encodeWithData(idMotMoveCompleted, m.dest, m.src, encodeUStatus(m.Status))
}

const motMoveCompletedLongPayloadLen = 20

// MotMoveCompletedLong is the 20-byte with-data shape observed on K10CR1: a
// UStatus record plus the stage's absolute encoder count.
type MotMoveCompletedLong struct {
	dest, src    Address
	Status       UStatus
	EncoderCount int32
}

// NewMotMoveCompletedLong builds the 20-byte MOT_MOVE_COMPLETED shape
// observed on K10CR1, for device simulators and tests.
func NewMotMoveCompletedLong(dest, src Address, status UStatus, encoderCount int32) MotMoveCompletedLong {
	return MotMoveCompletedLong{dest, src, status, encoderCount}
}

func (m MotMoveCompletedLong) ID() MessageID { return idMotMoveCompleted }
func (m MotMoveCompletedLong) Dest() Address { return m.dest }
func (m MotMoveCompletedLong) Src() Address  { return m.src }
func (m MotMoveCompletedLong) Encode() []byte {
	p := make([]byte, motMoveCompletedLongPayloadLen)
	copy(p[0:ustatusPayloadLen], encodeUStatus(m.Status))
	binary.LittleEndian.PutUint32(p[14:18], uint32(m.EncoderCount))
	return encodeWithData(idMotMoveCompleted, m.dest, m.src, p)
}

func decodeMotMoveCompleted(h Header, payload []byte) (Message, error) {
	const op = "apt.decodeMotMoveCompleted"
	if h.ID != idMotMoveCompleted {
		return nil, apterr.New(apterr.MalformedMessage, op)
	}
	if !h.HasData {
		if h.ParamOrLen > 0xff {
			return nil, apterr.New(apterr.MalformedMessage, op)
		}
		chanIdent := ChanIdent(byte(h.ParamOrLen))
		if err := validateChanIdent(chanIdent, op); err != nil {
			return nil, err
		}
		return MotMoveCompletedHeaderOnly{h.Dest, h.Src, chanIdent}, nil
	}
	switch int(h.ParamOrLen) {
	case ustatusPayloadLen:
		if len(payload) != ustatusPayloadLen {
			return nil, apterr.New(apterr.MalformedMessage, op)
		}
		status, err := decodeUStatus(payload, op)
		if err != nil {
			return nil, err
		}
		return MotMoveCompletedUStatus{h.Dest, h.Src, status}, nil
	case motMoveCompletedLongPayloadLen:
		if len(payload) != motMoveCompletedLongPayloadLen {
			return nil, apterr.New(apterr.MalformedMessage, op)
		}
		status, err := decodeUStatus(payload[:ustatusPayloadLen], op)
		if err != nil {
			return nil, err
		}
		return MotMoveCompletedLong{
			dest:         h.Dest,
			src:          h.Src,
			Status:       status,
			EncoderCount: int32(binary.LittleEndian.Uint32(payload[14:18])),
		}, nil
	default:
		return nil, apterr.New(apterr.MalformedMessage, op)
	}
}
