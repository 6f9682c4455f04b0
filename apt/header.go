package apt

import (
	"encoding/binary"

	"github.com/daedaluz/thorapt/apterr"
)

// MessageID is the 16-bit little-endian identifier at the front of every
// APT frame.
type MessageID uint16

const (
	idHWDisconnect      MessageID = 0x0002
	idHWReqInfo         MessageID = 0x0005
	idHWGetInfo         MessageID = 0x0006
	idHWStartUpdateMsgs MessageID = 0x0011
	idHWStopUpdateMsgs  MessageID = 0x0012

	idModSetChanEnableState MessageID = 0x0210
	idModReqChanEnableState MessageID = 0x0211
	idModGetChanEnableState MessageID = 0x0212
	idModIdentify           MessageID = 0x0223

	idMotSetPosCounter      MessageID = 0x0410
	idMotReqPosCounter       MessageID = 0x0411
	idMotGetPosCounter       MessageID = 0x0412
	idMotMoveHome            MessageID = 0x0443
	idMotMoveHomed           MessageID = 0x0444
	idMotMoveAbsolute        MessageID = 0x0453
	idMotMoveCompleted       MessageID = 0x0464
	idMotMoveStop            MessageID = 0x0465
	idMotMoveStopped         MessageID = 0x0466
	idMotMoveJog             MessageID = 0x046A
	idMotResumeEndOfMoveMsgs MessageID = 0x046C
	idMotReqUStatusUpdate    MessageID = 0x0490
	idMotGetUStatusUpdate    MessageID = 0x0491
	idMotAckUStatusUpdate    MessageID = 0x0492

	idPolReqParams MessageID = 0x0531
	idPolGetParams MessageID = 0x0532
	idPolSetParams MessageID = 0x0530

	idRestoreFactorySettings MessageID = 0x0686
)

// headerLen is the fixed 6-byte header size: u16 id, u16 param/length, u8
// dest, u8 src.
const headerLen = 6

// Header is the result of peeking the first 6 bytes of a frame, before the
// payload (if any) is known to be available.
type Header struct {
	ID               MessageID
	Dest             Address
	Src              Address
	HasData          bool
	ParamOrLen       uint16
}

// DecodeHeader parses the fixed 6-byte frame header. It does not consume or
// require the payload. HasData reflects the high bit of the destination
// byte; when true, ParamOrLen is the payload length still to be read.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != headerLen {
		return Header{}, apterr.New(apterr.MalformedMessage, "apt.DecodeHeader")
	}
	id := MessageID(binary.LittleEndian.Uint16(b[0:2]))
	param := binary.LittleEndian.Uint16(b[2:4])
	destByte := b[4]
	src := Address(b[5])
	hasData := destByte&destDataBit != 0
	dest := Address(destByte &^ destDataBit)
	return Header{
		ID:         id,
		Dest:       dest,
		Src:        src,
		HasData:    hasData,
		ParamOrLen: param,
	}, nil
}

func encodeHeaderOnly(id MessageID, dest, src Address, p1, p2 byte) []byte {
	buf := make([]byte, headerLen)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(id))
	buf[2] = p1
	buf[3] = p2
	buf[4] = byte(dest) &^ destDataBit
	buf[5] = byte(src)
	return buf
}

func encodeWithData(id MessageID, dest, src Address, payload []byte) []byte {
	buf := make([]byte, headerLen+len(payload))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(id))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(payload)))
	buf[4] = byte(dest) | destDataBit
	buf[5] = byte(src)
	copy(buf[headerLen:], payload)
	return buf
}

// splitHeaderOnly validates a decoded header against an expected header-only
// message id and returns its two parameter bytes.
func splitHeaderOnly(h Header, want MessageID, op string) (p1, p2 byte, err error) {
	if h.ID != want {
		return 0, 0, apterr.New(apterr.MalformedMessage, op)
	}
	if h.HasData {
		return 0, 0, apterr.New(apterr.MalformedMessage, op)
	}
	return byte(h.ParamOrLen), byte(h.ParamOrLen >> 8), nil
}

// splitWithData validates a decoded header plus payload against an expected
// with-data message id and exact payload length.
func splitWithData(h Header, payload []byte, want MessageID, wantLen int, op string) error {
	if h.ID != want {
		return apterr.New(apterr.MalformedMessage, op)
	}
	if !h.HasData {
		return apterr.New(apterr.MalformedMessage, op)
	}
	if int(h.ParamOrLen) != wantLen || len(payload) != wantLen {
		return apterr.New(apterr.MalformedMessage, op)
	}
	return nil
}
