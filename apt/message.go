package apt

import "github.com/daedaluz/thorapt/apterr"

// Message is the common contract every known APT variant implements: its
// wire id, addressing, and the ability to serialize itself. Decoding goes
// the other way, via the package-level Decode function, because a decoder
// needs to pick a concrete type from the wire id before it has a value to
// call a method on.
type Message interface {
	// ID returns the wire message identifier for this variant.
	ID() MessageID
	// Dest and Src are the addressing fields carried by every frame.
	Dest() Address
	Src() Address
	// Encode serializes the message to its exact wire bytes.
	Encode() []byte
}

// Decode parses a complete frame (header bytes followed by any payload
// bytes the header's HasData/ParamOrLen indicated) into the concrete
// Message variant named by the header's id. It returns UnknownMessage for an
// id this codec does not recognize, and MalformedMessage for any structural
// mismatch within a recognized id (wrong length, wrong high bit, invalid
// ChanIdent).
//
// The three MOT_MOVE_COMPLETED shapes (6-byte header-only on MPC320, 20-byte
// with-data on K10CR1, 14-byte USTATUS-shaped with-data on other families)
// are disambiguated here by HasData and payload length, and decode to
// distinct Go types so callers can tell them apart without inspecting wire
// framing themselves.
func Decode(h Header, payload []byte) (Message, error) {
	switch h.ID {
	case idHWDisconnect:
		return decodeHWDisconnect(h)
	case idHWReqInfo:
		return decodeHWReqInfo(h)
	case idHWGetInfo:
		return decodeHWGetInfo(h, payload)
	case idHWStartUpdateMsgs:
		return decodeHWStartUpdateMsgs(h)
	case idHWStopUpdateMsgs:
		return decodeHWStopUpdateMsgs(h)
	case idModSetChanEnableState:
		return decodeModSetChanEnableState(h)
	case idModReqChanEnableState:
		return decodeModReqChanEnableState(h)
	case idModGetChanEnableState:
		return decodeModGetChanEnableState(h)
	case idModIdentify:
		return decodeModIdentify(h)
	case idMotSetPosCounter:
		return decodeMotSetPosCounter(h, payload)
	case idMotReqPosCounter:
		return decodeMotReqPosCounter(h)
	case idMotGetPosCounter:
		return decodeMotGetPosCounter(h, payload)
	case idMotMoveHome:
		return decodeMotMoveHome(h)
	case idMotMoveHomed:
		return decodeMotMoveHomed(h)
	case idMotMoveAbsolute:
		return decodeMotMoveAbsolute(h, payload)
	case idMotMoveCompleted:
		return decodeMotMoveCompleted(h, payload)
	case idMotMoveStop:
		return decodeMotMoveStop(h)
	case idMotMoveStopped:
		return decodeMotMoveStopped(h, payload)
	case idMotMoveJog:
		return decodeMotMoveJog(h)
	case idMotResumeEndOfMoveMsgs:
		return decodeMotResumeEndOfMoveMsgs(h)
	case idMotReqUStatusUpdate:
		return decodeMotReqUStatusUpdate(h)
	case idMotGetUStatusUpdate:
		return decodeMotGetUStatusUpdate(h, payload)
	case idMotAckUStatusUpdate:
		return decodeMotAckUStatusUpdate(h)
	case idPolReqParams:
		return decodePolReqParams(h)
	case idPolGetParams:
		return decodePolGetParams(h, payload)
	case idPolSetParams:
		return decodePolSetParams(h, payload)
	case idRestoreFactorySettings:
		return decodeRestoreFactorySettings(h)
	default:
		return nil, apterr.New(apterr.UnknownMessage, "apt.Decode")
	}
}
