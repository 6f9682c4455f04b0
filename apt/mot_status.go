package apt

import "encoding/binary"

const ustatusPayloadLen = 14

// UStatus is the 14-byte per-channel status record carried by
// MOT_GET_USTATUSUPDATE (and reused, by shape, for the 14-byte
// MOT_MOVE_COMPLETED variant).
type UStatus struct {
	ChanIdent     ChanIdent
	PositionSteps int32
	VelocitySteps int16
	MotorCurrentMA int16
	Status        StatusBits
}

func encodeUStatus(u UStatus) []byte {
	p := make([]byte, ustatusPayloadLen)
	binary.LittleEndian.PutUint16(p[0:2], uint16(u.ChanIdent))
	binary.LittleEndian.PutUint32(p[2:6], uint32(u.PositionSteps))
	binary.LittleEndian.PutUint16(p[6:8], uint16(u.VelocitySteps))
	binary.LittleEndian.PutUint16(p[8:10], uint16(u.MotorCurrentMA))
	binary.LittleEndian.PutUint32(p[10:14], uint32(u.Status))
	return p
}

func decodeUStatus(payload []byte, op string) (UStatus, error) {
	chanIdent := ChanIdent(binary.LittleEndian.Uint16(payload[0:2]))
	if err := validateChanIdent(chanIdent, op); err != nil {
		return UStatus{}, err
	}
	return UStatus{
		ChanIdent:      chanIdent,
		PositionSteps:  int32(binary.LittleEndian.Uint32(payload[2:6])),
		VelocitySteps:  int16(binary.LittleEndian.Uint16(payload[6:8])),
		MotorCurrentMA: int16(binary.LittleEndian.Uint16(payload[8:10])),
		Status:         StatusBits(binary.LittleEndian.Uint32(payload[10:14])),
	}, nil
}

// MotReqUStatusUpdate is MGMSG_MOT_REQ_USTATUSUPDATE, header-only:
// chan_ident. Sent unordered by the polling worker.
type MotReqUStatusUpdate struct {
	dest, src Address
	ChanIdent ChanIdent
}

func NewMotReqUStatusUpdate(dest, src Address, chanIdent ChanIdent) MotReqUStatusUpdate {
	return MotReqUStatusUpdate{dest, src, chanIdent}
}
func (m MotReqUStatusUpdate) ID() MessageID { return idMotReqUStatusUpdate }
func (m MotReqUStatusUpdate) Dest() Address { return m.dest }
func (m MotReqUStatusUpdate) Src() Address  { return m.src }
func (m MotReqUStatusUpdate) Encode() []byte {
	return encodeHeaderOnly(idMotReqUStatusUpdate, m.dest, m.src, byte(m.ChanIdent), 0)
}

func decodeMotReqUStatusUpdate(h Header) (Message, error) {
	const op = "apt.decodeMotReqUStatusUpdate"
	p1, _, err := splitHeaderOnly(h, idMotReqUStatusUpdate, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return MotReqUStatusUpdate{h.Dest, h.Src, chanIdent}, nil
}

// MotGetUStatusUpdate is the MGMSG_MOT_GET_USTATUSUPDATE reply, with-data,
// carrying a UStatus payload. This is the message decoded by the codec's
// concrete USTATUS scenario.
type MotGetUStatusUpdate struct {
	dest, src Address
	Status    UStatus
}

// NewMotGetUStatusUpdate builds a MotGetUStatusUpdate reply, for device
// simulators and tests.
func NewMotGetUStatusUpdate(dest, src Address, status UStatus) MotGetUStatusUpdate {
	return MotGetUStatusUpdate{dest, src, status}
}

func (m MotGetUStatusUpdate) ID() MessageID { return idMotGetUStatusUpdate }
func (m MotGetUStatusUpdate) Dest() Address { return m.dest }
func (m MotGetUStatusUpdate) Src() Address  { return m.src }
func (m MotGetUStatusUpdate) Encode() []byte {
	return encodeWithData(idMotGetUStatusUpdate, m.dest, m.src, encodeUStatus(m.Status))
}

func decodeMotGetUStatusUpdate(h Header, payload []byte) (Message, error) {
	const op = "apt.decodeMotGetUStatusUpdate"
	if err := splitWithData(h, payload, idMotGetUStatusUpdate, ustatusPayloadLen, op); err != nil {
		return nil, err
	}
	status, err := decodeUStatus(payload, op)
	if err != nil {
		return nil, err
	}
	return MotGetUStatusUpdate{h.Dest, h.Src, status}, nil
}

// MotAckUStatusUpdate is MGMSG_MOT_ACK_USTATUSUPDATE, header-only,
// fire-and-forget. Sent at least once a second to keep the device's
// auto-push channel alive.
type MotAckUStatusUpdate struct{ dest, src Address }

func NewMotAckUStatusUpdate(dest, src Address) MotAckUStatusUpdate {
	return MotAckUStatusUpdate{dest, src}
}
func (m MotAckUStatusUpdate) ID() MessageID { return idMotAckUStatusUpdate }
func (m MotAckUStatusUpdate) Dest() Address { return m.dest }
func (m MotAckUStatusUpdate) Src() Address  { return m.src }
func (m MotAckUStatusUpdate) Encode() []byte {
	return encodeHeaderOnly(idMotAckUStatusUpdate, m.dest, m.src, 0, 0)
}

func decodeMotAckUStatusUpdate(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idMotAckUStatusUpdate, "apt.decodeMotAckUStatusUpdate"); err != nil {
		return nil, err
	}
	return MotAckUStatusUpdate{h.Dest, h.Src}, nil
}

// MotResumeEndOfMoveMsgs is MGMSG_MOT_RESUME_ENDOFMOVEMSGS, header-only,
// fire-and-forget.
type MotResumeEndOfMoveMsgs struct{ dest, src Address }

func NewMotResumeEndOfMoveMsgs(dest, src Address) MotResumeEndOfMoveMsgs {
	return MotResumeEndOfMoveMsgs{dest, src}
}
func (m MotResumeEndOfMoveMsgs) ID() MessageID { return idMotResumeEndOfMoveMsgs }
func (m MotResumeEndOfMoveMsgs) Dest() Address { return m.dest }
func (m MotResumeEndOfMoveMsgs) Src() Address  { return m.src }
func (m MotResumeEndOfMoveMsgs) Encode() []byte {
	return encodeHeaderOnly(idMotResumeEndOfMoveMsgs, m.dest, m.src, 0, 0)
}

func decodeMotResumeEndOfMoveMsgs(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idMotResumeEndOfMoveMsgs, "apt.decodeMotResumeEndOfMoveMsgs"); err != nil {
		return nil, err
	}
	return MotResumeEndOfMoveMsgs{h.Dest, h.Src}, nil
}

// MotMoveHome is MGMSG_MOT_MOVE_HOME, header-only: chan_ident.
type MotMoveHome struct {
	dest, src Address
	ChanIdent ChanIdent
}

func NewMotMoveHome(dest, src Address, chanIdent ChanIdent) MotMoveHome {
	return MotMoveHome{dest, src, chanIdent}
}
func (m MotMoveHome) ID() MessageID { return idMotMoveHome }
func (m MotMoveHome) Dest() Address { return m.dest }
func (m MotMoveHome) Src() Address  { return m.src }
func (m MotMoveHome) Encode() []byte {
	return encodeHeaderOnly(idMotMoveHome, m.dest, m.src, byte(m.ChanIdent), 0)
}

func decodeMotMoveHome(h Header) (Message, error) {
	const op = "apt.decodeMotMoveHome"
	p1, _, err := splitHeaderOnly(h, idMotMoveHome, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return MotMoveHome{h.Dest, h.Src, chanIdent}, nil
}

// MotMoveHomed is MGMSG_MOT_MOVE_HOMED, header-only: chan_ident. Unsolicited
// reply confirming a completed home.
type MotMoveHomed struct {
	dest, src Address
	ChanIdent ChanIdent
}

// NewMotMoveHomed builds a MotMoveHomed reply, for device simulators and
// tests.
func NewMotMoveHomed(dest, src Address, chanIdent ChanIdent) MotMoveHomed {
	return MotMoveHomed{dest, src, chanIdent}
}

func (m MotMoveHomed) ID() MessageID { return idMotMoveHomed }
func (m MotMoveHomed) Dest() Address { return m.dest }
func (m MotMoveHomed) Src() Address  { return m.src }
func (m MotMoveHomed) Encode() []byte {
	return encodeHeaderOnly(idMotMoveHomed, m.dest, m.src, byte(m.ChanIdent), 0)
}

func decodeMotMoveHomed(h Header) (Message, error) {
	const op = "apt.decodeMotMoveHomed"
	p1, _, err := splitHeaderOnly(h, idMotMoveHomed, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return MotMoveHomed{h.Dest, h.Src, chanIdent}, nil
}

// MotMoveJog is MGMSG_MOT_MOVE_JOG, header-only: (chan_ident, direction).
type MotMoveJog struct {
	dest, src Address
	ChanIdent ChanIdent
	Direction JogDirection
}

func NewMotMoveJog(dest, src Address, chanIdent ChanIdent, dir JogDirection) MotMoveJog {
	return MotMoveJog{dest, src, chanIdent, dir}
}
func (m MotMoveJog) ID() MessageID { return idMotMoveJog }
func (m MotMoveJog) Dest() Address { return m.dest }
func (m MotMoveJog) Src() Address  { return m.src }
func (m MotMoveJog) Encode() []byte {
	return encodeHeaderOnly(idMotMoveJog, m.dest, m.src, byte(m.ChanIdent), byte(m.Direction))
}

func decodeMotMoveJog(h Header) (Message, error) {
	const op = "apt.decodeMotMoveJog"
	p1, p2, err := splitHeaderOnly(h, idMotMoveJog, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return MotMoveJog{h.Dest, h.Src, chanIdent, JogDirection(p2)}, nil
}

// MotMoveStop is MGMSG_MOT_MOVE_STOP, header-only: (chan_ident, stop_mode).
type MotMoveStop struct {
	dest, src Address
	ChanIdent ChanIdent
	Mode      StopMode
}

func NewMotMoveStop(dest, src Address, chanIdent ChanIdent, mode StopMode) MotMoveStop {
	return MotMoveStop{dest, src, chanIdent, mode}
}
func (m MotMoveStop) ID() MessageID { return idMotMoveStop }
func (m MotMoveStop) Dest() Address { return m.dest }
func (m MotMoveStop) Src() Address  { return m.src }
func (m MotMoveStop) Encode() []byte {
	return encodeHeaderOnly(idMotMoveStop, m.dest, m.src, byte(m.ChanIdent), byte(m.Mode))
}

func decodeMotMoveStop(h Header) (Message, error) {
	const op = "apt.decodeMotMoveStop"
	p1, p2, err := splitHeaderOnly(h, idMotMoveStop, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return MotMoveStop{h.Dest, h.Src, chanIdent, StopMode(p2)}, nil
}

// MotMoveStopped is the MGMSG_MOT_MOVE_STOPPED unsolicited reply, with-data,
// carrying a UStatus payload (the stopped position and status at the moment
// deceleration completed).
type MotMoveStopped struct {
	dest, src Address
	Status    UStatus
}

// NewMotMoveStopped builds a MotMoveStopped reply, for device simulators and
// tests.
func NewMotMoveStopped(dest, src Address, status UStatus) MotMoveStopped {
	return MotMoveStopped{dest, src, status}
}

func (m MotMoveStopped) ID() MessageID { return idMotMoveStopped }
func (m MotMoveStopped) Dest() Address { return m.dest }
func (m MotMoveStopped) Src() Address  { return m.src }
func (m MotMoveStopped) Encode() []byte {
	return encodeWithData(idMotMoveStopped, m.dest, m.src, encodeUStatus(m.Status))
}

func decodeMotMoveStopped(h Header, payload []byte) (Message, error) {
	const op = "apt.decodeMotMoveStopped"
	if err := splitWithData(h, payload, idMotMoveStopped, ustatusPayloadLen, op); err != nil {
		return nil, err
	}
	status, err := decodeUStatus(payload, op)
	if err != nil {
		return nil, err
	}
	return MotMoveStopped{h.Dest, h.Src, status}, nil
}
