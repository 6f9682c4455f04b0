package apt

import "encoding/binary"

const polParamsPayloadLen = 12

// PolParams is the 12-byte POL params payload: unused, velocity (percent,
// 10-100), home_position_steps, jog_step_1..3.
type PolParams struct {
	Velocity         uint16
	HomePositionSteps uint16
	JogStep1         uint16
	JogStep2         uint16
	JogStep3         uint16
}

func encodePolParams(p PolParams) []byte {
	b := make([]byte, polParamsPayloadLen)
	binary.LittleEndian.PutUint16(b[0:2], 0) // unused
	binary.LittleEndian.PutUint16(b[2:4], p.Velocity)
	binary.LittleEndian.PutUint16(b[4:6], p.HomePositionSteps)
	binary.LittleEndian.PutUint16(b[6:8], p.JogStep1)
	binary.LittleEndian.PutUint16(b[8:10], p.JogStep2)
	binary.LittleEndian.PutUint16(b[10:12], p.JogStep3)
	return b
}

func decodePolParams(payload []byte) PolParams {
	return PolParams{
		Velocity:          binary.LittleEndian.Uint16(payload[2:4]),
		HomePositionSteps: binary.LittleEndian.Uint16(payload[4:6]),
		JogStep1:          binary.LittleEndian.Uint16(payload[6:8]),
		JogStep2:          binary.LittleEndian.Uint16(payload[8:10]),
		JogStep3:          binary.LittleEndian.Uint16(payload[10:12]),
	}
}

// PolReqParams is MGMSG_POL_REQ_PARAMS, header-only.
type PolReqParams struct{ dest, src Address }

func NewPolReqParams(dest, src Address) PolReqParams { return PolReqParams{dest, src} }
func (m PolReqParams) ID() MessageID                 { return idPolReqParams }
func (m PolReqParams) Dest() Address                 { return m.dest }
func (m PolReqParams) Src() Address                  { return m.src }
func (m PolReqParams) Encode() []byte                { return encodeHeaderOnly(idPolReqParams, m.dest, m.src, 0, 0) }

func decodePolReqParams(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idPolReqParams, "apt.decodePolReqParams"); err != nil {
		return nil, err
	}
	return PolReqParams{h.Dest, h.Src}, nil
}

// PolGetParams is the MGMSG_POL_GET_PARAMS reply, with-data.
type PolGetParams struct {
	dest, src Address
	Params    PolParams
}

// NewPolGetParams builds a PolGetParams reply, for device simulators and
// tests.
func NewPolGetParams(dest, src Address, params PolParams) PolGetParams {
	return PolGetParams{dest, src, params}
}

func (m PolGetParams) ID() MessageID { return idPolGetParams }
func (m PolGetParams) Dest() Address { return m.dest }
func (m PolGetParams) Src() Address  { return m.src }
func (m PolGetParams) Encode() []byte {
	return encodeWithData(idPolGetParams, m.dest, m.src, encodePolParams(m.Params))
}

func decodePolGetParams(h Header, payload []byte) (Message, error) {
	const op = "apt.decodePolGetParams"
	if err := splitWithData(h, payload, idPolGetParams, polParamsPayloadLen, op); err != nil {
		return nil, err
	}
	return PolGetParams{h.Dest, h.Src, decodePolParams(payload)}, nil
}

// PolSetParams is MGMSG_POL_SET_PARAMS, with-data, fire-and-forget.
type PolSetParams struct {
	dest, src Address
	Params    PolParams
}

func NewPolSetParams(dest, src Address, params PolParams) PolSetParams {
	return PolSetParams{dest, src, params}
}
func (m PolSetParams) ID() MessageID { return idPolSetParams }
func (m PolSetParams) Dest() Address { return m.dest }
func (m PolSetParams) Src() Address  { return m.src }
func (m PolSetParams) Encode() []byte {
	return encodeWithData(idPolSetParams, m.dest, m.src, encodePolParams(m.Params))
}

func decodePolSetParams(h Header, payload []byte) (Message, error) {
	const op = "apt.decodePolSetParams"
	if err := splitWithData(h, payload, idPolSetParams, polParamsPayloadLen, op); err != nil {
		return nil, err
	}
	return PolSetParams{h.Dest, h.Src, decodePolParams(payload)}, nil
}

// RestoreFactorySettings is MGMSG_RESTOREFACTORYSETTINGS, header-only,
// fire-and-forget.
type RestoreFactorySettings struct{ dest, src Address }

func NewRestoreFactorySettings(dest, src Address) RestoreFactorySettings {
	return RestoreFactorySettings{dest, src}
}
func (m RestoreFactorySettings) ID() MessageID { return idRestoreFactorySettings }
func (m RestoreFactorySettings) Dest() Address { return m.dest }
func (m RestoreFactorySettings) Src() Address  { return m.src }
func (m RestoreFactorySettings) Encode() []byte {
	return encodeHeaderOnly(idRestoreFactorySettings, m.dest, m.src, 0, 0)
}

func decodeRestoreFactorySettings(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idRestoreFactorySettings, "apt.decodeRestoreFactorySettings"); err != nil {
		return nil, err
	}
	return RestoreFactorySettings{h.Dest, h.Src}, nil
}
