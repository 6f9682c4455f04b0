package apt

// ModSetChanEnableState is MGMSG_MOD_SET_CHANENABLESTATE, header-only,
// fire-and-forget: (chan_ident, enable_state) in the two parameter bytes.
type ModSetChanEnableState struct {
	dest, src   Address
	ChanIdent   ChanIdent
	EnableState EnableState
}

func NewModSetChanEnableState(dest, src Address, chanIdent ChanIdent, state EnableState) ModSetChanEnableState {
	return ModSetChanEnableState{dest, src, chanIdent, state}
}
func (m ModSetChanEnableState) ID() MessageID { return idModSetChanEnableState }
func (m ModSetChanEnableState) Dest() Address { return m.dest }
func (m ModSetChanEnableState) Src() Address  { return m.src }
func (m ModSetChanEnableState) Encode() []byte {
	return encodeHeaderOnly(idModSetChanEnableState, m.dest, m.src, byte(m.ChanIdent), byte(m.EnableState))
}

func decodeModSetChanEnableState(h Header) (Message, error) {
	const op = "apt.decodeModSetChanEnableState"
	p1, p2, err := splitHeaderOnly(h, idModSetChanEnableState, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return ModSetChanEnableState{h.Dest, h.Src, chanIdent, EnableState(p2)}, nil
}

// ModReqChanEnableState is MGMSG_MOD_REQ_CHANENABLESTATE, header-only:
// chan_ident in the first parameter byte.
type ModReqChanEnableState struct {
	dest, src Address
	ChanIdent ChanIdent
}

func NewModReqChanEnableState(dest, src Address, chanIdent ChanIdent) ModReqChanEnableState {
	return ModReqChanEnableState{dest, src, chanIdent}
}
func (m ModReqChanEnableState) ID() MessageID { return idModReqChanEnableState }
func (m ModReqChanEnableState) Dest() Address { return m.dest }
func (m ModReqChanEnableState) Src() Address  { return m.src }
func (m ModReqChanEnableState) Encode() []byte {
	return encodeHeaderOnly(idModReqChanEnableState, m.dest, m.src, byte(m.ChanIdent), 0)
}

func decodeModReqChanEnableState(h Header) (Message, error) {
	const op = "apt.decodeModReqChanEnableState"
	p1, _, err := splitHeaderOnly(h, idModReqChanEnableState, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return ModReqChanEnableState{h.Dest, h.Src, chanIdent}, nil
}

// ModGetChanEnableState is the MGMSG_MOD_GET_CHANENABLESTATE reply,
// header-only: (chan_ident, enable_state).
type ModGetChanEnableState struct {
	dest, src   Address
	ChanIdent   ChanIdent
	EnableState EnableState
}

// NewModGetChanEnableState builds a ModGetChanEnableState reply, for device
// simulators and tests.
func NewModGetChanEnableState(dest, src Address, chanIdent ChanIdent, state EnableState) ModGetChanEnableState {
	return ModGetChanEnableState{dest, src, chanIdent, state}
}

func (m ModGetChanEnableState) ID() MessageID { return idModGetChanEnableState }
func (m ModGetChanEnableState) Dest() Address { return m.dest }
func (m ModGetChanEnableState) Src() Address  { return m.src }
func (m ModGetChanEnableState) Encode() []byte {
	return encodeHeaderOnly(idModGetChanEnableState, m.dest, m.src, byte(m.ChanIdent), byte(m.EnableState))
}

func decodeModGetChanEnableState(h Header) (Message, error) {
	const op = "apt.decodeModGetChanEnableState"
	p1, p2, err := splitHeaderOnly(h, idModGetChanEnableState, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return ModGetChanEnableState{h.Dest, h.Src, chanIdent, EnableState(p2)}, nil
}

// ModIdentify is MGMSG_MOD_IDENTIFY, header-only fire-and-forget: flashes
// the device's front-panel LED for the named channel.
type ModIdentify struct {
	dest, src Address
	ChanIdent ChanIdent
}

func NewModIdentify(dest, src Address, chanIdent ChanIdent) ModIdentify {
	return ModIdentify{dest, src, chanIdent}
}
func (m ModIdentify) ID() MessageID { return idModIdentify }
func (m ModIdentify) Dest() Address { return m.dest }
func (m ModIdentify) Src() Address  { return m.src }
func (m ModIdentify) Encode() []byte {
	return encodeHeaderOnly(idModIdentify, m.dest, m.src, byte(m.ChanIdent), 0)
}

func decodeModIdentify(h Header) (Message, error) {
	const op = "apt.decodeModIdentify"
	p1, _, err := splitHeaderOnly(h, idModIdentify, op)
	if err != nil {
		return nil, err
	}
	chanIdent := ChanIdent(p1)
	if err := validateChanIdent(chanIdent, op); err != nil {
		return nil, err
	}
	return ModIdentify{h.Dest, h.Src, chanIdent}, nil
}
