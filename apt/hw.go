package apt

import (
	"encoding/binary"
	"strings"
)

// HWDisconnect is the MGMSG_HW_DISCONNECT header-only message.
type HWDisconnect struct{ dest, src Address }

func NewHWDisconnect(dest, src Address) HWDisconnect { return HWDisconnect{dest, src} }
func (m HWDisconnect) ID() MessageID                 { return idHWDisconnect }
func (m HWDisconnect) Dest() Address                 { return m.dest }
func (m HWDisconnect) Src() Address                  { return m.src }
func (m HWDisconnect) Encode() []byte                { return encodeHeaderOnly(idHWDisconnect, m.dest, m.src, 0, 0) }

func decodeHWDisconnect(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idHWDisconnect, "apt.decodeHWDisconnect"); err != nil {
		return nil, err
	}
	return HWDisconnect{h.Dest, h.Src}, nil
}

// HWReqInfo is MGMSG_HW_REQ_INFO: request the HW_GET_INFO reply.
type HWReqInfo struct{ dest, src Address }

func NewHWReqInfo(dest, src Address) HWReqInfo { return HWReqInfo{dest, src} }
func (m HWReqInfo) ID() MessageID              { return idHWReqInfo }
func (m HWReqInfo) Dest() Address              { return m.dest }
func (m HWReqInfo) Src() Address               { return m.src }
func (m HWReqInfo) Encode() []byte             { return encodeHeaderOnly(idHWReqInfo, m.dest, m.src, 0, 0) }

func decodeHWReqInfo(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idHWReqInfo, "apt.decodeHWReqInfo"); err != nil {
		return nil, err
	}
	return HWReqInfo{h.Dest, h.Src}, nil
}

const hwGetInfoPayloadLen = 84

// HWGetInfo is the MGMSG_HW_GET_INFO reply: 84 bytes of device identity.
type HWGetInfo struct {
	dest, src         Address
	SerialNumber      uint32
	ModelNumber       string
	HardwareType      HardwareType
	Firmware          FirmwareVersion
	HardwareVersion   uint16
	ModificationState uint16
	NumberOfChannels  uint16
}

// NewHWGetInfo builds an HWGetInfo reply, for device simulators and tests
// that need to hand-construct what a real device would answer to
// HW_REQ_INFO.
func NewHWGetInfo(dest, src Address, serialNumber uint32, modelNumber string, hwType HardwareType, fw FirmwareVersion, hwVersion, modState, numChannels uint16) HWGetInfo {
	return HWGetInfo{
		dest:              dest,
		src:               src,
		SerialNumber:      serialNumber,
		ModelNumber:       modelNumber,
		HardwareType:      hwType,
		Firmware:          fw,
		HardwareVersion:   hwVersion,
		ModificationState: modState,
		NumberOfChannels:  numChannels,
	}
}

func (m HWGetInfo) ID() MessageID { return idHWGetInfo }
func (m HWGetInfo) Dest() Address { return m.dest }
func (m HWGetInfo) Src() Address  { return m.src }

func (m HWGetInfo) Encode() []byte {
	p := make([]byte, hwGetInfoPayloadLen)
	binary.LittleEndian.PutUint32(p[0:4], m.SerialNumber)
	encodeLatin1Padded(p[4:12], m.ModelNumber)
	binary.LittleEndian.PutUint16(p[12:14], uint16(m.HardwareType))
	fw := m.Firmware.encode()
	copy(p[14:18], fw[:])
	// p[18:78] internal_use left zero.
	binary.LittleEndian.PutUint16(p[78:80], m.HardwareVersion)
	binary.LittleEndian.PutUint16(p[80:82], m.ModificationState)
	binary.LittleEndian.PutUint16(p[82:84], m.NumberOfChannels)
	return encodeWithData(idHWGetInfo, m.dest, m.src, p)
}

func decodeHWGetInfo(h Header, payload []byte) (Message, error) {
	const op = "apt.decodeHWGetInfo"
	if err := splitWithData(h, payload, idHWGetInfo, hwGetInfoPayloadLen, op); err != nil {
		return nil, err
	}
	var fw [4]byte
	copy(fw[:], payload[14:18])
	return HWGetInfo{
		dest:              h.Dest,
		src:               h.Src,
		SerialNumber:      binary.LittleEndian.Uint32(payload[0:4]),
		ModelNumber:       decodeLatin1Padded(payload[4:12]),
		HardwareType:      HardwareType(binary.LittleEndian.Uint16(payload[12:14])),
		Firmware:          decodeFirmwareVersion(fw),
		HardwareVersion:   binary.LittleEndian.Uint16(payload[78:80]),
		ModificationState: binary.LittleEndian.Uint16(payload[80:82]),
		NumberOfChannels:  binary.LittleEndian.Uint16(payload[82:84]),
	}, nil
}

// HWStartUpdateMsgs is MGMSG_HW_START_UPDATEMSGS: enables device auto-push.
type HWStartUpdateMsgs struct{ dest, src Address }

func NewHWStartUpdateMsgs(dest, src Address) HWStartUpdateMsgs { return HWStartUpdateMsgs{dest, src} }
func (m HWStartUpdateMsgs) ID() MessageID                      { return idHWStartUpdateMsgs }
func (m HWStartUpdateMsgs) Dest() Address                      { return m.dest }
func (m HWStartUpdateMsgs) Src() Address                       { return m.src }
func (m HWStartUpdateMsgs) Encode() []byte {
	return encodeHeaderOnly(idHWStartUpdateMsgs, m.dest, m.src, 0, 0)
}

func decodeHWStartUpdateMsgs(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idHWStartUpdateMsgs, "apt.decodeHWStartUpdateMsgs"); err != nil {
		return nil, err
	}
	return HWStartUpdateMsgs{h.Dest, h.Src}, nil
}

// HWStopUpdateMsgs is MGMSG_HW_STOP_UPDATEMSGS: silences device auto-push.
type HWStopUpdateMsgs struct{ dest, src Address }

func NewHWStopUpdateMsgs(dest, src Address) HWStopUpdateMsgs { return HWStopUpdateMsgs{dest, src} }
func (m HWStopUpdateMsgs) ID() MessageID                     { return idHWStopUpdateMsgs }
func (m HWStopUpdateMsgs) Dest() Address                     { return m.dest }
func (m HWStopUpdateMsgs) Src() Address                      { return m.src }
func (m HWStopUpdateMsgs) Encode() []byte {
	return encodeHeaderOnly(idHWStopUpdateMsgs, m.dest, m.src, 0, 0)
}

func decodeHWStopUpdateMsgs(h Header) (Message, error) {
	if _, _, err := splitHeaderOnly(h, idHWStopUpdateMsgs, "apt.decodeHWStopUpdateMsgs"); err != nil {
		return nil, err
	}
	return HWStopUpdateMsgs{h.Dest, h.Src}, nil
}

func encodeLatin1Padded(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < len(s) && i < len(dst); i++ {
		dst[i] = s[i]
	}
}

func decodeLatin1Padded(src []byte) string {
	n := len(src)
	for n > 0 && src[n-1] == 0 {
		n--
	}
	return strings.TrimRight(string(src[:n]), "\x00")
}
