package apt

import "io"

// ReadFrame reads one complete frame from r: the 6-byte header, then — if
// the header's high bit says data follows — exactly ParamOrLen more bytes.
// It returns the decoded Header and the raw payload (nil for header-only
// frames). Unknown message ids are not rejected here; DecodeHeader already
// succeeds for any id, and the caller (the RX dispatcher) decides whether to
// fully decode or discard.
func ReadFrame(r io.Reader) (Header, []byte, error) {
	hdr := make([]byte, headerLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return Header{}, nil, err
	}
	h, err := DecodeHeader(hdr)
	if err != nil {
		return Header{}, nil, err
	}
	if !h.HasData {
		return h, nil, nil
	}
	payload := make([]byte, h.ParamOrLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Header{}, nil, err
	}
	return h, payload, nil
}
