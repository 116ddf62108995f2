package websocket

import "encoding/binary"

// The codec speaks the minimal frame subset this server needs: one final,
// unfragmented text frame per message. Continuation and control frames are
// out of scope and a frame split across reads decodes to nothing; callers
// treat an empty payload as a no-op.

const (
	finalTextFrame = 0x81

	length16Marker = 126
	length64Marker = 127

	maxInlineLength = 125
	maskBit         = 0x80
	maskKeySize     = 4
)

// EncodeFrame wraps a payload in a final text frame. Frames written by the
// server are never masked.
func EncodeFrame(payload []byte) []byte {
	length := uint64(len(payload))

	frame := make([]byte, 0, 10+len(payload))
	frame = append(frame, finalTextFrame)

	switch {
	case length <= maxInlineLength:
		frame = append(frame, byte(length))
	case length <= 0xFFFF:
		frame = append(frame, length16Marker)
		frame = binary.BigEndian.AppendUint16(frame, uint16(length))
	default:
		frame = append(frame, length64Marker)
		frame = binary.BigEndian.AppendUint64(frame, length)
	}

	return append(frame, payload...)
}

// DecodeFrame extracts the payload of a single text frame, removing the
// 4-byte rolling mask when the mask bit is set. Truncated input yields nil.
func DecodeFrame(raw []byte) []byte {
	if len(raw) < 2 {
		return nil
	}

	masked := raw[1]&maskBit != 0
	lengthClass := raw[1] & 0x7F

	offset := 2
	var length uint64

	switch lengthClass {
	case length16Marker:
		if len(raw) < offset+2 {
			return nil
		}
		length = uint64(binary.BigEndian.Uint16(raw[offset : offset+2]))
		offset += 2
	case length64Marker:
		if len(raw) < offset+8 {
			return nil
		}
		length = binary.BigEndian.Uint64(raw[offset : offset+8])
		offset += 8
	default:
		length = uint64(lengthClass)
	}

	var maskKey []byte
	if masked {
		if len(raw) < offset+maskKeySize {
			return nil
		}
		maskKey = raw[offset : offset+maskKeySize]
		offset += maskKeySize
	}

	if uint64(len(raw)-offset) < length {
		return nil
	}

	payload := make([]byte, length)
	copy(payload, raw[offset:offset+int(length)])

	if masked {
		for i := range payload {
			payload[i] ^= maskKey[i%maskKeySize]
		}
	}

	return payload
}
