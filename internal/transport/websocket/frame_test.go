package websocket

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	t.Run("Short payload uses the inline length", func(t *testing.T) {
		frame := EncodeFrame([]byte("hi"))

		require.Equal(t, byte(finalTextFrame), frame[0])
		require.Equal(t, byte(2), frame[1])
		assert.Equal(t, []byte("hi"), frame[2:])
	})

	t.Run("Payload over 125 bytes switches to the 16-bit length", func(t *testing.T) {
		payload := bytes.Repeat([]byte("a"), 126)

		frame := EncodeFrame(payload)

		require.Equal(t, byte(length16Marker), frame[1])
		assert.Equal(t, uint16(126), binary.BigEndian.Uint16(frame[2:4]))
		assert.Equal(t, payload, frame[4:])
	})

	t.Run("Payload over 65535 bytes switches to the 64-bit length", func(t *testing.T) {
		payload := bytes.Repeat([]byte("b"), 65536)

		frame := EncodeFrame(payload)

		require.Equal(t, byte(length64Marker), frame[1])
		assert.Equal(t, uint64(65536), binary.BigEndian.Uint64(frame[2:10]))
		assert.Equal(t, payload, frame[10:])
	})

	t.Run("Server frames are never masked", func(t *testing.T) {
		frame := EncodeFrame([]byte("payload"))

		assert.Zero(t, frame[1]&maskBit)
	})
}

func TestDecodeFrame(t *testing.T) {
	t.Run("Round-trips across the length boundaries", func(t *testing.T) {
		for _, size := range []int{0, 1, 124, 125, 126, 127, 65535, 65536} {
			payload := bytes.Repeat([]byte("x"), size)

			decoded := DecodeFrame(EncodeFrame(payload))

			require.Equal(t, payload, decoded, "size %d", size)
		}
	})

	t.Run("Removes the rolling mask from a client frame", func(t *testing.T) {
		payload := []byte(`{"action":"left"}`)
		maskKey := []byte{0x1f, 0x2e, 0x3d, 0x4c}

		frame := []byte{finalTextFrame, maskBit | byte(len(payload))}
		frame = append(frame, maskKey...)
		for i, b := range payload {
			frame = append(frame, b^maskKey[i%4])
		}

		assert.Equal(t, payload, DecodeFrame(frame))
	})

	t.Run("Masked 16-bit length frame", func(t *testing.T) {
		payload := bytes.Repeat([]byte("m"), 300)
		maskKey := []byte{0xaa, 0xbb, 0xcc, 0xdd}

		frame := []byte{finalTextFrame, maskBit | length16Marker}
		frame = binary.BigEndian.AppendUint16(frame, uint16(len(payload)))
		frame = append(frame, maskKey...)
		for i, b := range payload {
			frame = append(frame, b^maskKey[i%4])
		}

		assert.Equal(t, payload, DecodeFrame(frame))
	})

	t.Run("Truncated input decodes to nothing", func(t *testing.T) {
		assert.Nil(t, DecodeFrame(nil))
		assert.Nil(t, DecodeFrame([]byte{finalTextFrame}))

		// header promises more payload than is present
		assert.Nil(t, DecodeFrame([]byte{finalTextFrame, 10, 'a', 'b'}))

		// mask bit set but the key is cut off
		assert.Nil(t, DecodeFrame([]byte{finalTextFrame, maskBit | 5, 0x01, 0x02}))

		// extended length marker without the length itself
		assert.Nil(t, DecodeFrame([]byte{finalTextFrame, length16Marker, 0x01}))
		assert.Nil(t, DecodeFrame([]byte{finalTextFrame, length64Marker, 0x01, 0x02}))
	})
}
