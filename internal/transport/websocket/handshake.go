package websocket

import (
	"crypto/sha1" //nolint: gosec // RFC 6455 requires SHA-1 for the accept key
	"encoding/base64"
	"errors"
	"strings"
)

// Static GUID defined in RFC 6455 for WebSocket.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var ErrMissingWebSocketKey = errors.New("missing Sec-WebSocket-Key header")

// GenerateAcceptKey derives the Sec-WebSocket-Accept value from the
// client's key.
func GenerateAcceptKey(key string) string {
	h := sha1.New() //nolint: gosec // per RFC 6455

	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// PerformHandshake parses the raw upgrade request read off a freshly
// accepted connection and returns the 101 response to write back. It only
// looks for the Sec-WebSocket-Key header; a request without one fails and
// the caller is expected to close the connection.
func PerformHandshake(request []byte) ([]byte, error) {
	key := ""

	for _, line := range strings.Split(string(request), "\r\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(name), "Sec-WebSocket-Key") {
			key = strings.TrimSpace(value)
			break
		}
	}

	if key == "" {
		return nil, ErrMissingWebSocketKey
	}

	response := "HTTP/1.1 101 Web Socket Protocol Handshake\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + GenerateAcceptKey(key) + "\r\n\r\n"

	return []byte(response), nil
}
