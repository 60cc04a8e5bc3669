package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedMessage is returned for any frame that cannot be decoded:
// truncated or overlong payloads, non-UTF-8 bytes, empty tags, or known
// tags missing required fields. Such frames are dropped by the caller;
// framing corruption is not recoverable at this layer.
var ErrMalformedMessage = errors.New("malformed message")

const (
	headerSize = 4

	// MaxPayloadSize bounds a single frame. The protocol carries short
	// text lines; anything larger is corruption.
	MaxPayloadSize = 64 * 1024
)

// Encode renders a tagged message as a length-prefixed frame: a 4-byte
// big-endian payload length followed by the UTF-8 payload
// "tag:field1:field2:...". Fields must not contain the delimiter; that is
// an accepted protocol limitation, not something the codec escapes.
func Encode(tag string, fields ...string) []byte {
	payload := tag
	if len(fields) > 0 {
		payload += ":" + strings.Join(fields, ":")
	}
	frame := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[headerSize:], payload)
	return frame
}

// Decode parses a length-prefixed frame into a Message. The declared
// length must match the actual payload length exactly; a mismatch never
// yields a partial Message.
func Decode(frame []byte) (Message, error) {
	if len(frame) < headerSize {
		return Message{}, fmt.Errorf("%w: frame shorter than length header", ErrMalformedMessage)
	}
	declared := binary.BigEndian.Uint32(frame)
	if declared > MaxPayloadSize {
		return Message{}, fmt.Errorf("%w: declared length %d exceeds limit", ErrMalformedMessage, declared)
	}
	payload := frame[headerSize:]
	if uint32(len(payload)) != declared {
		return Message{}, fmt.Errorf("%w: declared length %d, got %d bytes", ErrMalformedMessage, declared, len(payload))
	}
	if !utf8.Valid(payload) {
		return Message{}, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedMessage)
	}

	parts := strings.Split(string(payload), ":")
	msg := Message{Tag: parts[0], Fields: parts[1:]}
	if msg.Tag == "" {
		return Message{}, fmt.Errorf("%w: empty tag", ErrMalformedMessage)
	}
	if min, known := minFields[msg.Tag]; known && len(msg.Fields) < min {
		return Message{}, fmt.Errorf("%w: tag %s requires %d fields, got %d", ErrMalformedMessage, msg.Tag, min, len(msg.Fields))
	}
	return msg, nil
}
