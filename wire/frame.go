package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame's payload, guarding against a peer
// claiming an absurd length prefix and exhausting memory on read.
const MaxFrameSize = 64 << 20 // 64 MiB

// WriteMessage writes msg as one frame: an 8-byte little-endian length
// prefix followed by that many bytes of canonical CBOR (spec §6).
func WriteMessage(w io.Writer, msg Message) error {
	data, err := encodeEnvelope(msg)
	if err != nil {
		return err
	}
	var lenPrefix [8]byte
	binary.LittleEndian.PutUint64(lenPrefix[:], uint64(len(data)))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("wire: write frame body: %w", err)
	}
	return nil
}

// ReadMessage reads one frame and decodes its envelope. Any error here
// (truncated frame, oversized length, unknown tag, malformed CBOR) means
// the connection must be terminated (spec §6).
func ReadMessage(r io.Reader) (Message, error) {
	var lenPrefix [8]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("wire: read length prefix: %w", err)
	}
	n := binary.LittleEndian.Uint64(lenPrefix[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds maximum %d", n, MaxFrameSize)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("wire: read frame body: %w", err)
	}
	return decodeEnvelope(body)
}
