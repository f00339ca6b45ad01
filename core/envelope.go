package core

import (
	"encoding/binary"
	"fmt"
)

const (
	envelopeWordSize   = 32
	envelopeHeadWords  = 3
	envelopeTailOffset = envelopeHeadWords * envelopeWordSize

	// MaxEnvelopePayload bounds the opaque payload carried by one envelope.
	MaxEnvelopePayload = 64 * 1024
)

// DecodeEnvelope parses a verified log record into an Envelope. The decode
// is schema-exact: the record data must hold exactly the dest, nonce, and
// payload fields in the emitter's word-aligned layout. Any missing field,
// malformed word, or trailing byte fails the decode; there is no partial
// result. Pure and deterministic.
//
// Layout, in 32-byte words:
//
//	word 0: dest, big-endian uint32 in the low 4 bytes
//	word 1: nonce, big-endian uint64 in the low 8 bytes
//	word 2: payload offset, must point at word 3 (0x60)
//	word 3: payload byte length
//	then:   payload, zero-padded to a word boundary
func DecodeEnvelope(log LogRecord) (Envelope, error) {
	if log.Address.IsZero() {
		return Envelope{}, fmt.Errorf("core: log record has no channel address: %w", ErrInvalidEnvelope)
	}
	data := log.Data
	if len(data)%envelopeWordSize != 0 {
		return Envelope{}, fmt.Errorf("core: envelope data is not word aligned: %w", ErrInvalidEnvelope)
	}
	if len(data) < (envelopeHeadWords+1)*envelopeWordSize {
		return Envelope{}, fmt.Errorf("core: envelope data truncated at %d bytes: %w", len(data), ErrInvalidEnvelope)
	}

	dest, err := wordUint(data, 0, 4)
	if err != nil {
		return Envelope{}, fmt.Errorf("core: envelope dest field: %w", err)
	}
	nonce, err := wordUint(data, 1, 8)
	if err != nil {
		return Envelope{}, fmt.Errorf("core: envelope nonce field: %w", err)
	}
	offset, err := wordUint(data, 2, 8)
	if err != nil {
		return Envelope{}, fmt.Errorf("core: envelope payload offset: %w", err)
	}
	if offset != envelopeTailOffset {
		return Envelope{}, fmt.Errorf("core: envelope payload offset %#x, want %#x: %w",
			offset, envelopeTailOffset, ErrInvalidEnvelope)
	}
	size, err := wordUint(data, 3, 8)
	if err != nil {
		return Envelope{}, fmt.Errorf("core: envelope payload length: %w", err)
	}
	if size > MaxEnvelopePayload {
		return Envelope{}, fmt.Errorf("core: envelope payload of %d bytes exceeds limit %d: %w",
			size, MaxEnvelopePayload, ErrInvalidEnvelope)
	}

	padded := paddedWordLength(int(size))
	total := (envelopeHeadWords+1)*envelopeWordSize + padded
	if len(data) != total {
		return Envelope{}, fmt.Errorf("core: envelope data is %d bytes, layout requires exactly %d: %w",
			len(data), total, ErrInvalidEnvelope)
	}

	tail := data[(envelopeHeadWords+1)*envelopeWordSize:]
	for _, b := range tail[size:] {
		if b != 0 {
			return Envelope{}, fmt.Errorf("core: envelope payload padding is not zero: %w", ErrInvalidEnvelope)
		}
	}

	payload := make([]byte, size)
	copy(payload, tail[:size])

	return Envelope{
		Channel: log.Address,
		Dest:    Destination(dest),
		Nonce:   nonce,
		Payload: payload,
	}, nil
}

// EncodeEnvelopeData renders the data half of a log record in the layout
// DecodeEnvelope expects. Used by emitter-side tooling and fixtures.
func EncodeEnvelopeData(dest Destination, nonce uint64, payload []byte) []byte {
	padded := paddedWordLength(len(payload))
	out := make([]byte, (envelopeHeadWords+1)*envelopeWordSize+padded)
	binary.BigEndian.PutUint32(out[envelopeWordSize-4:envelopeWordSize], uint32(dest))
	binary.BigEndian.PutUint64(out[2*envelopeWordSize-8:2*envelopeWordSize], nonce)
	binary.BigEndian.PutUint64(out[3*envelopeWordSize-8:3*envelopeWordSize], envelopeTailOffset)
	binary.BigEndian.PutUint64(out[4*envelopeWordSize-8:4*envelopeWordSize], uint64(len(payload)))
	copy(out[4*envelopeWordSize:], payload)
	return out
}

// wordUint reads word i of data as an unsigned integer occupying the low
// width bytes. A non-zero high byte means the field does not fit its schema
// type, which is a decode failure, not an overflow to tolerate.
func wordUint(data []byte, i int, width int) (uint64, error) {
	word := data[i*envelopeWordSize : (i+1)*envelopeWordSize]
	for _, b := range word[:envelopeWordSize-width] {
		if b != 0 {
			return 0, fmt.Errorf("core: word %d has non-zero high bytes: %w", i, ErrInvalidEnvelope)
		}
	}
	low := word[envelopeWordSize-width:]
	var value uint64
	for _, b := range low {
		value = value<<8 | uint64(b)
	}
	return value, nil
}

func paddedWordLength(size int) int {
	return (size + envelopeWordSize - 1) / envelopeWordSize * envelopeWordSize
}
