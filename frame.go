package thermo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Wire layout of one frame:
//
//	0..5   marker "CHRIS,"
//	6      kind, 'T' or 'H'
//	7      separator ','
//	8..11  source, uint32 little-endian
//	12..15 value, float32 little-endian
const (
	Marker      = "CHRIS,"
	MarkerSize  = len(Marker)
	FrameSize   = 16
	PayloadSize = FrameSize - MarkerSize
	Separator   = ','
)

// byteOrder is the producer's byte order. The board serializes with
// little-endian encoders and every consumer host so far is little-endian.
var byteOrder = binary.LittleEndian

// Kind is the measurement type carried by a frame.
type Kind byte

const (
	Temperature Kind = 'T'
	Humidity    Kind = 'H'
)

func (k Kind) valid() bool {
	return k == Temperature || k == Humidity
}

func (k Kind) String() string {
	switch k {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	default:
		return fmt.Sprintf("Kind(%#02x)", byte(k))
	}
}

// Unit is the display unit of values of this kind.
func (k Kind) Unit() string {
	if k == Temperature {
		return "C"
	}
	return "%"
}

// Record is one decoded reading. Value is degrees Celsius for Temperature
// and percent for Humidity; no range check is applied.
type Record struct {
	Kind   Kind
	Source uint32
	Value  float32
}

func (r Record) String() string {
	return fmt.Sprintf("Type: %c, Source: 0x%08x, Value: %.2f %s", byte(r.Kind), r.Source, r.Value, r.Kind.Unit())
}

// decodePayload decodes the ten bytes that follow the marker.
func decodePayload(p []byte) (Record, error) {
	if len(p) < PayloadSize {
		return Record{}, errIncomplete
	}
	if p[1] != Separator {
		return Record{}, errBadSep
	}
	k := Kind(p[0])
	if !k.valid() {
		return Record{}, fmt.Errorf("%w: %#02x", errUnknownKind, p[0])
	}
	return Record{
		Kind:   k,
		Source: byteOrder.Uint32(p[2:6]),
		Value:  math.Float32frombits(byteOrder.Uint32(p[6:10])),
	}, nil
}

// DecodeFrame decodes one complete frame, marker included.
func DecodeFrame(b []byte) (Record, error) {
	if len(b) < FrameSize {
		return Record{}, fmt.Errorf("decode frame: %w: %d of %d bytes", errIncomplete, len(b), FrameSize)
	}
	if !bytes.Equal(b[:MarkerSize], []byte(Marker)) {
		return Record{}, fmt.Errorf("decode frame: %w: %q", errBadMarker, b[:MarkerSize])
	}
	rec, err := decodePayload(b[MarkerSize:FrameSize])
	if err != nil {
		return Record{}, fmt.Errorf("decode frame: %w", err)
	}
	return rec, nil
}

// AppendFrame appends the wire encoding of r to dst.
func AppendFrame(dst []byte, r Record) []byte {
	dst = append(dst, Marker...)
	dst = append(dst, byte(r.Kind), Separator)
	dst = byteOrder.AppendUint32(dst, r.Source)
	dst = byteOrder.AppendUint32(dst, math.Float32bits(r.Value))
	return dst
}

// EncodeFrame returns the wire encoding of r.
func EncodeFrame(r Record) []byte {
	return AppendFrame(make([]byte, 0, FrameSize), r)
}
