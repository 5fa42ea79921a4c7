package msgpacklite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var ErrSizeOverflow = errors.New("length exceeds widest supported header")

// Packer appends MessagePack-encoded bytes to an internal growable buffer.
// It selects the narrowest header that fits each value.
//
// PackArrayHeader(n) must be followed by exactly n packed elements, and
// PackMapHeader(n) by exactly 2n (key then value, interleaved). The codec
// does not check this ordering; it is the caller's obligation.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	buf []byte
}

// NewPacker returns an empty Packer.
func NewPacker() *Packer { return &Packer{} }

// Bytes returns the encoded buffer. The slice aliases the Packer's internal
// storage and is only valid until the next pack call or Reset.
func (p *Packer) Bytes() []byte { return p.buf }

// Len returns the number of encoded bytes.
func (p *Packer) Len() int { return len(p.buf) }

// Reset empties the buffer, keeping its capacity for reuse.
func (p *Packer) Reset() { p.buf = p.buf[:0] }

// PackNil appends the nil tag.
func (p *Packer) PackNil() {
	p.buf = append(p.buf, nilCode)
}

// PackBool appends a bool.
func (p *Packer) PackBool(b bool) {
	if b {
		p.buf = append(p.buf, trueCode)
	} else {
		p.buf = append(p.buf, falseCode)
	}
}

// PackInt appends a signed integer using the narrowest encoding: a fixint
// for 0..127 and -32..-1, otherwise the int8/int16/int32/int64 ladder.
func (p *Packer) PackInt(v int64) {
	switch {
	case v >= 0 && v <= 127:
		p.buf = append(p.buf, byte(v))
	case v >= -32 && v < 0:
		p.buf = append(p.buf, byte(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		p.buf = append(p.buf, int8Code, byte(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		p.buf = append(p.buf, int16Code)
		p.buf = binary.BigEndian.AppendUint16(p.buf, uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		p.buf = append(p.buf, int32Code)
		p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(v))
	default:
		p.buf = append(p.buf, int64Code)
		p.buf = binary.BigEndian.AppendUint64(p.buf, uint64(v))
	}
}

// PackFloat appends a float64 as the 8-byte IEEE 754 form.
func (p *Packer) PackFloat(f float64) {
	p.buf = append(p.buf, float64Code)
	p.buf = binary.BigEndian.AppendUint64(p.buf, math.Float64bits(f))
}

// PackString appends a string with the narrowest length header. A string
// whose length does not fit the 4-byte header form returns ErrSizeOverflow
// and leaves the buffer unchanged.
func (p *Packer) PackString(s string) error {
	n := len(s)
	switch {
	case n <= maxFixstrLen:
		p.buf = append(p.buf, fixStrLowCode|byte(n))
	case n <= math.MaxUint8:
		p.buf = append(p.buf, str8Code, byte(n))
	case n <= maxLen16:
		p.buf = append(p.buf, str16Code)
		p.buf = binary.BigEndian.AppendUint16(p.buf, uint16(n))
	case uint64(n) <= maxLen32:
		p.buf = append(p.buf, str32Code)
		p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(n))
	default:
		return ErrSizeOverflow
	}
	p.buf = append(p.buf, s...)
	return nil
}

// PackArrayHeader appends an array header announcing n elements. The caller
// must pack exactly n values afterwards.
func (p *Packer) PackArrayHeader(n int) error {
	return p.packCountHeader(n, fixArrayLowCode, array16Code, array32Code)
}

// PackMapHeader appends a map header announcing n entries. The caller must
// pack exactly 2n values afterwards, alternating key and value.
func (p *Packer) PackMapHeader(n int) error {
	return p.packCountHeader(n, fixMapLowCode, map16Code, map32Code)
}

func (p *Packer) packCountHeader(n int, fixLow, code16, code32 byte) error {
	switch {
	case n < 0:
		return ErrSizeOverflow
	case n <= maxFixCount:
		p.buf = append(p.buf, fixLow|byte(n))
	case n <= maxLen16:
		p.buf = append(p.buf, code16)
		p.buf = binary.BigEndian.AppendUint16(p.buf, uint16(n))
	case uint64(n) <= maxLen32:
		p.buf = append(p.buf, code32)
		p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(n))
	default:
		return ErrSizeOverflow
	}
	return nil
}

// PackValue appends a whole Value tree, recursing through arrays and maps.
// Map keys are packed in entry order. The only possible failure is
// ErrSizeOverflow from an oversized string, array, or map.
func (p *Packer) PackValue(v Value) error {
	switch v.kind {
	case KindNil:
		p.PackNil()
	case KindBool:
		p.PackBool(v.boolVal)
	case KindInt:
		p.PackInt(v.intVal)
	case KindFloat:
		p.PackFloat(v.fltVal)
	case KindString:
		return p.PackString(v.strVal)
	case KindArray:
		if err := p.PackArrayHeader(len(v.arr)); err != nil {
			return err
		}
		for i := range v.arr {
			if err := p.PackValue(v.arr[i]); err != nil {
				return err
			}
		}
	case KindMap:
		if err := p.PackMapHeader(len(v.entries)); err != nil {
			return err
		}
		for i := range v.entries {
			if err := p.PackString(v.entries[i].Key); err != nil {
				return err
			}
			if err := p.PackValue(v.entries[i].Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cannot pack value of kind %s", v.kind)
	}
	return nil
}

// Encode serializes a Value tree into a fresh byte slice.
func Encode(v Value) ([]byte, error) {
	var p Packer
	if err := p.PackValue(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}
