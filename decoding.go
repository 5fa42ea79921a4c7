package msgpacklite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrBufTooShort      = errors.New("buffer too short")
	ErrUnsupportedTag   = errors.New("unsupported tag byte")
	ErrMaxDepthExceeded = errors.New("max nesting depth exceeded")
)

// DefaultMaxDepth bounds the recursion of Unpack unless UnpackerOptions
// overrides it. Decoding is a recursive descent whose call depth equals the
// nesting depth of the input, so adversarial input must hit a limit instead
// of exhausting the stack.
const DefaultMaxDepth = 512

// UnpackerOptions configures decoding behavior.
type UnpackerOptions struct {
	// Strict makes an unrecognized tag byte an ErrUnsupportedTag failure.
	// By default unrecognized tags decode permissively to the nil Value.
	Strict bool

	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// Unpacker consumes a byte slice from front to back, reconstructing one
// Value tree per Unpack call. It owns its cursor exclusively and is not safe
// for concurrent use.
type Unpacker struct {
	data []byte
	pos  int
	opts UnpackerOptions
}

// NewUnpacker returns an Unpacker over data with default options.
func NewUnpacker(data []byte) *Unpacker {
	return &Unpacker{data: data}
}

// NewUnpackerOptions returns an Unpacker over data with the given options.
func NewUnpackerOptions(data []byte, opts UnpackerOptions) *Unpacker {
	return &Unpacker{data: data, opts: opts}
}

// Pos returns the cursor offset, i.e. the number of bytes consumed so far.
func (u *Unpacker) Pos() int { return u.pos }

// Remaining returns the number of unconsumed bytes.
func (u *Unpacker) Remaining() int { return len(u.data) - u.pos }

func (u *Unpacker) maxDepth() int {
	if u.opts.MaxDepth > 0 {
		return u.opts.MaxDepth
	}
	return DefaultMaxDepth
}

func (u *Unpacker) readByte() (byte, error) {
	if u.pos >= len(u.data) {
		return 0, ErrBufTooShort
	}
	b := u.data[u.pos]
	u.pos++
	return b, nil
}

func (u *Unpacker) readUint16() (uint16, error) {
	if u.Remaining() < 2 {
		return 0, ErrBufTooShort
	}
	v := binary.BigEndian.Uint16(u.data[u.pos:])
	u.pos += 2
	return v, nil
}

func (u *Unpacker) readUint32() (uint32, error) {
	if u.Remaining() < 4 {
		return 0, ErrBufTooShort
	}
	v := binary.BigEndian.Uint32(u.data[u.pos:])
	u.pos += 4
	return v, nil
}

func (u *Unpacker) readUint64() (uint64, error) {
	if u.Remaining() < 8 {
		return 0, ErrBufTooShort
	}
	v := binary.BigEndian.Uint64(u.data[u.pos:])
	u.pos += 8
	return v, nil
}

func (u *Unpacker) readString(n int) (string, error) {
	if n < 0 || u.Remaining() < n {
		return "", ErrBufTooShort
	}
	s := string(u.data[u.pos : u.pos+n])
	u.pos += n
	return s, nil
}

// Unpack consumes exactly one complete value starting at the cursor and
// advances past it. Truncated input fails with ErrBufTooShort and never
// yields a partial Value; trailing bytes after the value are left for
// subsequent calls.
func (u *Unpacker) Unpack() (Value, error) {
	return u.unpack(0)
}

func (u *Unpacker) unpack(depth int) (Value, error) {
	if depth > u.maxDepth() {
		return nilValue, ErrMaxDepthExceeded
	}

	b, err := u.readByte()
	if err != nil {
		return nilValue, err
	}

	// Single-byte fix forms first, classified by bit mask.
	switch {
	case b <= posFixintHighCode:
		return Int(int64(b)), nil
	case b >= negFixintLowCode:
		return Int(int64(int8(b))), nil
	case b&0xf0 == fixMapLowCode:
		return u.unpackMap(int(b&fixMapMask), depth)
	case b&0xf0 == fixArrayLowCode:
		return u.unpackArray(int(b&fixArrayMask), depth)
	case b&0xe0 == fixStrLowCode:
		return u.unpackString(int(b & fixStrMask))
	}

	switch b {
	case nilCode:
		return nilValue, nil
	case falseCode:
		return Bool(false), nil
	case trueCode:
		return Bool(true), nil
	case uint8Code:
		v, err := u.readByte()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(v)), nil
	case uint16Code:
		v, err := u.readUint16()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(v)), nil
	case uint32Code:
		v, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(v)), nil
	case int8Code:
		v, err := u.readByte()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(int8(v))), nil
	case int16Code:
		v, err := u.readUint16()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(int16(v))), nil
	case int32Code:
		v, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(int32(v))), nil
	case int64Code:
		v, err := u.readUint64()
		if err != nil {
			return nilValue, err
		}
		return Int(int64(v)), nil
	case float32Code:
		v, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return Float(float64(math.Float32frombits(v))), nil
	case float64Code:
		v, err := u.readUint64()
		if err != nil {
			return nilValue, err
		}
		return Float(math.Float64frombits(v)), nil
	case str8Code:
		n, err := u.readByte()
		if err != nil {
			return nilValue, err
		}
		return u.unpackString(int(n))
	case str16Code:
		n, err := u.readUint16()
		if err != nil {
			return nilValue, err
		}
		return u.unpackString(int(n))
	case str32Code:
		n, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return u.unpackString(int(int64(n)))
	case array16Code:
		n, err := u.readUint16()
		if err != nil {
			return nilValue, err
		}
		return u.unpackArray(int(n), depth)
	case array32Code:
		n, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return u.unpackArray(int(int64(n)), depth)
	case map16Code:
		n, err := u.readUint16()
		if err != nil {
			return nilValue, err
		}
		return u.unpackMap(int(n), depth)
	case map32Code:
		n, err := u.readUint32()
		if err != nil {
			return nilValue, err
		}
		return u.unpackMap(int(int64(n)), depth)
	}

	if u.opts.Strict {
		return nilValue, fmt.Errorf("%w: 0x%02x", ErrUnsupportedTag, b)
	}
	// Permissive fallback: unrecognized tags decode to nil. This is a
	// documented lossy behavior, not an error.
	return nilValue, nil
}

func (u *Unpacker) unpackString(n int) (Value, error) {
	s, err := u.readString(n)
	if err != nil {
		return nilValue, err
	}
	return Str(s), nil
}

func (u *Unpacker) unpackArray(n, depth int) (Value, error) {
	// Every element occupies at least one byte, so a count beyond the
	// remaining input is a truncation regardless of element shapes. Checking
	// up front also keeps a hostile header from forcing a huge allocation.
	if n < 0 || n > u.Remaining() {
		return nilValue, ErrBufTooShort
	}
	elems := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		el, err := u.unpack(depth + 1)
		if err != nil {
			return nilValue, err
		}
		elems = append(elems, el)
	}
	return Value{kind: KindArray, arr: elems}, nil
}

func (u *Unpacker) unpackMap(n, depth int) (Value, error) {
	if n < 0 || n > u.Remaining() {
		return nilValue, ErrBufTooShort
	}
	entries := make([]MapEntry, 0, n)
	for i := 0; i < n; i++ {
		key, err := u.unpack(depth + 1)
		if err != nil {
			return nilValue, err
		}
		val, err := u.unpack(depth + 1)
		if err != nil {
			return nilValue, err
		}
		// Entries whose key is not a string are dropped. This is the
		// documented lossy behavior for foreign encoders that emit
		// non-string map keys.
		if key.kind != KindString {
			continue
		}
		entries = putEntry(entries, key.strVal, val)
	}
	return Value{kind: KindMap, entries: entries}, nil
}

// Decode reconstructs the first value encoded in data, ignoring any trailing
// bytes. It uses default options; build an Unpacker directly for strict mode
// or a custom depth limit.
func Decode(data []byte) (Value, error) {
	return NewUnpacker(data).Unpack()
}
