// Package msgpacklite implements a small subset of the MessagePack wire
// format: nil, bool, signed 64-bit integers, float64, strings, arrays and
// string-keyed maps. A Packer appends encoded bytes to a growable buffer,
// an Unpacker reconstructs a Value tree from a byte slice.
package msgpacklite

// Tag bytes for the supported subset of the MessagePack format. All
// multi-byte lengths and payloads are big endian.
const (
	posFixintHighCode = 0x7f
	negFixintLowCode  = 0xe0

	nilCode = 0xc0

	falseCode = 0xc2
	trueCode  = 0xc3

	float32Code = 0xca
	float64Code = 0xcb

	uint8Code  = 0xcc
	uint16Code = 0xcd
	uint32Code = 0xce

	int8Code  = 0xd0
	int16Code = 0xd1
	int32Code = 0xd2
	int64Code = 0xd3

	fixStrLowCode = 0xa0
	fixStrMask    = 0x1f
	str8Code      = 0xd9
	str16Code     = 0xda
	str32Code     = 0xdb

	fixArrayLowCode = 0x90
	fixArrayMask    = 0x0f
	array16Code     = 0xdc
	array32Code     = 0xdd

	fixMapLowCode = 0x80
	fixMapMask    = 0x0f
	map16Code     = 0xde
	map32Code     = 0xdf
)

// Widest payload lengths each header form can carry.
const (
	maxFixstrLen = 31
	maxFixCount  = 15
	maxLen16     = 1<<16 - 1
	maxLen32     = 1<<32 - 1
)
