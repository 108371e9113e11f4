// Package record encodes fixed-layout binary records.
//
// A record is described by the ordered list of its field values (see Record).
// Encode walks that description recursively and emits every numeric field in
// big-endian byte order, independent of the host byte order. The field order
// returned by Fields is the wire layout: reordering it changes the format.
package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Record is implemented by composite values.
type Record interface {
	// Fields returns the field values in wire order.
	Fields() []any
}

// Enum is implemented by enumerated values. An enum is stored as one
// unsigned byte holding its ordinal.
type Enum interface {
	Ordinal() uint8
}

// Array is a sequence of values encoded back to back with no length prefix.
type Array interface {
	Len() int
	Index(i int) any
}

type slice[T any] []T

func (s slice[T]) Len() int        { return len(s) }
func (s slice[T]) Index(i int) any { return s[i] }

// Slice adapts a typed slice (usually of records) to an Array.
func Slice[T any](items []T) Array {
	return slice[T](items)
}

// Encode returns the big-endian encoding of v.
//
// Supported shapes are Enum, Record, Array, the fixed-size numeric kinds and
// slices of them. Any other value is a programming error and panics.
func Encode(v any) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

// Append appends the encoding of v to dst and returns the extended buffer.
func Append(dst []byte, v any) []byte {
	// Enum comes first: enum types are usually named numeric types.
	switch v := v.(type) {
	case Enum:
		return append(dst, v.Ordinal())
	case Record:
		for _, field := range v.Fields() {
			dst = Append(dst, field)
		}
		return dst
	case Array:
		for i := 0; i < v.Len(); i++ {
			dst = Append(dst, v.Index(i))
		}
		return dst
	case uint8:
		return append(dst, v)
	case int8:
		return append(dst, uint8(v))
	case uint16:
		return binary.BigEndian.AppendUint16(dst, v)
	case int16:
		return binary.BigEndian.AppendUint16(dst, uint16(v))
	case uint32:
		return binary.BigEndian.AppendUint32(dst, v)
	case int32:
		return binary.BigEndian.AppendUint32(dst, uint32(v))
	case uint64:
		return binary.BigEndian.AppendUint64(dst, v)
	case int64:
		return binary.BigEndian.AppendUint64(dst, uint64(v))
	case float32:
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
	case float64:
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
	case []uint8:
		return append(dst, v...)
	case []int8:
		for _, x := range v {
			dst = append(dst, uint8(x))
		}
		return dst
	case []uint16:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint16(dst, x)
		}
		return dst
	case []int16:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint16(dst, uint16(x))
		}
		return dst
	case []uint32:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint32(dst, x)
		}
		return dst
	case []int32:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint32(dst, uint32(x))
		}
		return dst
	default:
		panic(fmt.Sprintf("record: unsupported value of type %T", v))
	}
}

// Size returns the number of bytes Encode produces for v.
func Size(v any) int {
	switch v := v.(type) {
	case Enum:
		return 1
	case Record:
		n := 0
		for _, field := range v.Fields() {
			n += Size(field)
		}
		return n
	case Array:
		n := 0
		for i := 0; i < v.Len(); i++ {
			n += Size(v.Index(i))
		}
		return n
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	case uint64, int64, float64:
		return 8
	case []uint8:
		return len(v)
	case []int8:
		return len(v)
	case []uint16:
		return 2 * len(v)
	case []int16:
		return 2 * len(v)
	case []uint32:
		return 4 * len(v)
	case []int32:
		return 4 * len(v)
	default:
		panic(fmt.Sprintf("record: unsupported value of type %T", v))
	}
}

// Write encodes v and writes it to w in a single call.
func Write(w io.Writer, v any) error {
	_, err := w.Write(Encode(v))
	return err
}
