package wide

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/dotnet-shim/errors"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// maxUnits bounds FromPointer scans of unterminated memory.
const maxUnits = 1 << 24

// Encode returns s as UTF-16 code units followed by a terminating zero.
func Encode(s string) ([]uint16, error) {
	raw, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDispatch, errors.KindInvalidInput, err, "encode utf-16")
	}
	units := make([]uint16, len(raw)/2+1)
	for i := 0; i+1 < len(raw); i += 2 {
		units[i/2] = binary.LittleEndian.Uint16(raw[i:])
	}
	return units, nil
}

// EncodeAll encodes every string in args.
func EncodeAll(args []string) ([][]uint16, error) {
	out := make([][]uint16, len(args))
	for i, a := range args {
		units, err := Encode(a)
		if err != nil {
			return nil, err
		}
		out[i] = units
	}
	return out, nil
}

// Decode converts UTF-16 code units to a Go string, stopping at the first zero.
func Decode(units []uint16) string {
	n := 0
	for n < len(units) && units[n] != 0 {
		n++
	}
	raw := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(raw[2*i:], units[i])
	}
	s, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		// The decoder substitutes U+FFFD and does not fail on malformed input.
		return ""
	}
	return string(s)
}

// Pointer returns the address of the first code unit of buf, or 0 for an empty buffer.
// The caller keeps buf alive for as long as the address is in use.
func Pointer(buf []uint16) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// FromPointer copies the NUL-terminated UTF-16 string at p. A zero p yields "".
func FromPointer(p uintptr) string {
	if p == 0 {
		return ""
	}
	base := unsafe.Pointer(p)
	n := 0
	for n < maxUnits && *(*uint16)(unsafe.Add(base, 2*n)) != 0 {
		n++
	}
	return Decode(unsafe.Slice((*uint16)(base), n))
}
