// Package wide converts between Go strings and the NUL-terminated UTF-16 strings
// exchanged with managed plugin entry points.
//
// Buffers returned by Encode are owned by Go. Strings read with FromPointer are
// owned by whoever produced the pointer; FromPointer copies them immediately.
package wide
