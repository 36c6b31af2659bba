package plugin

import (
	"github.com/wippyai/dotnet-shim/wide"
)

// InstanceData is the opaque per-instance state handed out by managed
// Initialize. Zero means the instance is not initialized.
type InstanceData uintptr

// HostContext is the host's back-reference for an instance. It is passed
// through to managed code and to the LogSink, never dereferenced.
type HostContext uintptr

// ManagedString is a NUL-terminated UTF-16 string owned by managed code.
// Zero is the null string returned on failure.
type ManagedString uintptr

// IsNull reports whether s is the null string.
func (s ManagedString) IsNull() bool {
	return s == 0
}

// Copy copies the managed string into Go memory. The null string yields "".
// The pointer must still be valid, which managed plugins guarantee until the
// next call on the same instance. ManagedString is not a fmt.Stringer, so
// formatting one never reads through the pointer.
func (s ManagedString) Copy() string {
	return wide.FromPointer(uintptr(s))
}
