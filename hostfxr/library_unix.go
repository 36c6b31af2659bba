//go:build darwin || freebsd || linux

package hostfxr

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// charT is the hosting API character type: UTF-8 char on unix.
type charT = byte

func newCharT(s string) (*charT, error) {
	return unix.BytePtrFromString(s)
}

type library interface {
	Symbol(name string) (uintptr, error)
	Close() error
}

type dlLibrary struct {
	handle uintptr
}

func openLibrary(path string) (library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dlLibrary{handle: h}, nil
}

func (l *dlLibrary) Symbol(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}

func (l *dlLibrary) Close() error {
	return purego.Dlclose(l.handle)
}
