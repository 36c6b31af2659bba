//go:build windows

package hostfxr

import (
	"golang.org/x/sys/windows"
)

// charT is the hosting API character type: UTF-16 wchar_t on Windows.
type charT = uint16

func newCharT(s string) (*charT, error) {
	return windows.UTF16PtrFromString(s)
}

type library interface {
	Symbol(name string) (uintptr, error)
	Close() error
}

type dllLibrary struct {
	handle windows.Handle
}

func openLibrary(path string) (library, error) {
	h, err := windows.LoadLibraryEx(path, 0,
		windows.LOAD_LIBRARY_SEARCH_DLL_LOAD_DIR|windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return nil, err
	}
	return &dllLibrary{handle: h}, nil
}

func (l *dllLibrary) Symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(l.handle, name)
}

func (l *dllLibrary) Close() error {
	return windows.FreeLibrary(l.handle)
}
