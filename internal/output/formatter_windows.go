//go:build windows
// +build windows

package output

import (
	"syscall"
	"unsafe"
)

const (
	// ENABLE_VIRTUAL_TERMINAL_PROCESSING, supported on Windows 10+.
	virtualTerminalFlag = 0x0004
	// STD_OUTPUT_HANDLE for GetStdHandle.
	stdoutHandleID = uint32(0xFFFFFFF5)
)

var (
	kernel32       = syscall.NewLazyDLL("kernel32.dll")
	getConsoleMode = kernel32.NewProc("GetConsoleMode")
	setConsoleMode = kernel32.NewProc("SetConsoleMode")
	getStdHandle   = kernel32.NewProc("GetStdHandle")
)

// enableANSI switches the console into virtual terminal mode so ANSI
// escape sequences render instead of printing literally.
func enableANSI() bool {
	handle, _, _ := getStdHandle.Call(uintptr(stdoutHandleID))
	if handle == 0 {
		return false
	}

	var mode uint32
	if ret, _, _ := getConsoleMode.Call(handle, uintptr(unsafe.Pointer(&mode))); ret == 0 {
		return false
	}

	ret, _, _ := setConsoleMode.Call(handle, uintptr(mode|virtualTerminalFlag))
	return ret != 0
}
