//go:build !windows
// +build !windows

package output

// enableANSI reports whether ANSI escape sequences can be written as-is.
// Unix terminals need no setup.
func enableANSI() bool {
	return true
}
