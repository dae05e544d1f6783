//go:build windows

package stderr

// Capture is a no-op on Windows.
func Capture(func(line string)) (func(), error) {
	return func() {}, nil
}
