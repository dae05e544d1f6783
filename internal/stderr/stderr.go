//go:build !windows

// Package stderr routes output written straight to file descriptor 2 into
// a line sink while the terminal UI owns the screen. Such output bypasses
// the logger and would otherwise land in the middle of the rendered view.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Capture redirects file descriptor 2 into a pipe and hands every non-empty
// line to sink from a background goroutine. The returned restore function
// puts the original stderr back and returns once every captured line has
// been delivered. If capture cannot be set up, stderr is left untouched.
func Capture(sink func(line string)) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				sink(line)
			}
		}
	})

	var once sync.Once
	restore = func() {
		once.Do(func() {
			_ = unix.Dup2(orig, fd)
			_ = unix.Close(orig)
			// fd 2 no longer refers to the pipe, so this delivers EOF.
			w.Close()
			wg.Wait()
			r.Close()
		})
	}
	return restore, nil
}
