// Package debug provides optional file-based debug logging.
//
// When the MARQUEE_DEBUG environment variable is set to a file path, debug
// messages are appended to that file. Otherwise, logging is a no-op. An
// embeddable component must never write to the host application's stdout.
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	once sync.Once
	mu   sync.Mutex
	out  *os.File
)

func open() {
	path := os.Getenv("MARQUEE_DEBUG")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	out = f
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	once.Do(open)
	return out != nil
}

// Logf appends a formatted message to the debug file, if logging is active.
func Logf(format string, args ...any) {
	once.Do(open)
	if out == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s ", time.Now().Format("15:04:05.000"))
	fmt.Fprintf(out, format, args...)
	fmt.Fprintln(out)
}
