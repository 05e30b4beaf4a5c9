// Package debug provides conditional debug logging for tagdrawer.
//
// Debug logging is enabled by setting the TAGDRAWER_DEBUG environment variable:
//
//	TAGDRAWER_DEBUG=1 tagdrawer content show block-v1:Org+Course+Run+type@html+block@1
//
// Messages go to stderr with timestamps. When disabled (default) every
// function returns immediately.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("TAGDRAWER_DEBUG") != "" {
		SetOutput(os.Stderr)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetOutput enables logging to w, or disables it when w is nil.
func SetOutput(w io.Writer) {
	if w == nil {
		enabled = false
		logger = nil
		return
	}
	enabled = true
	logger = log.New(w, "[TAGDRAWER] ", log.Ltime|log.Lmicroseconds)
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogEnterExit logs entry now and exit, with timing, when the returned func
// runs.
//
//	defer debug.LogEnterExit("drawer.Load")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
