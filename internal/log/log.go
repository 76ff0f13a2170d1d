// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// severity is the ordered log level scale. Ordering is significant: a level
// is enabled when it is >= the configured severity.
type severity int

const (
	sevTrace severity = iota
	sevDebug
	sevInfo
	sevWarn
	sevError
	sevFatal
)

// tracePrefix rides trace messages through apex's debug level. The handler
// lifts it back out into the marker column.
const tracePrefix = "TRACE: "

var traceEnabled bool

// parseSeverity maps a level name to its severity. Unknown or empty names
// fall back to error.
func parseSeverity(name string) severity {
	switch strings.ToLower(name) {
	case "trace":
		return sevTrace
	case "debug":
		return sevDebug
	case "info":
		return sevInfo
	case "warn":
		return sevWarn
	case "error":
		return sevError
	case "fatal":
		return sevFatal
	default:
		return sevError
	}
}

// apex maps a severity onto the apex level scale. Trace has no apex
// equivalent and rides on debug.
func (s severity) apex() log.Level {
	switch s {
	case sevTrace, sevDebug:
		return log.DebugLevel
	case sevInfo:
		return log.InfoLevel
	case sevWarn:
		return log.WarnLevel
	case sevError:
		return log.ErrorLevel
	case sevFatal:
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// InitLogger sets up Apex with a custom handler and a log level from the
// SVCTL_LOG env variable.
func InitLogger() {
	sev := parseSeverity(os.Getenv("SVCTL_LOG"))
	traceEnabled = sev == sevTrace
	log.SetHandler(&CustomHandler{Out: os.Stdout})
	log.SetLevel(sev.apex())
}

// levelMarks are the single-letter level markers in log lines.
var levelMarks = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// CustomHandler renders entries as "timestamp marker message" lines.
type CustomHandler struct {
	Out io.Writer
}

// HandleLog implements the log.Handler interface.
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	mark, ok := levelMarks[e.Level]
	if !ok {
		mark = "?"
	}

	message := e.Message
	if rest, found := strings.CutPrefix(message, tracePrefix); found {
		mark, message = "T", rest
	}

	_, err := fmt.Fprintf(h.Out, "%s %s %s\n",
		time.Now().Format("2006-01-02 15:04:05"), mark, message)
	return err
}

// Tracef logs below debug. Entries appear only when SVCTL_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}
