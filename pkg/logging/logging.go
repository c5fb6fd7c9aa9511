// Package logging is HelixDB's ambient logger: a level-gated wrapper
// around the standard library's log.Logger, the same shape as the
// teacher's apoc/log package (apoc.log.setLevel/getLevel), generalized
// from Cypher-callable functions to a process-wide sink configured once
// at startup from config.LoggingConfig.
//
// There is no structured-logging dependency here on purpose: the
// teacher never reaches for one either, logging plain lines through
// log.Logger everywhere in the codebase. Format adds a minimal JSON
// line option on top of that same *log.Logger, not a new library.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level mirrors the teacher's apoc/log.Level ordering.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel accepts the config.LoggingConfig.Level strings
// (case-insensitive); an unrecognized value falls back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects how a line is rendered.
type Format int32

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat accepts the config.LoggingConfig.Format strings; anything
// other than "json" renders as plain text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

var (
	level  atomic.Int32
	format atomic.Int32
	sink   = log.New(os.Stdout, "", 0)
)

func init() {
	level.Store(int32(LevelInfo))
	format.Store(int32(FormatText))
}

// Configure sets the process-wide level and format, read once at
// startup from config.Config.Logging (cmd/helixdb/main.go).
func Configure(levelStr, formatStr string) {
	level.Store(int32(ParseLevel(levelStr)))
	format.Store(int32(ParseFormat(formatStr)))
}

// CurrentLevel reports the active level, exported mainly for tests.
func CurrentLevel() Level { return Level(level.Load()) }

func enabled(l Level) bool { return l >= Level(level.Load()) }

func write(l Level, msg string) {
	if Format(format.Load()) == FormatJSON {
		line, err := json.Marshal(struct {
			Time  string `json:"time"`
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}{
			Time:  time.Now().UTC().Format(time.RFC3339Nano),
			Level: l.String(),
			Msg:   msg,
		})
		if err != nil {
			sink.Println(msg)
			return
		}
		sink.Println(string(line))
		return
	}
	sink.Printf("%s [%s] %s", time.Now().Format("2006-01-02 15:04:05"), l.String(), msg)
}

// Debugf logs at LevelDebug, the request-tracing/query-echo level.
func Debugf(format string, args ...interface{}) {
	if enabled(LevelDebug) {
		write(LevelDebug, fmt.Sprintf(format, args...))
	}
}

// Infof logs at LevelInfo, startup/shutdown and per-request access lines.
func Infof(format string, args ...interface{}) {
	if enabled(LevelInfo) {
		write(LevelInfo, fmt.Sprintf(format, args...))
	}
}

// Warnf logs at LevelWarn.
func Warnf(format string, args ...interface{}) {
	if enabled(LevelWarn) {
		write(LevelWarn, fmt.Sprintf(format, args...))
	}
}

// Errorf logs at LevelError: server errors, panics, irrecoverable worker
// failures.
func Errorf(format string, args ...interface{}) {
	if enabled(LevelError) {
		write(LevelError, fmt.Sprintf(format, args...))
	}
}
