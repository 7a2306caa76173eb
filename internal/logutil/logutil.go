// Package logutil adds level filtering on top of the standard logger.
// The level is read once from LOG_LEVEL (debug, info, warn, error).
package logutil

import (
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var logLevel atomic.Int32

func init() {
	SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func SetLevel(l Level) {
	logLevel.Store(int32(l))
}

func Enabled(l Level) bool {
	return Level(logLevel.Load()) <= l
}

func Debugf(format string, v ...interface{}) {
	if Enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if Enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if Enabled(LevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	log.Printf("[ERROR] "+format, v...)
}

// Fatalf logs at error level and exits.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
