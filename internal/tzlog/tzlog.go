// Package tzlog wraps logrus with a stage-banner texture: "=== name ==="
// lines between major compiler phases, plus a debug-level trace toggled
// by Config.DebugOutput.
package tzlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    false,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetDebug toggles the logD-equivalent trace, mirroring Config.DebugOutput.
func SetDebug(on bool) {
	if on {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Stage prints the "=== name ===" banner between major compiler phases.
func Stage(name string) {
	log.Infof("=== %s ===", name)
}

func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

func Warnf(format string, args ...any) {
	log.Warnf(format, args...)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}
