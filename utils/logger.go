package utils

import (
	"github.com/sirupsen/logrus"
)

var (
	isVerbose bool
)

// SetVerbose switches the process-wide log level. Verbose maps to logrus
// debug level so per-component loggers pick it up too.
func SetVerbose(verbose bool) {
	isVerbose = verbose
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func IsVerbose() bool {
	return isVerbose
}

func Verbose(format string, args ...interface{}) {
	if isVerbose {
		logrus.Debugf(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}
