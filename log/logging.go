// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers map[string]*logrus.Logger
	mu      sync.Mutex
)

func NewPrefixLogger(prefix string) *PrefixLogger {
	stringPrefix := fmt.Sprintf("%s:\t", prefix)

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "15:04:05"
	formatter.DisableColors = strings.Contains(runtime.GOOS, "windows")
	return &PrefixLogger{
		formatter,
		[]byte(stringPrefix),
	}
}

type PrefixLogger struct {
	formatter logrus.Formatter
	prefix    []byte
}

func (f *PrefixLogger) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append(f.prefix, text...), nil
}

const (
	LOG_MAIN        = "MA"
	LOG_PARSER      = "MP"
	LOG_CLASSIFIER  = "CL"
	LOG_KNOWLEDGE   = "KB"
	LOG_TRAINER     = "TR"
	LOG_AGGREGATE   = "AG"
	LOG_PERSISTENCE = "PI"
)

var prefixes = []string{
	LOG_MAIN,
	LOG_PARSER,
	LOG_CLASSIFIER,
	LOG_KNOWLEDGE,
	LOG_TRAINER,
	LOG_AGGREGATE,
	LOG_PERSISTENCE,
}

func getLevel(loglevel string) logrus.Level {
	switch strings.ToLower(loglevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	}

	// Info is default
	return logrus.InfoLevel
}

func initLogger(prefix, loglevel string) {
	loggers[prefix] = logrus.New()
	loggers[prefix].Level = getLevel(loglevel)
	loggers[prefix].Formatter = NewPrefixLogger(prefix)
}

func InitLogging(loglevel string) {
	mu.Lock()
	defer mu.Unlock()

	loggers = make(map[string]*logrus.Logger)
	for _, prefix := range prefixes {
		initLogger(prefix, loglevel)
	}
}

func SetLogLevel(loglevel string) {
	mu.Lock()
	defer mu.Unlock()

	for _, v := range loggers {
		v.Level = getLevel(loglevel)
	}
}

// Logger returns the logger for a component prefix. Packages used as a library
// (and their tests) get info-level loggers when InitLogging was never called.
func Logger(logger string) *logrus.Logger {
	mu.Lock()
	if loggers == nil {
		mu.Unlock()
		InitLogging("info")
		mu.Lock()
	}
	defer mu.Unlock()

	l, ok := loggers[logger]
	if !ok {
		panic("Logger " + logger + " unknown")
	}

	return l
}
