// Package logging routes logr output to a pterm logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pterm/pterm"
)

// New returns a logger writing to w. Verbose (V(1) and above) messages are
// only printed when debug is set.
func New(w io.Writer, debug bool) logr.Logger {
	level := pterm.LogLevelInfo
	if debug {
		level = pterm.LogLevelDebug
	}
	return FromPterm(pterm.DefaultLogger.WithLevel(level).WithWriter(w))
}

// FromPterm wraps an existing pterm logger.
func FromPterm(l *pterm.Logger) logr.Logger {
	return logr.New(&sink{logger: l})
}

type sink struct {
	logger *pterm.Logger
	name   string
	values []any
}

var _ logr.LogSink = (*sink)(nil)

func (s *sink) Init(logr.RuntimeInfo) {}

func (s *sink) Enabled(level int) bool {
	if level > 0 {
		return s.logger.CanPrint(pterm.LogLevelDebug)
	}
	return s.logger.CanPrint(pterm.LogLevelInfo)
}

func (s *sink) Info(level int, msg string, keysAndValues ...any) {
	args := s.args(keysAndValues)
	if level > 0 {
		s.logger.Debug(s.message(msg), args)
		return
	}
	s.logger.Info(s.message(msg), args)
}

func (s *sink) Error(err error, msg string, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err.Error())
	}
	s.logger.Error(s.message(msg), s.args(keysAndValues))
}

func (s *sink) WithValues(keysAndValues ...any) logr.LogSink {
	values := make([]any, 0, len(s.values)+len(keysAndValues))
	values = append(values, s.values...)
	values = append(values, keysAndValues...)
	return &sink{logger: s.logger, name: s.name, values: values}
}

func (s *sink) WithName(name string) logr.LogSink {
	newName := name
	if s.name != "" {
		newName = s.name + "." + name
	}
	return &sink{logger: s.logger, name: newName, values: s.values}
}

func (s *sink) message(msg string) string {
	if s.name == "" {
		return msg
	}
	return s.name + ": " + msg
}

// args converts logr key/value pairs. Keys that are not strings are
// formatted, and a dangling key gets an empty value.
func (s *sink) args(keysAndValues []any) []pterm.LoggerArgument {
	all := make([]any, 0, len(s.values)+len(keysAndValues))
	all = append(all, s.values...)
	all = append(all, keysAndValues...)

	out := make([]pterm.LoggerArgument, 0, (len(all)+1)/2)
	for i := 0; i < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			key = fmt.Sprint(all[i])
		}
		var value any = ""
		if i+1 < len(all) {
			value = all[i+1]
		}
		out = append(out, pterm.LoggerArgument{Key: strings.TrimSpace(key), Value: value})
	}
	return out
}
