// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// stderrFactory builds loggers writing leveled, single-line entries to an
// io.Writer (stderr by default). It never prints field values for keys
// named "key", "password", or "secret" — defense in depth against an
// accidental log.Field("key", ...) call leaking key material.
type stderrFactory struct {
	mu        sync.Mutex
	w         io.Writer
	threshold LoggerLevel
}

// NewStderrFactory returns a Factory writing to os.Stderr, emitting entries
// at lvl and above.
func NewStderrFactory(lvl LoggerLevel) Factory {
	return &stderrFactory{w: os.Stderr, threshold: lvl}
}

func (f *stderrFactory) New() Logger {
	return &stderrLogger{factory: f, level: InfoLevel}
}

var sensitiveFieldNames = map[string]struct{}{
	"key": {}, "password": {}, "secret": {}, "passphrase": {},
}

type stderrLogger struct {
	factory *stderrFactory
	level   LoggerLevel
	fields  map[string]any
	err     error
}

var (
	_ Factory = (*stderrFactory)(nil)
	_ Logger  = (*stderrLogger)(nil)
)

func (l *stderrLogger) clone() *stderrLogger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &stderrLogger{factory: l.factory, level: l.level, fields: fields, err: l.err}
}

func (l *stderrLogger) Level(lvl LoggerLevel) Logger {
	n := l.clone()
	n.level = lvl
	return n
}

func (l *stderrLogger) Field(k string, v any) Logger {
	n := l.clone()
	if n.fields == nil {
		n.fields = map[string]any{}
	}
	if _, sensitive := sensitiveFieldNames[k]; !sensitive {
		n.fields[k] = v
	}
	return n
}

func (l *stderrLogger) Fields(data map[string]any) Logger {
	n := l.clone()
	if n.fields == nil {
		n.fields = map[string]any{}
	}
	for k, v := range data {
		if _, sensitive := sensitiveFieldNames[k]; !sensitive {
			n.fields[k] = v
		}
	}
	return n
}

func (l *stderrLogger) Error(err error) Logger {
	n := l.clone()
	n.err = err
	return n
}

func (l *stderrLogger) Message(msg string) {
	if l.level < l.factory.threshold {
		return
	}

	l.factory.mu.Lock()
	defer l.factory.mu.Unlock()

	fmt.Fprint(l.factory.w, levelLabel(l.level), " ", msg)
	if l.err != nil {
		fmt.Fprintf(l.factory.w, ": %s", l.err)
	}
	for _, k := range sortedKeys(l.fields) {
		fmt.Fprintf(l.factory.w, " %s=%v", k, l.fields[k])
	}
	fmt.Fprintln(l.factory.w)
}

func (l *stderrLogger) Messagef(format string, v ...any) {
	l.Message(fmt.Sprintf(format, v...))
}

func levelLabel(lvl LoggerLevel) string {
	switch lvl {
	case DebugLevel:
		return "DEBUG"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
