// Package logger sets up the process-wide logrus logger. The logger writes to
// the console and appends to logs/<name>.log, one line per entry in the form
// "time - component - LEVEL - message".
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	componentKey     = "component"
	defaultComponent = "root"
	timestampFormat  = "2006-01-02 15:04:05,000"
)

var (
	initOnce sync.Once
	logFile  *os.File
	initErr  error
)

// Formatter renders entries as "time - component - LEVEL - message key=value ...".
type Formatter struct{}

// Format implements logrus.Formatter
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	component := defaultComponent
	if c, ok := entry.Data[componentKey].(string); ok && c != "" {
		component = c
	}

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	fmt.Fprintf(b, "%s - %s - %s - %s",
		entry.Time.Format(timestampFormat),
		component,
		strings.ToUpper(entry.Level.String()),
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != componentKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Init configures the standard logger with a console sink and an append-only
// file sink at <dir>/<name>.log. Only the first call has any effect; later
// calls return the outcome of the first one.
func Init(dir, name, level string) error {
	initOnce.Do(func() {
		logFile, initErr = setup(log.StandardLogger(), dir, name, level)
	})
	return initErr
}

// setup validates level before touching the filesystem, so a bad level leaves
// no file open.
func setup(l *log.Logger, dir, name, level string) (*os.File, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	apply(l, io.MultiWriter(os.Stderr, f), lvl)
	return f, nil
}

// Configure points l at out with the line formatter and the given level.
// An empty level means debug.
func Configure(l *log.Logger, out io.Writer, level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	apply(l, out, lvl)
	return nil
}

func parseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.DebugLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func apply(l *log.Logger, out io.Writer, lvl log.Level) {
	l.SetOutput(out)
	l.SetFormatter(&Formatter{})
	l.SetLevel(lvl)
}

// Close flushes and closes the file sink, if one was opened.
func Close() error {
	if logFile == nil {
		return nil
	}
	if err := logFile.Sync(); err != nil {
		return err
	}
	return logFile.Close()
}

// Component returns an entry tagged with the component name
func Component(name string) *log.Entry {
	return log.WithField(componentKey, name)
}
