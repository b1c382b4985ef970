// pkg/logger/formatter.go

package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type CustomFormatter struct {
	TimestampFormat string
	FullTimestamp   bool
	DisableColors   bool
}

const (
	// Colors
	red    = 31
	green  = 32
	yellow = 33
	blue   = 36
	gray   = 37
)

// leading fields are printed first and in this order
var leadingFields = []string{"event", "method", "path", "status", "latency", "client_ip", "email", "reason", "attempts"}

func getColorByLevel(level logrus.Level) int {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return red
	case logrus.WarnLevel:
		return yellow
	case logrus.DebugLevel, logrus.TraceLevel:
		return gray
	default:
		return blue
	}
}

func getColorByMethod(method string) int {
	switch strings.ToUpper(method) {
	case "GET":
		return blue
	case "POST":
		return green
	case "PUT", "PATCH":
		return yellow
	case "DELETE":
		return red
	default:
		return gray
	}
}

func getColorByStatus(status int) int {
	switch {
	case status >= 400:
		return red
	case status >= 300:
		return yellow
	default:
		return green
	}
}

func (f *CustomFormatter) colorize(color int, msg string) string {
	if f.DisableColors {
		return msg
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, msg)
}

func (f *CustomFormatter) formatField(key string, value interface{}) string {
	switch key {
	case "method":
		return f.colorize(getColorByMethod(fmt.Sprint(value)), fmt.Sprintf("method=%-6s", value))
	case "status":
		if status, ok := value.(int); ok {
			return f.colorize(getColorByStatus(status), fmt.Sprintf("status=%d", status))
		}
	case "client_ip":
		return fmt.Sprintf("ip=%v", value)
	case "reason":
		return f.colorize(yellow, fmt.Sprintf("reason=%v", value))
	}
	return fmt.Sprintf("%s=%v", key, value)
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf *bytes.Buffer
	if entry.Buffer != nil {
		buf = entry.Buffer
	} else {
		buf = &bytes.Buffer{}
	}

	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339
	}
	timestamp := entry.Time.Format(layout)
	if !f.FullTimestamp {
		if _, clock, ok := strings.Cut(timestamp, "T"); ok {
			timestamp = clock
		}
	}

	level := strings.ToUpper(entry.Level.String())
	coloredLevel := f.colorize(getColorByLevel(entry.Level), fmt.Sprintf("%-7s", level))

	fields := make([]string, 0, len(entry.Data))
	seen := make(map[string]bool, len(leadingFields))
	for _, key := range leadingFields {
		if value, ok := entry.Data[key]; ok {
			fields = append(fields, f.formatField(key, value))
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fields = append(fields, f.formatField(key, entry.Data[key]))
	}

	if entry.HasCaller() {
		fields = append(fields, f.colorize(gray, fmt.Sprintf("file=%s:%d", entry.Caller.File, entry.Caller.Line)))
	}

	if len(fields) > 0 {
		fmt.Fprintf(buf, "%s %s %s | %s\n",
			f.colorize(gray, timestamp),
			coloredLevel,
			entry.Message,
			strings.Join(fields, " "),
		)
	} else {
		fmt.Fprintf(buf, "%s %s %s\n",
			f.colorize(gray, timestamp),
			coloredLevel,
			entry.Message,
		)
	}

	return buf.Bytes(), nil
}
