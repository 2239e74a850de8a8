package logx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// segment is either literal text or, when isVar is set, a variable name.
type segment struct {
	text  string
	isVar bool
}

// AccessLogFormatter renders one access log line from a compiled
// "$var literal $var" template.
type AccessLogFormatter struct {
	segments []segment
}

var accessLogFormatPresets = map[string]string{
	"combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id endpoint=$endpoint fixture=$fixture query=$query bytes=$bytes",
	"minimal":  "$time_local | $status | $latency | $method $path | endpoint=$endpoint fixture=$fixture",
}

// DefaultAccessLogFormat is used when neither a format nor a preset is set.
const DefaultAccessLogFormat = "combined"

var allowedAccessLogVars = map[string]struct{}{
	"time_local": {},
	"status":     {},
	"latency":    {},
	"latency_ms": {},
	"client_ip":  {},
	"method":     {},
	"path":       {},
	"request_id": {},
	"endpoint":   {},
	"fixture":    {},
	"query":      {},
	"shopkey":    {},
	"bytes":      {},
}

// ResolveAccessLogFormat returns format when set, otherwise the named
// preset.
func ResolveAccessLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	name := strings.ToLower(strings.TrimSpace(preset))
	if name == "" {
		return "", nil
	}
	if out, ok := accessLogFormatPresets[name]; ok {
		return out, nil
	}
	return "", fmt.Errorf("invalid access log preset: %q", preset)
}

// CompileAccessLogFormat parses a template. "$$" is a literal dollar sign.
// An empty template compiles to a nil formatter.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}
	f := &AccessLogFormatter{}
	var lit strings.Builder
	rest := format
	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		lit.WriteString(rest[:i])
		rest = rest[i+1:]
		if strings.HasPrefix(rest, "$") {
			lit.WriteByte('$')
			rest = rest[1:]
			continue
		}
		n := varNameLen(rest)
		if n == 0 {
			return nil, fmt.Errorf("invalid access log format: missing variable name after '$' at pos %d", len(format)-len(rest)-1)
		}
		name := rest[:n]
		if _, ok := allowedAccessLogVars[name]; !ok {
			return nil, fmt.Errorf("invalid access log format: unknown variable $%s", name)
		}
		if lit.Len() > 0 {
			f.segments = append(f.segments, segment{text: lit.String()})
			lit.Reset()
		}
		f.segments = append(f.segments, segment{text: name, isVar: true})
		rest = rest[n:]
	}
	if lit.Len() > 0 {
		f.segments = append(f.segments, segment{text: lit.String()})
	}
	return f, nil
}

func varNameLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return i
		}
	}
	return len(s)
}

// AccessEntry is the data one access log line is rendered from.
type AccessEntry struct {
	Time     time.Time
	Status   int
	Latency  time.Duration
	ClientIP string
	Method   string
	Path     string
	// Fields holds the remaining variables, keyed without the '$'.
	Fields map[string]any
}

func (e AccessEntry) value(name string, color bool) string {
	switch name {
	case "time_local":
		return e.Time.Format("2006/01/02 - 15:04:05")
	case "status":
		return ColorizeStatusWith(e.Status, color)
	case "latency":
		return e.Latency.String()
	case "latency_ms":
		return strconv.FormatInt(e.Latency.Milliseconds(), 10)
	case "client_ip":
		return e.ClientIP
	case "method":
		return e.Method
	case "path":
		return e.Path
	}
	v, ok := e.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Format renders e. Unset variables render as "-".
func (f *AccessLogFormatter) Format(e AccessEntry, color bool) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range f.segments {
		if !s.isVar {
			b.WriteString(s.text)
			continue
		}
		if v := strings.TrimSpace(e.value(s.text, color)); v != "" {
			b.WriteString(v)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// AccessLogAllowedVars lists the variables a template may use.
func AccessLogAllowedVars() []string {
	keys := make([]string, 0, len(allowedAccessLogVars))
	for k := range allowedAccessLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
