package xlog

import (
	"strings"
	"time"
)

// Entry is a single log record handed to a sink.
type Entry struct {
	Time       time.Time
	Level      Level
	Logger     string
	Message    string
	Properties map[string]string
}

type layoutPart func(sb *strings.Builder, e *Entry)

// compiledLayout is a parsed layout template. The source text is kept so
// that reading a layout back returns exactly what was set.
type compiledLayout struct {
	text  string
	parts []layoutPart
}

func compileLayout(text string) *compiledLayout {
	cl := &compiledLayout{text: text}
	rest := text
	for len(rest) > 0 {
		start := strings.Index(rest, "${")
		if start < 0 {
			cl.parts = append(cl.parts, literalPart(rest))
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			cl.parts = append(cl.parts, literalPart(rest))
			break
		}
		if start > 0 {
			cl.parts = append(cl.parts, literalPart(rest[:start]))
		}
		token := rest[start : start+end+1]
		cl.parts = append(cl.parts, renderer(token))
		rest = rest[start+end+1:]
	}
	return cl
}

func (cl *compiledLayout) render(e *Entry) string {
	var sb strings.Builder
	for _, p := range cl.parts {
		p(&sb, e)
	}
	return sb.String()
}

func literalPart(s string) layoutPart {
	return func(sb *strings.Builder, _ *Entry) { sb.WriteString(s) }
}

// renderer resolves one ${name:opt=val:...} token. Unknown names render verbatim.
func renderer(token string) layoutPart {
	body := token[2 : len(token)-1]
	fields := strings.Split(body, ":")
	name := strings.ToLower(strings.TrimSpace(fields[0]))
	opts := map[string]string{}
	var bare string
	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok {
			opts[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		} else {
			bare = strings.TrimSpace(f)
		}
	}
	upper := strings.EqualFold(opts["uppercase"], "true")
	lower := strings.EqualFold(opts["lowercase"], "true")
	casing := func(s string) string {
		switch {
		case upper:
			return strings.ToUpper(s)
		case lower:
			return strings.ToLower(s)
		}
		return s
	}

	switch name {
	case "longdate":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(e.Time.Format("2006-01-02 15:04:05.0000")) }
	case "shortdate":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(e.Time.Format("2006-01-02")) }
	case "time":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(e.Time.Format("15:04:05.0000")) }
	case "level":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(casing(e.Level.String())) }
	case "message":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(casing(e.Message)) }
	case "logger":
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(casing(e.Logger)) }
	case "newline":
		return literalPart("\n")
	case "event-properties":
		key := opts["item"]
		if key == "" {
			key = bare
		}
		return func(sb *strings.Builder, e *Entry) { sb.WriteString(casing(e.Properties[key])) }
	}
	return literalPart(token)
}
