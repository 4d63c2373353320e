package xlog

import (
	"strings"
	"time"
)

// ArchivePeriod is the calendar boundary at which date archival rotates.
type ArchivePeriod int

const (
	PeriodNone ArchivePeriod = iota
	PeriodYear
	PeriodMonth
	PeriodDay
	PeriodHour
	PeriodMinute
	PeriodSunday
	PeriodMonday
	PeriodTuesday
	PeriodWednesday
	PeriodThursday
	PeriodFriday
	PeriodSaturday
)

var periodNames = [...]string{
	"None", "Year", "Month", "Day", "Hour", "Minute",
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func (p ArchivePeriod) String() string {
	if p >= 0 && int(p) < len(periodNames) {
		return periodNames[p]
	}
	return "Unknown"
}

func parseArchivePeriod(s string) (ArchivePeriod, bool) {
	s = strings.TrimSpace(s)
	for i, n := range periodNames {
		if strings.EqualFold(n, s) {
			return ArchivePeriod(i), true
		}
	}
	return PeriodNone, false
}

// start returns the beginning of the period containing t.
func (p ArchivePeriod) start(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch p {
	case PeriodYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case PeriodHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case PeriodMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case PeriodSunday, PeriodMonday, PeriodTuesday, PeriodWednesday, PeriodThursday, PeriodFriday, PeriodSaturday:
		want := time.Weekday(p - PeriodSunday)
		back := (int(t.Weekday()) - int(want) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	}
	return time.Time{}
}

// NumberingMode selects how archive files are named.
type NumberingMode int

const (
	NumberingSequence NumberingMode = iota
	NumberingRolling
	NumberingDate
	NumberingDateAndSequence
)

var numberingNames = [...]string{"Sequence", "Rolling", "Date", "DateAndSequence"}

func (m NumberingMode) String() string {
	if m >= 0 && int(m) < len(numberingNames) {
		return numberingNames[m]
	}
	return "Unknown"
}

func parseNumberingMode(s string) (NumberingMode, bool) {
	s = strings.TrimSpace(s)
	for i, n := range numberingNames {
		if strings.EqualFold(n, s) {
			return NumberingMode(i), true
		}
	}
	return NumberingSequence, false
}

// ArchivalPolicy is the rotation strategy of a file sink. It is attached
// at most once and never changes afterwards.
type ArchivalPolicy struct {
	Numbering NumberingMode
	// Period and DateFormat apply to date archival only.
	Period     ArchivePeriod
	DateFormat string `validate:"required_if=Numbering 2"`
	// MaxArchiveDays prunes date archives older than this many days; 0 keeps all.
	MaxArchiveDays int `validate:"gte=0"`
	// MaxArchiveFiles bounds numbered archives; 0 keeps all.
	MaxArchiveFiles int `validate:"gte=0"`
	ArchiveSuffix   string
	// ArchiveFileName is the archive path pattern, {#} marking the variable part.
	ArchiveFileName         string `validate:"required"`
	ArchiveOldFileOnStartup bool
}

// ByDate reports whether the policy rotates on calendar boundaries.
func (p ArchivalPolicy) ByDate() bool { return p.Numbering == NumberingDate }

// dotnetDateTokens maps the date format tokens accepted by DateFormat onto
// Go reference-time layouts, longest first.
var dotnetDateTokens = []struct{ token, layout string }{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

// formatDate renders t with a DateFormat. Formats that already use the Go
// reference time go straight to time.Format. Otherwise each token is
// formatted on its own and all other text, including 'quoted' or "quoted"
// runs and \escaped characters, is copied verbatim.
func formatDate(format string, t time.Time) string {
	if strings.Contains(format, "2006") {
		return t.Format(format)
	}
	var sb strings.Builder
	for i := 0; i < len(format); {
		switch c := format[i]; c {
		case '\'', '"':
			end := strings.IndexByte(format[i+1:], c)
			if end < 0 {
				sb.WriteString(format[i+1:])
				return sb.String()
			}
			sb.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		case '\\':
			if i+1 < len(format) {
				sb.WriteByte(format[i+1])
			}
			i += 2
			continue
		}
		matched := false
		for _, tok := range dotnetDateTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				sb.WriteString(t.Format(tok.layout))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(format[i])
			i++
		}
	}
	return sb.String()
}

// archivePattern splits an archive file name around its {#..} placeholder.
// width is the number of # characters. A name without placeholder gets
// ".{#}" appended.
type archivePattern struct {
	prefix, postfix string
	width           int
}

func parseArchivePattern(name string) archivePattern {
	start := strings.Index(name, "{#")
	if start >= 0 {
		if end := strings.IndexByte(name[start:], '}'); end > 0 {
			hashes := name[start+1 : start+end]
			if strings.Trim(hashes, "#") == emptyString {
				return archivePattern{prefix: name[:start], postfix: name[start+end+1:], width: len(hashes)}
			}
		}
	}
	return archivePattern{prefix: name + ".", width: 1}
}

func (p archivePattern) with(variable string) string {
	return p.prefix + variable + p.postfix
}
