package xlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEntry() *Entry {
	return &Entry{
		Time:       time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC),
		Level:      LevelWarn,
		Logger:     "FileLogger::book1.xlsx",
		Message:    "disk low",
		Properties: map[string]string{PropertyOwner: "book1.xlsx", PropertyContext: "import"},
	}
}

func TestCompileLayout_Render(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"default", DefaultLayout, "2026-03-04 05:06:07.8900|WARN|disk low"},
		{"shortdate and time", "${shortdate} ${time}", "2026-03-04 05:06:07.8900"},
		{"level lowercase", "${level:lowercase=true}", "warn"},
		{"logger", "[${logger}]", "[FileLogger::book1.xlsx]"},
		{"newline", "${message}${newline}", "disk low\n"},
		{"property bare", "${event-properties:WbName}", "book1.xlsx"},
		{"property item", "${event-properties:item=Context}", "import"},
		{"missing property", "${event-properties:item=Nope}|", "|"},
		{"unknown token", "${machinename}:${message}", "${machinename}:disk low"},
		{"unterminated", "x ${message", "x ${message"},
		{"literal only", "plain", "plain"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := compileLayout(tt.layout)
			assert.Equal(t, tt.layout, cl.text)
			assert.Equal(t, tt.want, cl.render(testEntry()))
		})
	}
}
