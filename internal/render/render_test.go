package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "✓ session dev was successful in 3.2s", Outcome("dev", 3200*time.Millisecond, nil))
	assert.Equal(t, "✗ session release failed: exit status 1", Outcome("release", time.Second, errors.New("exit status 1")))
}

func TestWriterOutcome(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Outcome("update", 20*time.Millisecond, nil)
	assert.Equal(t, "✓ session update was successful in 20ms\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestWriterLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Header("status")
	w.Field("Branch", "main")
	w.Section("Tools")
	w.Item("%s git", BoolIcon(true))

	assert.Equal(t, "STATUS\n"+
		strings.Repeat("─", 40)+"\n"+
		"Branch:       main\n"+
		"\n"+
		"Tools:\n"+
		"  ✓ git\n", buf.String())
}

func TestConfigureColorOnlyDisables(t *testing.T) {
	color.NoColor = true
	ConfigureColor(false, -1)
	assert.True(t, color.NoColor)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5))
	assert.Equal(t, "ab", Truncate("abcdefgh", 2))
}
