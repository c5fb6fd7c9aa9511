package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevelAcceptsConfigStrings(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"), "unrecognized level falls back to info")
}

func TestParseFormatOnlyRecognizesJSON(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestConfigureSetsCurrentLevel(t *testing.T) {
	defer Configure("info", "text")

	Configure("warn", "json")
	assert.Equal(t, LevelWarn, CurrentLevel())

	Configure("debug", "text")
	assert.Equal(t, LevelDebug, CurrentLevel())
}
