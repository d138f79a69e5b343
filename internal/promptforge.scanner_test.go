package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastTemplateScanner_Tokens(t *testing.T) {
	tokens, err := NewFastTemplateScanner(nil).Scan("Hello, {{name}}! Bye {{other}}.")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, RawToken{Type: RawTokenText, Content: "Hello, ", Offset: 0}, tokens[0])
	assert.Equal(t, RawToken{Type: RawTokenTag, Content: "name", Offset: 7}, tokens[1])
	assert.Equal(t, RawToken{Type: RawTokenText, Content: "! Bye ", Offset: 15}, tokens[2])
	assert.Equal(t, RawToken{Type: RawTokenTag, Content: "other", Offset: 21}, tokens[3])
	assert.Equal(t, RawToken{Type: RawTokenText, Content: ".", Offset: 30}, tokens[4])
}

func TestFastTemplateScanner_PreservesTagWhitespace(t *testing.T) {
	tokens, err := NewFastTemplateScanner(nil).Scan("{{ name }}")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, " name ", tokens[0].Content)
}

func TestFastTemplateScanner_NoTags(t *testing.T) {
	tokens, err := NewFastTemplateScanner(nil).Scan("just text")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, RawTokenText, tokens[0].Type)
	assert.Equal(t, "just text", tokens[0].Content)
}

func TestFastTemplateScanner_Empty(t *testing.T) {
	tokens, err := NewFastTemplateScanner(nil).Scan("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestFastTemplateScanner_UnterminatedTag(t *testing.T) {
	_, err := NewFastTemplateScanner(nil).Scan("before {{name after")
	require.Error(t, err)

	scanErr, ok := err.(*ScanError)
	require.True(t, ok)
	assert.Equal(t, ErrMsgUnterminatedTag, scanErr.Message)
	assert.Equal(t, 7, scanErr.Offset)
}

func TestUnterminatedTagOffset_SkipsClosedTags(t *testing.T) {
	offset := unterminatedTagOffset("{{a}} x {{b", "{{", "}}")
	assert.Equal(t, 8, offset)
}
