package promptforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFewShotTemplate_Format(t *testing.T) {
	fs, err := NewFewShotTemplate(
		MustParse("Q: {question}\nA: {answer}"),
		WithFewShotPrefix("Answer the questions."),
		WithFewShotSuffix("Q: {input}\nA:"),
		WithFewShotExamples(
			MustVars(map[string]any{"question": "2+2?", "answer": "4"}),
			MustVars(map[string]any{"question": "3+3?", "answer": "6"}),
		),
	)
	require.NoError(t, err)

	out, err := fs.Format(MustVars(map[string]any{"input": "5+5?"}))
	require.NoError(t, err)
	assert.Equal(t,
		"Answer the questions.\n\n"+
			"Q: 2+2?\nA: 4\n\n"+
			"Q: 3+3?\nA: 6\n\n"+
			"Q: 5+5?\nA:",
		out)
}

func TestFewShotTemplate_NoExamples(t *testing.T) {
	fs, err := NewFewShotTemplate(
		MustParse("Q: {q}"),
		WithFewShotPrefix("intro"),
		WithFewShotSuffix("outro"),
	)
	require.NoError(t, err)

	out, err := fs.Format(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "intro\n\noutro", out)
}

func TestFewShotTemplate_CustomSeparator(t *testing.T) {
	fs, err := NewFewShotTemplate(
		MustParse("{x}"),
		WithFewShotSeparator(" | "),
		WithFewShotExamples(
			MustVars(map[string]any{"x": "a"}),
			MustVars(map[string]any{"x": "b"}),
		),
	)
	require.NoError(t, err)

	out, err := fs.Format(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "a | b", out)
}

func TestFewShotTemplate_ExamplesInheritCallerContext(t *testing.T) {
	fs, err := NewFewShotTemplate(
		MustParse("{label}: {x}"),
		WithFewShotExamples(MustVars(map[string]any{"x": "1"})),
	)
	require.NoError(t, err)

	out, err := fs.Format(MustVars(map[string]any{"label": "ex"}))
	require.NoError(t, err)
	assert.Equal(t, "ex: 1", out)
}

func TestFewShotTemplate_NilExample(t *testing.T) {
	_, err := NewFewShotTemplate(nil)
	require.Error(t, err)
}

func TestFewShotTemplate_BadPrefix(t *testing.T) {
	_, err := NewFewShotTemplate(MustParse("{x}"), WithFewShotPrefix("{unclosed"))
	require.Error(t, err)
}

func TestFewShotTemplate_InputVariables(t *testing.T) {
	fs, err := NewFewShotTemplate(
		MustParse("{q} {a}"),
		WithFewShotPrefix("{tone}"),
		WithFewShotSuffix("{q_final}"),
		WithFewShotExamples(
			MustVars(map[string]any{"q": "x", "a": "y"}),
			MustVars(map[string]any{"q": "x"}), // leaves "a" unbound
		),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"tone", "a", "q_final"}, fs.InputVariables())
}

func TestFewShotTemplate_InputVariablesNoExamples(t *testing.T) {
	fs, err := NewFewShotTemplate(MustParse("{q} {a}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "a"}, fs.InputVariables())
}

func TestParseFewShotConfig(t *testing.T) {
	data := []byte(`
example_template: "Q: {question}\nA: {answer}"
prefix: "Answer briefly."
suffix: "Q: {input}\nA:"
examples:
  - question: "2+2?"
    answer: "4"
`)
	fs, err := ParseFewShotConfig(data)
	require.NoError(t, err)

	out, err := fs.Format(MustVars(map[string]any{"input": "1+1?"}))
	require.NoError(t, err)
	assert.Equal(t, "Answer briefly.\n\nQ: 2+2?\nA: 4\n\nQ: 1+1?\nA:", out)
}

func TestParseFewShotConfig_CustomSeparator(t *testing.T) {
	data := []byte(`
example_template: "{x}"
separator: "---"
examples:
  - x: "a"
  - x: "b"
`)
	fs, err := ParseFewShotConfig(data)
	require.NoError(t, err)

	out, err := fs.Format(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "a---b", out)
}

func TestParseFewShotConfig_Invalid(t *testing.T) {
	_, err := ParseFewShotConfig([]byte("\t- tabs are not yaml"))
	require.Error(t, err)

	_, err = ParseFewShotConfig([]byte("prefix: only"))
	require.Error(t, err)

	_, err = ParseFewShotConfig([]byte(`example_template: "{bad"`))
	require.Error(t, err)
}
