package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustacheParse(t *testing.T, source string) (*RootNode, []*Issue) {
	t.Helper()
	return NewMustacheParser(nil, nil).Parse(source)
}

func TestMustacheParser_Variables(t *testing.T) {
	root, issues := mustacheParse(t, "Hello, {{name}}!")
	require.Empty(t, issues)
	require.Len(t, root.Children, 3)

	v, ok := root.Children[1].(*VariableNode)
	require.True(t, ok)
	assert.Equal(t, "name", v.Name)
	assert.True(t, v.Escaped)
	assert.Equal(t, "{{name}}", v.Raw())
	assert.Equal(t, 7, v.Pos().Offset)
}

func TestMustacheParser_WhitespaceInTag(t *testing.T) {
	root, issues := mustacheParse(t, "{{ name }}")
	require.Empty(t, issues)
	v := root.Children[0].(*VariableNode)
	assert.Equal(t, "name", v.Name)
	assert.Equal(t, "{{ name }}", v.Raw())
}

func TestMustacheParser_TripleBrace(t *testing.T) {
	root, issues := mustacheParse(t, "a {{{html}}} b")
	require.Empty(t, issues)
	require.Len(t, root.Children, 3)

	v, ok := root.Children[1].(*VariableNode)
	require.True(t, ok)
	assert.Equal(t, "html", v.Name)
	assert.False(t, v.Escaped)
	assert.Equal(t, "{{{html}}}", v.Raw())

	tail := root.Children[2].(*TextNode)
	assert.Equal(t, " b", tail.Content)
}

func TestMustacheParser_Comment(t *testing.T) {
	root, issues := mustacheParse(t, "a{{! ignore me }}b")
	require.Empty(t, issues)
	require.Len(t, root.Children, 3)

	comment := root.Children[1].(*TextNode)
	assert.Equal(t, "", comment.Content)
	assert.Equal(t, "{{! ignore me }}", comment.Raw())
}

func TestMustacheParser_Section(t *testing.T) {
	root, issues := mustacheParse(t, "{{#items}}- {{name}}\n{{/items}}")
	require.Empty(t, issues)
	require.Len(t, root.Children, 1)

	section, ok := root.Children[0].(*SectionNode)
	require.True(t, ok)
	assert.Equal(t, "items", section.Name)
	assert.False(t, section.Inverted)
	require.Len(t, section.Body, 3)

	inner := section.Body[1].(*VariableNode)
	assert.Equal(t, "name", inner.Name)
}

func TestMustacheParser_InvertedSection(t *testing.T) {
	root, issues := mustacheParse(t, "{{^items}}empty{{/items}}")
	require.Empty(t, issues)

	section := root.Children[0].(*SectionNode)
	assert.Equal(t, "items", section.Name)
	assert.True(t, section.Inverted)
}

func TestMustacheParser_NestedSections(t *testing.T) {
	root, issues := mustacheParse(t, "{{#a}}{{#b}}{{x}}{{/b}}{{/a}}")
	require.Empty(t, issues)

	outer := root.Children[0].(*SectionNode)
	assert.Equal(t, "a", outer.Name)
	require.Len(t, outer.Body, 1)

	inner := outer.Body[0].(*SectionNode)
	assert.Equal(t, "b", inner.Name)
	require.Len(t, inner.Body, 1)
}

func TestMustacheParser_Issues(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   IssueKind
	}{
		{"empty tag", "{{}}", IssueEmptyPlaceholder},
		{"blank tag", "{{   }}", IssueEmptyPlaceholder},
		{"unclosed section", "{{#items}}body", IssueUnclosedSection},
		{"close without open", "{{/items}}", IssueSectionMismatch},
		{"mismatched close", "{{#a}}{{/b}}", IssueSectionMismatch},
		{"unterminated tag", "{{name", IssueUnbalancedBrace},
		{"invalid tag body", "{{a b}}", IssueUnbalancedBrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := mustacheParse(t, tt.source)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.kind, issues[0].Kind)
		})
	}
}

func TestMustacheParser_MismatchDetails(t *testing.T) {
	_, issues := mustacheParse(t, "{{#outer}}{{/inner}}")
	require.Len(t, issues, 1)
	assert.Equal(t, IssueSectionMismatch, issues[0].Kind)
	assert.Equal(t, "outer", issues[0].Expected)
	assert.Equal(t, "inner", issues[0].Found)
}

func TestMustacheParser_UnclosedReportsInnermostFirst(t *testing.T) {
	_, issues := mustacheParse(t, "{{#a}}{{#b}}")
	require.Len(t, issues, 2)
	assert.Equal(t, "b", issues[0].Name)
	assert.Equal(t, "a", issues[1].Name)
}

func TestMustacheParser_RoundTrip(t *testing.T) {
	sources := []string{
		"",
		"no tags here",
		"Hello, {{name}}!",
		"{{ spaced }}",
		"{{{raw}}} tail",
		"pre {{! comment }} post",
		"{{#items}}- {{.}}\n{{/items}}",
		"{{^missing}}default{{/missing}}",
		"{{#a}}{{#b}}{{x}}{{/b}}{{/a}}",
	}
	for _, source := range sources {
		root, issues := mustacheParse(t, source)
		require.Empty(t, issues, "source: %q", source)
		assert.Equal(t, source, root.Raw(), "source: %q", source)
	}
}
