package promptforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"system", RoleSystem},
		{"human", RoleHuman},
		{"user", RoleHuman},
		{"ai", RoleAI},
		{"assistant", RoleAI},
		{"tool", RoleTool},
		{"SYSTEM", RoleSystem},
		{"User", RoleHuman},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			role, err := ParseRole(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}

	_, err := ParseRole("wizard")
	require.Error(t, err)
}

func TestMessage_String(t *testing.T) {
	m := Message{Role: RoleHuman, Content: "hello"}
	assert.Equal(t, "human: hello", m.String())
}

func TestNewMessageTemplate_RejectsInvalidRole(t *testing.T) {
	_, err := NewMessageTemplate(Role("wizard"), "hi")
	require.Error(t, err)
}

func TestChatTemplate_Format(t *testing.T) {
	chat := FromMessages(
		MustMessageTemplate(RoleSystem, "You are a {tone} assistant."),
		Message{Role: RoleHuman, Content: "Hi there"},
		MustMessageTemplate(RoleAI, "Hello {{name}}!"),
	)

	ctx := MustVars(map[string]any{"tone": "helpful", "name": "Ada"})

	messages, err := chat.FormatMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, Message{Role: RoleSystem, Content: "You are a helpful assistant."}, messages[0])
	assert.Equal(t, Message{Role: RoleHuman, Content: "Hi there"}, messages[1])
	assert.Equal(t, Message{Role: RoleAI, Content: "Hello Ada!"}, messages[2])

	out, err := chat.Format(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		"system: You are a helpful assistant.\nhuman: Hi there\nai: Hello Ada!",
		out)
}

func TestChatTemplate_InputVariables(t *testing.T) {
	chat := FromMessages(
		MustMessageTemplate(RoleSystem, "{tone} {tone} {lang}"),
		NewMessagesPlaceholder("history"),
		&MessagesPlaceholder{VariableName: "scratch", Optional: true},
	)
	assert.Equal(t, []string{"tone", "lang", "history"}, chat.InputVariables())
}

func TestChatTemplate_StrictMissing(t *testing.T) {
	chat := FromMessages(MustMessageTemplate(RoleSystem, "be {tone}"))

	_, err := chat.FormatMessages(NewContext())
	require.Error(t, err)
	assert.Equal(t, ErrKindMissingVariable, ErrorKind(err))

	messages, err := chat.FormatMessages(NewContext(),
		WithMissingVariablePolicy(PolicyLenient))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "be ", messages[0].Content)
}

func TestMessagesPlaceholder_FromList(t *testing.T) {
	chat := FromMessages(NewMessagesPlaceholder("history"))
	ctx := MustVars(map[string]any{
		"history": []any{
			map[string]any{"role": "user", "content": "q1"},
			map[string]any{"role": "assistant", "content": "a1"},
		},
	})

	messages, err := chat.FormatMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, Message{Role: RoleHuman, Content: "q1"}, messages[0])
	assert.Equal(t, Message{Role: RoleAI, Content: "a1"}, messages[1])
}

func TestMessagesPlaceholder_FromJSON(t *testing.T) {
	chat := FromMessages(NewMessagesPlaceholder("history"))
	ctx := MustVars(map[string]any{
		"history": `[{"role":"human","content":"q"},{"role":"ai","content":"a"}]`,
	})

	messages, err := chat.FormatMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleHuman, messages[0].Role)
	assert.Equal(t, "a", messages[1].Content)
}

func TestMessagesPlaceholder_BadJSON(t *testing.T) {
	chat := FromMessages(NewMessagesPlaceholder("history"))

	_, err := chat.FormatMessages(MustVars(map[string]any{"history": "not json"}))
	require.Error(t, err)
}

func TestMessagesPlaceholder_BadEntry(t *testing.T) {
	chat := FromMessages(NewMessagesPlaceholder("history"))

	_, err := chat.FormatMessages(MustVars(map[string]any{
		"history": []any{"just a string"},
	}))
	require.Error(t, err)

	_, err = chat.FormatMessages(MustVars(map[string]any{
		"history": []any{map[string]any{"role": "user"}},
	}))
	require.Error(t, err)
}

func TestMessagesPlaceholder_NotAList(t *testing.T) {
	chat := FromMessages(NewMessagesPlaceholder("history"))

	_, err := chat.FormatMessages(MustVars(map[string]any{"history": 42}))
	require.Error(t, err)
}

func TestMessagesPlaceholder_MissingVariable(t *testing.T) {
	required := FromMessages(NewMessagesPlaceholder("history"))
	_, err := required.FormatMessages(NewContext())
	require.Error(t, err)

	optional := FromMessages(&MessagesPlaceholder{VariableName: "history", Optional: true})
	messages, err := optional.FormatMessages(NewContext())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessagesPlaceholder_Limit(t *testing.T) {
	history := make([]any, 5)
	for i := range history {
		history[i] = map[string]any{"role": "user", "content": string(rune('a' + i))}
	}
	chat := FromMessages(&MessagesPlaceholder{VariableName: "history", Limit: 2})

	messages, err := chat.FormatMessages(MustVars(map[string]any{"history": history}))
	require.NoError(t, err)
	require.Len(t, messages, 2)
	// The trailing messages survive the cut.
	assert.Equal(t, "d", messages[0].Content)
	assert.Equal(t, "e", messages[1].Content)
}
