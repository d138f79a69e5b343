package promptforge

import (
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Role identifies the author of a chat message.
type Role string

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAI, RoleTool:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, accepting the common aliases
// "user" for human and "assistant" for ai.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case string(RoleSystem):
		return RoleSystem, nil
	case string(RoleHuman), RoleAliasUser:
		return RoleHuman, nil
	case string(RoleAI), RoleAliasAssistant:
		return RoleAI, nil
	case string(RoleTool):
		return RoleTool, nil
	default:
		return "", NewInvalidRoleError(s)
	}
}

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// String formats the message as "role: content".
func (m Message) String() string {
	return string(m.Role) + MessageRoleSeparator + m.Content
}

// MessageLike is anything a ChatTemplate can expand into messages:
// a fixed Message, a MessageTemplate, or a MessagesPlaceholder.
type MessageLike interface {
	// formatMessages expands this item against the context.
	formatMessages(ctx *Context, opts []RenderOption) ([]Message, error)

	// inputVariables lists the variables this item references.
	inputVariables() []string
}

// formatMessages on a fixed Message returns it unchanged.
func (m Message) formatMessages(_ *Context, _ []RenderOption) ([]Message, error) {
	return []Message{m}, nil
}

func (m Message) inputVariables() []string {
	return nil
}

// MessageTemplate pairs a role with a template for the message content.
type MessageTemplate struct {
	Role     Role
	Template *Template
}

// NewMessageTemplate parses source into a message template for role.
func NewMessageTemplate(role Role, source string, opts ...ParseOption) (*MessageTemplate, error) {
	if !role.Valid() {
		return nil, NewInvalidRoleError(string(role))
	}
	t, err := Parse(source, opts...)
	if err != nil {
		return nil, err
	}
	return &MessageTemplate{Role: role, Template: t}, nil
}

// MustMessageTemplate parses a message template and panics on failure.
func MustMessageTemplate(role Role, source string, opts ...ParseOption) *MessageTemplate {
	mt, err := NewMessageTemplate(role, source, opts...)
	if err != nil {
		panic(err)
	}
	return mt
}

func (mt *MessageTemplate) formatMessages(ctx *Context, opts []RenderOption) ([]Message, error) {
	content, err := mt.Template.Render(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return []Message{{Role: mt.Role, Content: content}}, nil
}

func (mt *MessageTemplate) inputVariables() []string {
	return mt.Template.InputVariables()
}

// MessagesPlaceholder splices conversation history from a context
// variable into a chat sequence. The bound value is either a list of
// role/content maps or a JSON-encoded array of the same shape.
type MessagesPlaceholder struct {
	// VariableName is the context variable holding the history.
	VariableName string

	// Optional makes a missing variable expand to no messages instead
	// of an error.
	Optional bool

	// Limit caps how many trailing messages are kept. Zero means
	// DefaultPlaceholderLimit.
	Limit int
}

// NewMessagesPlaceholder creates a required history placeholder.
func NewMessagesPlaceholder(variableName string) *MessagesPlaceholder {
	return &MessagesPlaceholder{VariableName: variableName}
}

func (p *MessagesPlaceholder) formatMessages(ctx *Context, _ []RenderOption) ([]Message, error) {
	value, ok := ctx.Resolve(p.VariableName)
	if !ok {
		if p.Optional {
			return nil, nil
		}
		return nil, NewMissingVariableError(p.VariableName, Position{})
	}

	var messages []Message
	var err error
	switch value.Kind() {
	case ValueKindList:
		messages, err = p.messagesFromList(value.List())
	case ValueKindString:
		messages, err = p.messagesFromJSON(value.Text())
	default:
		return nil, NewPlaceholderNotListError(p.VariableName, value.Kind())
	}
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPlaceholderLimit
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (p *MessagesPlaceholder) messagesFromList(items []Value) ([]Message, error) {
	messages := make([]Message, 0, len(items))
	for i, item := range items {
		if item.Kind() != ValueKindMap {
			return nil, NewPlaceholderBadEntryError(p.VariableName, i)
		}
		m := item.Map()
		roleValue, hasRole := m.Get(MessageFieldRole)
		contentValue, hasContent := m.Get(MessageFieldContent)
		if !hasRole || !hasContent ||
			roleValue.Kind() != ValueKindString || contentValue.Kind() != ValueKindString {
			return nil, NewPlaceholderBadEntryError(p.VariableName, i)
		}
		role, err := ParseRole(roleValue.Text())
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message{Role: role, Content: contentValue.Text()})
	}
	return messages, nil
}

func (p *MessagesPlaceholder) messagesFromJSON(raw string) ([]Message, error) {
	var decoded []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, NewPlaceholderBadJSONError(p.VariableName, err)
	}
	messages := make([]Message, 0, len(decoded))
	for _, entry := range decoded {
		role, err := ParseRole(entry.Role)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message{Role: role, Content: entry.Content})
	}
	return messages, nil
}

func (p *MessagesPlaceholder) inputVariables() []string {
	if p.Optional {
		return nil
	}
	return []string{p.VariableName}
}

// ChatTemplate composes an ordered sequence of message producers into a
// prompt for chat-style models.
type ChatTemplate struct {
	items  []MessageLike
	logger *zap.Logger
}

// FromMessages builds a chat template from messages, message templates
// and placeholders, in order.
func FromMessages(items ...MessageLike) *ChatTemplate {
	return &ChatTemplate{items: items, logger: zap.NewNop()}
}

// WithChatLogger returns a copy of the chat template using the given
// logger during formatting.
func (c *ChatTemplate) WithChatLogger(logger *zap.Logger) *ChatTemplate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatTemplate{items: c.items, logger: logger}
}

// FormatMessages expands every item against the context and returns the
// flattened message sequence.
func (c *ChatTemplate) FormatMessages(ctx *Context, opts ...RenderOption) ([]Message, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	var messages []Message
	for _, item := range c.items {
		expanded, err := item.formatMessages(ctx, opts)
		if err != nil {
			return nil, err
		}
		messages = append(messages, expanded...)
	}

	c.logger.Debug(LogMsgChatFormatted, zap.Int(LogFieldMessages, len(messages)))
	return messages, nil
}

// Format renders the chat sequence as a single string, one
// "role: content" line per message.
func (c *ChatTemplate) Format(ctx *Context, opts ...RenderOption) (string, error) {
	messages, err := c.FormatMessages(ctx, opts...)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n"), nil
}

// InputVariables returns the variables the chat template references, in
// first-appearance order without duplicates. Optional placeholders do
// not count.
func (c *ChatTemplate) InputVariables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range c.items {
		for _, name := range item.inputVariables() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
