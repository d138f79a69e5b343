package internal

import (
	"fmt"
	"strings"
)

// Position represents a location in the source template.
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// PositionAt computes the position of a byte offset within source.
func PositionAt(source string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	line := 1
	column := 1
	for i := 0; i < offset; i++ {
		if source[i] == CharNewline {
			line++
			column = 1
		} else {
			column++
		}
	}
	return Position{Offset: offset, Line: line, Column: column}
}

// Node is the interface all AST nodes implement.
// Every node keeps the exact source bytes it was parsed from; concatenating
// Raw() over a tree in order reconstructs the original source byte-for-byte.
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// Raw returns the exact source bytes this node was parsed from
	Raw() string
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for an AST
type RootNode struct {
	Children []Node
}

// Type returns NodeTypeRoot
func (n *RootNode) Type() NodeType {
	return NodeTypeRoot
}

// Pos returns a zero position (root has no specific position)
func (n *RootNode) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// Raw reconstructs the source by concatenating all children in order.
func (n *RootNode) Raw() string {
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.Raw())
	}
	return sb.String()
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf(FmtNodeIndex, i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextNode represents literal text content.
// Content is the text emitted at render time; raw keeps the source bytes,
// which differ from Content for escaped braces and comment tags.
type TextNode struct {
	pos     Position
	raw     string
	Content string
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType {
	return NodeTypeText
}

// Pos returns the source position
func (n *TextNode) Pos() Position {
	return n.pos
}

// Raw returns the source bytes
func (n *TextNode) Raw() string {
	return n.raw
}

// String returns a string representation
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > MaxStringDisplayLength {
		content = content[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// NewTextNode creates a text node whose raw bytes equal its content.
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{pos: pos, raw: content, Content: content}
}

// NewEscapedTextNode creates a text node whose raw bytes differ from the
// emitted content (doubled-brace escapes, comment tags).
func NewEscapedTextNode(content, raw string, pos Position) *TextNode {
	return &TextNode{pos: pos, raw: raw, Content: content}
}

// PlaceholderNode represents a FmtString-style scalar substitution point.
type PlaceholderNode struct {
	pos        Position
	raw        string
	Name       string
	FormatSpec string // Opaque at parse time; interpreted by the renderer
}

// Type returns NodeTypePlaceholder
func (n *PlaceholderNode) Type() NodeType {
	return NodeTypePlaceholder
}

// Pos returns the source position
func (n *PlaceholderNode) Pos() Position {
	return n.pos
}

// Raw returns the source bytes
func (n *PlaceholderNode) Raw() string {
	return n.raw
}

// String returns a string representation
func (n *PlaceholderNode) String() string {
	if n.FormatSpec != "" {
		return fmt.Sprintf("PlaceholderNode{%s:%s @ %s}", n.Name, n.FormatSpec, n.pos)
	}
	return fmt.Sprintf("PlaceholderNode{%s @ %s}", n.Name, n.pos)
}

// NewPlaceholderNode creates a new placeholder node
func NewPlaceholderNode(name, formatSpec, raw string, pos Position) *PlaceholderNode {
	return &PlaceholderNode{pos: pos, raw: raw, Name: name, FormatSpec: formatSpec}
}

// VariableNode represents a Mustache-style scalar substitution point.
// Escaped is false for triple-brace raw output.
type VariableNode struct {
	pos     Position
	raw     string
	Name    string
	Escaped bool
}

// Type returns NodeTypeVariable
func (n *VariableNode) Type() NodeType {
	return NodeTypeVariable
}

// Pos returns the source position
func (n *VariableNode) Pos() Position {
	return n.pos
}

// Raw returns the source bytes
func (n *VariableNode) Raw() string {
	return n.raw
}

// String returns a string representation
func (n *VariableNode) String() string {
	return fmt.Sprintf("VariableNode{%s, escaped=%t @ %s}", n.Name, n.Escaped, n.pos)
}

// NewVariableNode creates a new variable node
func NewVariableNode(name, raw string, escaped bool, pos Position) *VariableNode {
	return &VariableNode{pos: pos, raw: raw, Name: name, Escaped: escaped}
}

// SectionNode represents a Mustache block that repeats or conditionally
// includes its body based on the bound value.
type SectionNode struct {
	pos      Position
	openRaw  string
	closeRaw string
	Name     string
	Body     []Node
	Inverted bool
}

// Type returns NodeTypeSection
func (n *SectionNode) Type() NodeType {
	return NodeTypeSection
}

// Pos returns the source position of the opening tag
func (n *SectionNode) Pos() Position {
	return n.pos
}

// Raw reconstructs the section source including open and close tags.
func (n *SectionNode) Raw() string {
	var sb strings.Builder
	sb.WriteString(n.openRaw)
	for _, child := range n.Body {
		sb.WriteString(child.Raw())
	}
	sb.WriteString(n.closeRaw)
	return sb.String()
}

// String returns a string representation
func (n *SectionNode) String() string {
	return fmt.Sprintf("SectionNode{%s, inverted=%t, body=%d @ %s}", n.Name, n.Inverted, len(n.Body), n.pos)
}

// NewSectionNode creates a new section node
func NewSectionNode(name string, body []Node, inverted bool, openRaw, closeRaw string, pos Position) *SectionNode {
	return &SectionNode{
		pos:      pos,
		openRaw:  openRaw,
		closeRaw: closeRaw,
		Name:     name,
		Body:     body,
		Inverted: inverted,
	}
}
