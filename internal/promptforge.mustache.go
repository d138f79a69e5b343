package internal

import (
	"strings"

	"go.uber.org/zap"
)

// MustacheParser maps a TagScanner's token stream into the node tree,
// enforcing the validation the underlying engine does not guarantee:
// section balance and nesting, tag-name validity, and triple-brace raw
// variables.
type MustacheParser struct {
	scanner TagScanner
	logger  *zap.Logger
}

// sectionFrame tracks an open section while its body is being collected.
type sectionFrame struct {
	name     string
	pos      Position
	openRaw  string
	inverted bool
	nodes    []Node
}

// NewMustacheParser creates a Mustache parser over the given scanner.
// A nil scanner falls back to the fasttemplate-backed default.
func NewMustacheParser(scanner TagScanner, logger *zap.Logger) *MustacheParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scanner == nil {
		scanner = NewFastTemplateScanner(logger)
	}
	logger.Debug(LogMsgMustParserCreated)
	return &MustacheParser{scanner: scanner, logger: logger}
}

// Parse processes the source and returns the node tree together with any
// accumulated issues. The returned root is only valid when the issue slice
// is empty.
func (p *MustacheParser) Parse(source string) (*RootNode, []*Issue) {
	p.logger.Debug(LogMsgMustParserStart, zap.Int(LogFieldSource, len(source)))

	tokens, err := p.scanner.Scan(source)
	if err != nil {
		issue := &Issue{Kind: IssueUnbalancedBrace, Position: PositionAt(source, len(source))}
		if scanErr, ok := err.(*ScanError); ok {
			issue.Position = PositionAt(source, scanErr.Offset)
		}
		return &RootNode{}, []*Issue{issue}
	}

	root := &RootNode{}
	var issues []*Issue
	var stack []*sectionFrame

	appendNode := func(n Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.nodes = append(top.nodes, n)
			return
		}
		root.Children = append(root.Children, n)
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type == RawTokenText {
			if tok.Content != "" {
				appendNode(NewTextNode(tok.Content, PositionAt(source, tok.Offset)))
			}
			continue
		}

		pos := PositionAt(source, tok.Offset)
		raw := StrMustacheOpen + tok.Content + StrMustacheClose

		switch {
		case tok.Content == "" || strings.TrimSpace(tok.Content) == "":
			issues = append(issues, &Issue{Kind: IssueEmptyPlaceholder, Position: pos})

		case tok.Content[0] == SigilUnescaped:
			// Triple-brace raw variable. The scanner sees {{{name}}} as tag
			// "{name" followed by a literal "}", so the companion close
			// brace is consumed from the next text token here.
			name := strings.TrimSpace(tok.Content[1:])
			if i+1 >= len(tokens) || tokens[i+1].Type != RawTokenText ||
				!strings.HasPrefix(tokens[i+1].Content, StrCloseBrace) {
				issues = append(issues, &Issue{Kind: IssueUnbalancedBrace, Position: pos})
				continue
			}
			tokens[i+1].Content = tokens[i+1].Content[1:]
			tokens[i+1].Offset++
			if name == "" {
				issues = append(issues, &Issue{Kind: IssueEmptyPlaceholder, Position: pos})
				continue
			}
			if !isIdentName(name) {
				issues = append(issues, &Issue{Kind: IssueUnbalancedBrace, Position: pos})
				continue
			}
			appendNode(NewVariableNode(name, raw+StrCloseBrace, false, pos))

		case tok.Content[0] == SigilComment:
			// Comments render to nothing but keep their source bytes for
			// round-trip reconstruction.
			appendNode(NewEscapedTextNode("", raw, pos))

		case tok.Content[0] == SigilSection, tok.Content[0] == SigilInvertedSection:
			name := strings.TrimSpace(tok.Content[1:])
			if name == "" {
				issues = append(issues, &Issue{Kind: IssueEmptyPlaceholder, Position: pos})
				continue
			}
			if !isIdentName(name) {
				issues = append(issues, &Issue{Kind: IssueUnbalancedBrace, Position: pos})
				continue
			}
			p.logger.Debug(LogMsgSectionOpened, zap.String(LogFieldSection, name))
			stack = append(stack, &sectionFrame{
				name:     name,
				pos:      pos,
				openRaw:  raw,
				inverted: tok.Content[0] == SigilInvertedSection,
			})

		case tok.Content[0] == SigilSectionClose:
			name := strings.TrimSpace(tok.Content[1:])
			if len(stack) == 0 {
				issues = append(issues, &Issue{
					Kind:     IssueSectionMismatch,
					Position: pos,
					Found:    name,
				})
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.name != name {
				// Close the innermost section anyway so scanning resumes
				// in the enclosing scope.
				issues = append(issues, &Issue{
					Kind:     IssueSectionMismatch,
					Position: pos,
					Expected: top.name,
					Found:    name,
				})
				continue
			}
			p.logger.Debug(LogMsgSectionClosed, zap.String(LogFieldSection, name))
			appendNode(NewSectionNode(top.name, top.nodes, top.inverted, top.openRaw, raw, top.pos))

		default:
			name := strings.TrimSpace(tok.Content)
			if !isIdentName(name) {
				issues = append(issues, &Issue{Kind: IssueUnbalancedBrace, Position: pos})
				continue
			}
			appendNode(NewVariableNode(name, raw, true, pos))
		}
	}

	// Anything still open never saw its closing tag.
	for i := len(stack) - 1; i >= 0; i-- {
		issues = append(issues, &Issue{
			Kind:     IssueUnclosedSection,
			Position: stack[i].pos,
			Name:     stack[i].name,
		})
	}

	p.logger.Debug(LogMsgMustParserEnd,
		zap.Int(LogFieldNodes, len(root.Children)),
		zap.Int(LogFieldIssues, len(issues)))
	return root, issues
}
