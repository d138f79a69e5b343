package internal

import (
	"strings"

	"go.uber.org/zap"
)

// FmtStringParser turns FmtString-style source into an ordered sequence of
// literal and placeholder nodes. Parsing is single-pass and linear in the
// source length, and accumulates every detectable issue instead of stopping
// at the first one.
type FmtStringParser struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewFmtStringParser creates a new FmtString parser.
func NewFmtStringParser(source string, logger *zap.Logger) *FmtStringParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgFmtParserCreated, zap.Int(LogFieldSource, len(source)))
	return &FmtStringParser{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Parse processes the source and returns the node sequence together with
// any accumulated issues. The returned root is only valid when the issue
// slice is empty.
func (p *FmtStringParser) Parse() (*RootNode, []*Issue) {
	p.logger.Debug(LogMsgFmtParserStart)

	root := &RootNode{}
	var issues []*Issue

	for !p.isAtEnd() {
		// Doubled braces are escapes for a single literal brace.
		if p.matchStr(StrFmtOpenEscape) {
			pos := p.currentPosition()
			p.advanceN(len(StrFmtOpenEscape))
			root.Children = append(root.Children, NewEscapedTextNode(StrOpenBrace, StrFmtOpenEscape, pos))
			continue
		}
		if p.matchStr(StrFmtCloseEscape) {
			pos := p.currentPosition()
			p.advanceN(len(StrFmtCloseEscape))
			root.Children = append(root.Children, NewEscapedTextNode(StrCloseBrace, StrFmtCloseEscape, pos))
			continue
		}

		switch p.peek() {
		case CharOpenBrace:
			node, issue := p.scanPlaceholder()
			if issue != nil {
				issues = append(issues, issue)
				continue
			}
			root.Children = append(root.Children, node)
		case CharCloseBrace:
			// A standalone close brace outside an escape pair.
			issues = append(issues, &Issue{Kind: IssueUnbalancedBrace, Position: p.currentPosition()})
			p.advance()
		default:
			root.Children = append(root.Children, p.scanText())
		}
	}

	p.logger.Debug(LogMsgFmtParserEnd,
		zap.Int(LogFieldNodes, len(root.Children)),
		zap.Int(LogFieldIssues, len(issues)))
	return root, issues
}

// scanText scans literal text until the next brace of either kind.
func (p *FmtStringParser) scanText() *TextNode {
	startPos := p.currentPosition()
	var sb strings.Builder
	for !p.isAtEnd() {
		ch := p.peek()
		if ch == CharOpenBrace || ch == CharCloseBrace {
			break
		}
		sb.WriteByte(p.advance())
	}
	return NewTextNode(sb.String(), startPos)
}

// scanPlaceholder scans a '{' identifier (':' format_spec)? '}' placeholder.
// On failure the position is left at the offending byte so scanning can
// continue and later issues are still found.
func (p *FmtStringParser) scanPlaceholder() (*PlaceholderNode, *Issue) {
	openPos := p.currentPosition()
	p.advance() // consume '{'

	var name, spec string
	inSpec := false
	var nameStart = p.pos
	var nameEnd = -1
	var specStart = -1

	for !p.isAtEnd() {
		ch := p.peek()

		// Another unescaped open brace before the close: the first open
		// brace is unmatched.
		if ch == CharOpenBrace {
			return nil, &Issue{Kind: IssueUnbalancedBrace, Position: openPos}
		}

		if ch == CharCloseBrace {
			if inSpec {
				spec = p.source[specStart:p.pos]
			} else {
				nameEnd = p.pos
			}
			p.advance() // consume '}'
			if nameEnd < 0 {
				nameEnd = nameStart
			}
			name = strings.TrimSpace(p.source[nameStart:nameEnd])
			raw := p.source[openPos.Offset:p.pos]

			if name == "" {
				return nil, &Issue{Kind: IssueEmptyPlaceholder, Position: openPos}
			}
			if !isIdentName(name) {
				// Not a placeholder after all; the open brace is stray.
				return nil, &Issue{Kind: IssueUnbalancedBrace, Position: openPos}
			}
			return NewPlaceholderNode(name, spec, raw, openPos), nil
		}

		if ch == CharColon && !inSpec {
			nameEnd = p.pos
			inSpec = true
			p.advance()
			specStart = p.pos
			continue
		}

		p.advance()
	}

	return nil, &Issue{Kind: IssueUnbalancedBrace, Position: openPos}
}

// Helper methods

// currentPosition returns the current position
func (p *FmtStringParser) currentPosition() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.column}
}

// isAtEnd returns true if we've reached the end of source
func (p *FmtStringParser) isAtEnd() bool {
	return p.pos >= len(p.source)
}

// peek returns the current character without advancing
func (p *FmtStringParser) peek() byte {
	if p.isAtEnd() {
		return 0
	}
	return p.source[p.pos]
}

// advance consumes and returns the current character
func (p *FmtStringParser) advance() byte {
	if p.isAtEnd() {
		return 0
	}
	ch := p.source[p.pos]
	p.pos++
	if ch == CharNewline {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	return ch
}

// advanceN advances by n characters
func (p *FmtStringParser) advanceN(n int) {
	for i := 0; i < n && !p.isAtEnd(); i++ {
		p.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (p *FmtStringParser) matchStr(s string) bool {
	return strings.HasPrefix(p.source[p.pos:], s)
}
