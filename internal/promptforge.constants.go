package internal

// NodeType identifies AST node types
type NodeType int

// Node type constants
const (
	NodeTypeRoot NodeType = iota
	NodeTypeText
	NodeTypePlaceholder
	NodeTypeVariable
	NodeTypeSection
)

// Node type string names for debugging
const (
	NodeTypeNameRoot        = "ROOT"
	NodeTypeNameText        = "TEXT"
	NodeTypeNamePlaceholder = "PLACEHOLDER"
	NodeTypeNameVariable    = "VARIABLE"
	NodeTypeNameSection     = "SECTION"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeRoot:
		return NodeTypeNameRoot
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypePlaceholder:
		return NodeTypeNamePlaceholder
	case NodeTypeVariable:
		return NodeTypeNameVariable
	case NodeTypeSection:
		return NodeTypeNameSection
	default:
		return NodeTypeNameRoot
	}
}

// Style identifies the placeholder syntax a template uses.
// Mirrors the public promptforge.Style values.
type Style int

// Style constants
const (
	StyleLiteral Style = iota
	StyleFmtString
	StyleMustache
)

// Style string names
const (
	StyleNameLiteral   = "literal"
	StyleNameFmtString = "fmtstring"
	StyleNameMustache  = "mustache"
)

// String returns the string representation of the style
func (s Style) String() string {
	switch s {
	case StyleFmtString:
		return StyleNameFmtString
	case StyleMustache:
		return StyleNameMustache
	default:
		return StyleNameLiteral
	}
}

// Character constants
const (
	CharOpenBrace   = '{'
	CharCloseBrace  = '}'
	CharColon       = ':'
	CharDot         = '.'
	CharUnderscore  = '_'
	CharHyphen      = '-'
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
)

// Mustache tag sigil constants
const (
	SigilSection         = '#'
	SigilInvertedSection = '^'
	SigilSectionClose    = '/'
	SigilComment         = '!'
	SigilUnescaped       = '{'
)

// String constants for delimiter matching
const (
	StrFmtOpenEscape   = "{{"
	StrFmtCloseEscape  = "}}"
	StrMustacheOpen    = "{{"
	StrMustacheClose   = "}}"
	StrTripleOpen      = "{{{"
	StrTripleClose     = "}}}"
	StrImplicitIter    = "."
	StrOpenBrace       = "{"
	StrCloseBrace      = "}"
)

// Log message constants
const (
	LogMsgDetectorStart       = "starting style detection"
	LogMsgDetectorEnd         = "style detection complete"
	LogMsgFmtParserCreated    = "fmtstring parser created"
	LogMsgFmtParserStart      = "starting fmtstring parse"
	LogMsgFmtParserEnd        = "fmtstring parse complete"
	LogMsgMustParserCreated   = "mustache parser created"
	LogMsgMustParserStart     = "starting mustache parse"
	LogMsgMustParserEnd       = "mustache parse complete"
	LogMsgScannerStart        = "starting tag scan"
	LogMsgScannerEnd          = "tag scan complete"
	LogMsgSectionOpened       = "section opened"
	LogMsgSectionClosed       = "section closed"
)

// Log field names
const (
	LogFieldSource  = "source_length"
	LogFieldStyle   = "style"
	LogFieldTokens  = "token_count"
	LogFieldNodes   = "node_count"
	LogFieldIssues  = "issue_count"
	LogFieldSection = "section"
)

// Display truncation limits for node String() methods
const (
	MaxStringDisplayLength = 40
	TruncatedStringLength  = 37
	TruncationSuffix       = "..."
)

// String format constants for AST String() methods
const (
	FmtNodeIndex = "  [%d] %s\n"
)

// isIdentByte reports whether ch may appear in a placeholder or tag name.
func isIdentByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == CharUnderscore || ch == CharHyphen || ch == CharDot
}

// isIdentName reports whether s is a valid placeholder or tag name.
// The implicit iterator "." is valid on its own.
func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	if s == StrImplicitIter {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

// isSpaceByte reports whether ch is insignificant whitespace inside a tag.
func isSpaceByte(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}
