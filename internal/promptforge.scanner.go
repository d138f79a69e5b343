package internal

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
)

// RawTokenType identifies the kind of a scanned token.
type RawTokenType int

// Raw token type constants
const (
	RawTokenText RawTokenType = iota
	RawTokenTag
)

// RawToken is a literal run or a tag body produced by a TagScanner.
// For tags, Content is the exact text between the delimiters (whitespace
// preserved) and Offset is the byte offset of the opening delimiter.
type RawToken struct {
	Type    RawTokenType
	Content string
	Offset  int
}

// TagScanner splits Mustache-style source into an ordered sequence of
// literal runs and raw tags. Any conforming engine can be substituted; the
// Mustache parser owns all tag interpretation and validation above this
// interface.
type TagScanner interface {
	Scan(source string) ([]RawToken, error)
}

// ScanError reports a low-level scan failure, such as an opening delimiter
// with no matching close before end-of-input.
type ScanError struct {
	Message string
	Offset  int
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return e.Message
}

// Scan error message constants
const (
	ErrMsgUnterminatedTag = "unterminated tag"
)

// FastTemplateScanner implements TagScanner on top of valyala/fasttemplate.
// The engine splits the source into text runs and tag bodies; byte offsets
// are reconstructed from the run lengths, which is exact because the engine
// emits every byte of the source exactly once.
type FastTemplateScanner struct {
	startTag string
	endTag   string
	logger   *zap.Logger
}

// NewFastTemplateScanner creates a scanner with standard double-brace
// delimiters.
func NewFastTemplateScanner(logger *zap.Logger) *FastTemplateScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FastTemplateScanner{
		startTag: StrMustacheOpen,
		endTag:   StrMustacheClose,
		logger:   logger,
	}
}

// Scan tokenizes source into text and tag tokens.
func (s *FastTemplateScanner) Scan(source string) ([]RawToken, error) {
	s.logger.Debug(LogMsgScannerStart, zap.Int(LogFieldSource, len(source)))

	t, err := fasttemplate.NewTemplate(source, s.startTag, s.endTag)
	if err != nil {
		return nil, &ScanError{
			Message: ErrMsgUnterminatedTag,
			Offset:  unterminatedTagOffset(source, s.startTag, s.endTag),
		}
	}

	rec := &tokenRecorder{}
	if _, err := t.ExecuteFunc(rec, rec.onTag(s.startTag, s.endTag)); err != nil {
		return nil, &ScanError{Message: err.Error(), Offset: rec.offset}
	}

	s.logger.Debug(LogMsgScannerEnd, zap.Int(LogFieldTokens, len(rec.tokens)))
	return rec.tokens, nil
}

// tokenRecorder captures the engine's interleaved text writes and tag
// callbacks in order, tracking source offsets as it goes.
type tokenRecorder struct {
	tokens []RawToken
	offset int
}

// Write records a literal run. Adjacent runs are merged.
func (r *tokenRecorder) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := len(r.tokens); n > 0 && r.tokens[n-1].Type == RawTokenText {
		r.tokens[n-1].Content += string(p)
	} else {
		r.tokens = append(r.tokens, RawToken{Type: RawTokenText, Content: string(p), Offset: r.offset})
	}
	r.offset += len(p)
	return len(p), nil
}

// onTag returns the fasttemplate callback that records a tag token.
func (r *tokenRecorder) onTag(startTag, endTag string) fasttemplate.TagFunc {
	return func(w io.Writer, tag string) (int, error) {
		r.tokens = append(r.tokens, RawToken{Type: RawTokenTag, Content: tag, Offset: r.offset})
		r.offset += len(startTag) + len(tag) + len(endTag)
		return 0, nil
	}
}

// unterminatedTagOffset finds the byte offset of the first opening
// delimiter with no matching close.
func unterminatedTagOffset(source, startTag, endTag string) int {
	i := 0
	for {
		open := strings.Index(source[i:], startTag)
		if open < 0 {
			return len(source)
		}
		open += i
		closeIdx := strings.Index(source[open+len(startTag):], endTag)
		if closeIdx < 0 {
			return open
		}
		i = open + len(startTag) + closeIdx + len(endTag)
	}
}
