package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Detection is the outcome of a style scan. When both families are found
// the template is ambiguous and must be rejected by the caller.
type Detection struct {
	Style         Style
	FmtFound      bool
	MustacheFound bool
	FmtPos        Position // First FmtString-family pattern
	MustachePos   Position // First Mustache-family pattern
}

// Mixed reports whether both delimiter families were found.
func (d Detection) Mixed() bool {
	return d.FmtFound && d.MustacheFound
}

// Detect classifies source by scanning once for each style's delimiter
// patterns. The scan is deterministic: it walks bytes left to right and
// matches the longest recognizable pattern at each brace.
//
// Pattern families:
//   - Mustache: {{name}}, {{#name}}, {{^name}}, {{/name}}, {{{name}}},
//     {{!comment}}, and the empty tag {{}}.
//   - FmtString: {name}, {name:spec}, the empty placeholder {}, and doubled
//     {{ / }} pairs that do not form a valid Mustache tag.
//
// Stray single braces that match neither family belong to no family; a
// source containing only those is Literal and renders to itself.
func Detect(source string, logger *zap.Logger) Detection {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgDetectorStart, zap.Int(LogFieldSource, len(source)))

	var d Detection
	markFmt := func(offset int) {
		if !d.FmtFound {
			d.FmtFound = true
			d.FmtPos = PositionAt(source, offset)
		}
	}
	markMustache := func(offset int) {
		if !d.MustacheFound {
			d.MustacheFound = true
			d.MustachePos = PositionAt(source, offset)
		}
	}

	i := 0
	for i < len(source) {
		switch source[i] {
		case CharOpenBrace:
			if n := matchMustacheTag(source, i); n > 0 {
				markMustache(i)
				i += n
				continue
			}
			if strings.HasPrefix(source[i:], StrFmtOpenEscape) {
				markFmt(i)
				i += len(StrFmtOpenEscape)
				continue
			}
			if n := matchFmtPlaceholder(source, i); n > 0 {
				markFmt(i)
				i += n
				continue
			}
			i++
		case CharCloseBrace:
			if strings.HasPrefix(source[i:], StrFmtCloseEscape) {
				markFmt(i)
				i += len(StrFmtCloseEscape)
				continue
			}
			i++
		default:
			i++
		}
	}

	switch {
	case d.Mixed():
		// Style stays Literal; the caller must inspect Mixed() first.
	case d.MustacheFound:
		d.Style = StyleMustache
	case d.FmtFound:
		d.Style = StyleFmtString
	default:
		d.Style = StyleLiteral
	}

	logger.Debug(LogMsgDetectorEnd, zap.String(LogFieldStyle, d.Style.String()))
	return d
}

// matchMustacheTag returns the byte length of a valid Mustache tag starting
// at offset i, or 0 if none matches.
func matchMustacheTag(source string, i int) int {
	if !strings.HasPrefix(source[i:], StrMustacheOpen) {
		return 0
	}

	// Triple-brace raw variable: {{{name}}}
	if strings.HasPrefix(source[i:], StrTripleOpen) {
		j := scanTagBody(source, i+len(StrTripleOpen))
		if j < 0 || !strings.HasPrefix(source[j:], StrTripleClose) {
			return 0
		}
		name := strings.TrimSpace(source[i+len(StrTripleOpen) : j])
		if !isIdentName(name) {
			return 0
		}
		return j + len(StrTripleClose) - i
	}

	k := i + len(StrMustacheOpen)
	if k >= len(source) {
		return 0
	}

	// Comments may contain arbitrary text up to the closing delimiter.
	if source[k] == SigilComment {
		end := strings.Index(source[k:], StrMustacheClose)
		if end < 0 {
			return 0
		}
		return k + end + len(StrMustacheClose) - i
	}

	sigil := byte(0)
	switch source[k] {
	case SigilSection, SigilInvertedSection, SigilSectionClose:
		sigil = source[k]
		k++
	}

	j := scanTagBody(source, k)
	if j < 0 || !strings.HasPrefix(source[j:], StrMustacheClose) {
		return 0
	}
	name := strings.TrimSpace(source[k:j])
	if name == "" {
		// {{}} is a recognizable (if invalid) Mustache tag; section sigils
		// require a name to count as a tag at all.
		if sigil != 0 {
			return 0
		}
		return j + len(StrMustacheClose) - i
	}
	if !isIdentName(name) {
		return 0
	}
	return j + len(StrMustacheClose) - i
}

// scanTagBody advances past whitespace and identifier bytes starting at k
// and returns the index of the first byte that is neither, or -1 at
// end-of-input. A body with two separate words is rejected by the caller's
// TrimSpace + isIdentName validation.
func scanTagBody(source string, k int) int {
	for k < len(source) {
		ch := source[k]
		if isSpaceByte(ch) || isIdentByte(ch) {
			k++
			continue
		}
		return k
	}
	return -1
}

// matchFmtPlaceholder returns the byte length of an FmtString placeholder
// ({name}, {name:spec}, or the empty {}) starting at offset i, or 0.
func matchFmtPlaceholder(source string, i int) int {
	j := i + 1
	for j < len(source) && isSpaceByte(source[j]) {
		j++
	}
	for j < len(source) && isIdentByte(source[j]) {
		j++
	}
	for j < len(source) && isSpaceByte(source[j]) {
		j++
	}
	if j >= len(source) {
		return 0
	}
	switch source[j] {
	case CharCloseBrace:
		return j + 1 - i
	case CharColon:
		j++
		for j < len(source) {
			ch := source[j]
			if ch == CharCloseBrace {
				return j + 1 - i
			}
			if ch == CharOpenBrace || ch == CharNewline {
				return 0
			}
			j++
		}
		return 0
	default:
		return 0
	}
}
