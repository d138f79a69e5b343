package internal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatSpec is the parsed form of a placeholder's format spec. The
// recognized grammar is deliberately small:
//
//	[[fill]align][width][.precision]
//
// where align is one of '<', '^', '>'. Anything else fails to parse and
// surfaces as a render-time unknown-spec error rather than being
// interpreted open-endedly.
type FormatSpec struct {
	Fill      byte
	Align     byte // 0 means default: left for strings, right for numbers
	Width     int
	Precision int // -1 means unset
}

// Alignment constants
const (
	AlignLeft   = '<'
	AlignCenter = '^'
	AlignRight  = '>'
)

// DefaultFill is used when the spec names an alignment without a fill.
const DefaultFill = ' '

// ParseFormatSpec parses a raw format spec string. ok is false when the
// spec is not in the recognized set.
func ParseFormatSpec(spec string) (FormatSpec, bool) {
	fs := FormatSpec{Fill: DefaultFill, Precision: -1}
	if spec == "" {
		return fs, true
	}

	i := 0
	// A two-byte prefix where the second byte is an alignment means the
	// first byte is the fill.
	if len(spec) >= 2 && isAlignByte(spec[1]) {
		fs.Fill = spec[0]
		fs.Align = spec[1]
		i = 2
	} else if isAlignByte(spec[0]) {
		fs.Align = spec[0]
		i = 1
	}

	start := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		width, err := strconv.Atoi(spec[start:i])
		if err != nil {
			return fs, false
		}
		fs.Width = width
	}

	if i < len(spec) && spec[i] == CharDot {
		i++
		start = i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if i == start {
			return fs, false
		}
		precision, err := strconv.Atoi(spec[start:i])
		if err != nil {
			return fs, false
		}
		fs.Precision = precision
	}

	if i != len(spec) {
		return fs, false
	}
	return fs, true
}

// Apply formats an already-coerced value. For numeric values the precision
// fixes the decimal digit count; for strings it truncates. Width pads with
// the fill byte on the side the alignment dictates. Precision and width
// count runes, never bytes, so multi-byte values are never split
// mid-rune.
func (fs FormatSpec) Apply(value string, num float64, isNumber bool) string {
	if fs.Precision >= 0 {
		if isNumber {
			value = strconv.FormatFloat(num, 'f', fs.Precision, 64)
		} else if runes := []rune(value); len(runes) > fs.Precision {
			value = string(runes[:fs.Precision])
		}
	}

	length := utf8.RuneCountInString(value)
	if fs.Width <= length {
		return value
	}

	align := fs.Align
	if align == 0 {
		if isNumber {
			align = AlignRight
		} else {
			align = AlignLeft
		}
	}

	pad := fs.Width - length
	fill := strings.Repeat(string(fs.Fill), pad)
	switch align {
	case AlignRight:
		return fill + value
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(string(fs.Fill), left) + value + strings.Repeat(string(fs.Fill), pad-left)
	default:
		return value + fill
	}
}

func isAlignByte(ch byte) bool {
	return ch == AlignLeft || ch == AlignCenter || ch == AlignRight
}
