package promptforge

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/ishanwen-byte/promptforge/internal"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// positionFromInternal converts an internal parser position.
func positionFromInternal(pos internal.Position) Position {
	return Position{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

// withPosition attaches positional metadata to an error.
func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset)).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
}

// NewUnbalancedBraceError creates an error for an unmatched brace.
func NewUnbalancedBraceError(pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnbalancedBrace).
		WithMetadata(MetaKeyKind, ErrKindUnbalancedBrace), pos)
}

// NewEmptyPlaceholderError creates an error for an empty placeholder or tag name.
func NewEmptyPlaceholderError(pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgEmptyPlaceholder).
		WithMetadata(MetaKeyKind, ErrKindEmptyPlaceholder), pos)
}

// NewMixedFormatError creates an error for a template containing both
// delimiter families. Carries the byte offset of the first occurrence of
// each family.
func NewMixedFormatError(fmtPos, mustachePos Position) error {
	first := fmtPos
	if mustachePos.Offset < first.Offset {
		first = mustachePos
	}
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgMixedFormat).
		WithMetadata(MetaKeyKind, ErrKindMixedFormat).
		WithMetadata(MetaKeyFmtOffset, strconv.Itoa(fmtPos.Offset)).
		WithMetadata(MetaKeyMustOffset, strconv.Itoa(mustachePos.Offset)), first)
}

// NewUnclosedSectionError creates an error for a section opened but never
// closed before end-of-input.
func NewUnclosedSectionError(name string, openPos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnclosedSection).
		WithMetadata(MetaKeyKind, ErrKindUnclosedSection).
		WithMetadata(MetaKeySection, name), openPos)
}

// NewSectionMismatchError creates an error for a closing tag that does not
// match the innermost open section.
func NewSectionMismatchError(expected, found string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgSectionMismatch).
		WithMetadata(MetaKeyKind, ErrKindSectionMismatch).
		WithMetadata(MetaKeyExpected, expected).
		WithMetadata(MetaKeyFound, found), pos)
}

// NewMissingVariableError creates an error for a variable absent from the
// render context under the strict policy.
func NewMissingVariableError(name string, pos Position) error {
	return withPosition(cuserr.NewNotFoundError(MetaKeyVariable, ErrMsgMissingVariable).
		WithMetadata(MetaKeyKind, ErrKindMissingVariable).
		WithMetadata(MetaKeyVariable, name), pos)
}

// NewTypeCoercionError creates an error for a list or map bound to a
// scalar substitution point.
func NewTypeCoercionError(name string, kind ValueKind, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeRender, ErrMsgTypeCoercion).
		WithMetadata(MetaKeyKind, ErrKindTypeCoercion).
		WithMetadata(MetaKeyVariable, name).
		WithMetadata(MetaKeyValueKind, kind.String()), pos)
}

// NewFormatSpecError creates an error for a format spec outside the
// recognized set.
func NewFormatSpecError(spec string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeRender, ErrMsgFormatSpec).
		WithMetadata(MetaKeyKind, ErrKindFormatSpec).
		WithMetadata(MetaKeySpec, spec), pos)
}

// NewOutputTooLargeError creates an error for a render that exceeded
// the configured output size limit.
func NewOutputTooLargeError(limit int) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgOutputTooLarge).
		WithMetadata(MetaKeyKind, ErrKindOutputTooLarge).
		WithMetadata(MetaKeyLimit, strconv.Itoa(limit))
}

// NewUnsupportedValueError creates an error for a Go value outside the
// JSON-compatible value model.
func NewUnsupportedValueError(goType string) error {
	return cuserr.NewValidationError(ErrCodeValue, ErrMsgUnsupportedValue).
		WithMetadata(MetaKeyGoType, goType)
}

// ErrorKind returns the machine-readable kind of a taxonomy error, or ""
// for errors outside the taxonomy.
func ErrorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, _ := customErr.GetMetadata(MetaKeyKind)
	return kind
}

// ErrorPosition returns the source position carried by a taxonomy error.
// ok is false when the error carries no position.
func ErrorPosition(err error) (Position, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return Position{}, false
	}
	offset, ok := customErr.GetMetadata(MetaKeyOffset)
	if !ok {
		return Position{}, false
	}
	line, _ := customErr.GetMetadata(MetaKeyLine)
	column, _ := customErr.GetMetadata(MetaKeyColumn)
	pos := Position{}
	pos.Offset, _ = strconv.Atoi(offset)
	pos.Line, _ = strconv.Atoi(line)
	pos.Column, _ = strconv.Atoi(column)
	return pos, true
}

// ParseErrorList is the multi-valued parse failure: every problem the
// parser could detect in one pass, in source order.
type ParseErrorList struct {
	Errors []error
}

// Error implements the error interface by joining all messages.
func (l *ParseErrorList) Error() string {
	if len(l.Errors) == 1 {
		return ErrMsgParseFailed + ": " + l.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(ErrMsgParseFailed)
	sb.WriteString(" (")
	sb.WriteString(strconv.Itoa(len(l.Errors)))
	sb.WriteString(" errors)")
	for _, err := range l.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the individual errors for errors.Is / errors.As matching.
func (l *ParseErrorList) Unwrap() []error {
	return l.Errors
}

// NewInvalidRoleError creates an error for a message role outside the
// known set.
func NewInvalidRoleError(role string) error {
	return cuserr.NewValidationError(ErrCodeChat, ErrMsgInvalidRole).
		WithMetadata(MetaKeyRole, role)
}

// NewPlaceholderNotListError creates an error for a history placeholder
// bound to a value that is neither a message list nor a JSON string.
func NewPlaceholderNotListError(variable string, kind ValueKind) error {
	return cuserr.NewValidationError(ErrCodeChat, ErrMsgPlaceholderNotList).
		WithMetadata(MetaKeyPlaceholder, variable).
		WithMetadata(MetaKeyValueKind, kind.String())
}

// NewPlaceholderBadJSONError creates an error for unparseable JSON
// message history.
func NewPlaceholderBadJSONError(variable string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeChat, ErrMsgPlaceholderBadJSON).
		WithMetadata(MetaKeyPlaceholder, variable)
}

// NewPlaceholderBadEntryError creates an error for a history list entry
// that is not a role/content message.
func NewPlaceholderBadEntryError(variable string, index int) error {
	return cuserr.NewValidationError(ErrCodeChat, ErrMsgPlaceholderBadEntry).
		WithMetadata(MetaKeyPlaceholder, variable).
		WithMetadata(MetaKeyOffset, strconv.Itoa(index))
}

// NewFewShotConfigError creates an error for an invalid few-shot
// template configuration.
func NewFewShotConfigError(cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeChat, ErrMsgFewShotConfigInvalid)
	}
	return cuserr.WrapStdError(cause, ErrCodeChat, ErrMsgFewShotConfigInvalid)
}

// NewTemplateNotFoundError creates an error for a missing stored template.
func NewTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyName, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewTemplateVersionNotFoundError creates an error for a missing stored
// template version.
func NewTemplateVersionNotFoundError(name string, version int) error {
	return cuserr.NewNotFoundError(MetaKeyName, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyName, name).
		WithMetadata(MetaKeyVersion, strconv.Itoa(version))
}

// NewStorageClosedError creates an error for operations after Close.
func NewStorageClosedError(driver string) error {
	return cuserr.NewInternalError(ErrMsgStorageClosed, nil).
		WithMetadata(MetaKeyDriver, driver)
}

// NewStorageDriverNotFoundError creates an error for an unregistered
// driver name.
func NewStorageDriverNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgStorageDriverUnknown).
		WithMetadata(MetaKeyDriver, name)
}

// NewStorageEmptyNameError creates an error for saving a template with
// no name.
func NewStorageEmptyNameError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStorageEmptyName)
}

// NewStorageInternalError wraps a backend failure.
func NewStorageInternalError(msg string, cause error) error {
	if cause == nil {
		return cuserr.NewInternalError(msg, nil)
	}
	return cuserr.WrapStdError(cause, ErrCodeStorage, msg)
}

// IsNotFound reports whether err is any of the not-found taxonomy errors.
func IsNotFound(err error) bool {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	return errors.Is(err, cuserr.ErrNotFound)
}

// errorFromIssue maps an internal parse issue onto the typed taxonomy.
func errorFromIssue(issue *internal.Issue) error {
	pos := positionFromInternal(issue.Position)
	switch issue.Kind {
	case internal.IssueEmptyPlaceholder:
		return NewEmptyPlaceholderError(pos)
	case internal.IssueUnclosedSection:
		return NewUnclosedSectionError(issue.Name, pos)
	case internal.IssueSectionMismatch:
		return NewSectionMismatchError(issue.Expected, issue.Found, pos)
	default:
		return NewUnbalancedBraceError(pos)
	}
}

// parseErrorsFromIssues maps accumulated internal issues onto a
// ParseErrorList, or nil when there are none.
func parseErrorsFromIssues(issues []*internal.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	list := &ParseErrorList{Errors: make([]error, 0, len(issues))}
	for _, issue := range issues {
		list.Errors = append(list.Errors, errorFromIssue(issue))
	}
	return list
}
