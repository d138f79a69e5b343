package internal

import "fmt"

// IssueKind classifies a parse issue. The public package maps each kind
// onto its typed error taxonomy.
type IssueKind int

// Issue kind constants
const (
	IssueUnbalancedBrace IssueKind = iota
	IssueEmptyPlaceholder
	IssueMixedFormat
	IssueUnclosedSection
	IssueSectionMismatch
)

// Issue kind string names
const (
	IssueNameUnbalancedBrace  = "unbalanced brace"
	IssueNameEmptyPlaceholder = "empty placeholder"
	IssueNameMixedFormat      = "mixed format"
	IssueNameUnclosedSection  = "unclosed section"
	IssueNameSectionMismatch  = "section mismatch"
)

// String returns the string representation of the issue kind
func (k IssueKind) String() string {
	switch k {
	case IssueEmptyPlaceholder:
		return IssueNameEmptyPlaceholder
	case IssueMixedFormat:
		return IssueNameMixedFormat
	case IssueUnclosedSection:
		return IssueNameUnclosedSection
	case IssueSectionMismatch:
		return IssueNameSectionMismatch
	default:
		return IssueNameUnbalancedBrace
	}
}

// Issue is a positioned parse problem. Parsers accumulate issues and keep
// scanning where the grammar allows instead of stopping at the first one.
type Issue struct {
	Kind     IssueKind
	Position Position
	Name     string   // Section or placeholder name, when relevant
	Expected string   // Expected closing name for mismatched sections
	Found    string   // Found closing name for mismatched sections
	Second   Position // Position of the second style family for mixed format
}

// Error implements the error interface so issues can travel as errors
// inside the internal package.
func (i *Issue) Error() string {
	switch i.Kind {
	case IssueSectionMismatch:
		return fmt.Sprintf("%s: expected %q, found %q at %s", i.Kind, i.Expected, i.Found, i.Position)
	case IssueUnclosedSection:
		return fmt.Sprintf("%s: %q opened at %s", i.Kind, i.Name, i.Position)
	default:
		return fmt.Sprintf("%s at %s", i.Kind, i.Position)
	}
}
