package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameDetect   = "detect"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagVars     = "vars"
	FlagVarsFile = "vars-file"
	FlagOutput   = "output"
	FlagStyle    = "style"
	FlagLenient  = "lenient"
	FlagQuiet    = "quiet"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagVarsShort     = "d"
	FlagVarsFileShort = "f"
	FlagOutputShort   = "o"
	FlagQuietShort    = "q"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// FilePermissions for output files
const FilePermissions = 0o644

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand  = "unknown command"
	ErrMsgMissingTemplate = "template source required"
	ErrMsgInvalidJSON     = "invalid JSON variables"
	ErrMsgInvalidStyle    = "invalid style"
	ErrMsgReadFileFailed  = "failed to read file"
	ErrMsgWriteFailed     = "failed to write output"
	ErrMsgRenderFailed    = "render failed"
	ErrMsgDetectFailed    = "detection failed"
)

// Output format strings
const (
	FmtErrorWithCause  = "Error: %s: %v\n"
	FmtErrorWithDetail = "Error: %s: %s\n"
	FmtValidOutput     = "OK: %s template, %d variable(s)\n"
	FmtMissingWarning  = "warning: missing variable: %s\n"
)

// Version information
const (
	AppName    = "promptforge"
	AppVersion = "1.0.0"
)

// Help text
const (
	HelpMainUsage = `promptforge - prompt template parsing, validation and rendering

Usage:
  promptforge <command> [flags]

Commands:
  render     Render a template with variables
  detect     Detect a template's placeholder style
  validate   Check a template for syntax errors
  version    Print version information
  help       Show help for a command

Run 'promptforge help <command>' for command details.`

	HelpRenderUsage = `Usage: promptforge render -t <file|-> [flags]

Render a template with variables.

Flags:
  -t, -template <path>   Template file, or - for stdin (required)
  -d, -vars <json>       Variables as a JSON object
  -f, -vars-file <path>  Variables from a JSON file
  -o, -output <path>     Output file, - for stdout (default -)
      -style <name>      Force style: fmtstring or mustache
      -lenient           Substitute empty string for missing variables

Examples:
  promptforge render -t prompt.txt -d '{"name":"Alice"}'
  echo 'Hi {name}' | promptforge render -t - -d '{"name":"Bob"}'`

	HelpDetectUsage = `Usage: promptforge detect -t <file|->

Print the detected placeholder style: literal, fmtstring or mustache.
Mixed-style templates exit with status 3.`

	HelpValidateUsage = `Usage: promptforge validate -t <file|-> [flags]

Check a template for syntax errors. Prints every error found, with
line and column. Exits 0 when valid, 3 when invalid.

Flags:
  -t, -template <path>  Template file, or - for stdin (required)
      -style <name>     Force style: fmtstring or mustache
  -q, -quiet            Suppress output, use exit code only`

	HelpVersionUsage = `Usage: promptforge version

Print version information.`

	HelpHelpUsage = `Usage: promptforge help [command]

Show help for a command.`
)
