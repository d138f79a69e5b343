package promptforge

import "time"

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgParseFailed      = "template parsing failed"
	ErrMsgUnbalancedBrace  = "unbalanced brace"
	ErrMsgEmptyPlaceholder = "placeholder name cannot be empty"
	ErrMsgMixedFormat      = "template mixes FmtString and Mustache delimiters"
	ErrMsgUnclosedSection  = "section opened but never closed"
	ErrMsgSectionMismatch  = "closing tag does not match innermost open section"

	// Render errors
	ErrMsgMissingVariable = "variable not found in context"
	ErrMsgTypeCoercion    = "value cannot be coerced to a scalar"
	ErrMsgFormatSpec      = "unrecognized format spec"
	ErrMsgOutputTooLarge  = "rendered output exceeds the size limit"

	// Value construction errors
	ErrMsgUnsupportedValue = "unsupported value type"

	// Chat template errors
	ErrMsgInvalidRole          = "invalid message role"
	ErrMsgPlaceholderNotList   = "placeholder variable is not a message list"
	ErrMsgPlaceholderBadJSON   = "placeholder history is not valid JSON"
	ErrMsgPlaceholderBadEntry  = "placeholder history entry is not a message"
	ErrMsgFewShotConfigInvalid = "few-shot template config is invalid"

	// Storage errors
	ErrMsgTemplateNotFound      = "template not found"
	ErrMsgStorageClosed         = "storage is closed"
	ErrMsgStorageDriverUnknown  = "unknown storage driver"
	ErrMsgStorageDriverExists   = "storage driver already registered"
	ErrMsgStorageEmptyName      = "template name cannot be empty"
	ErrMsgPostgresEmptyConnStr  = "postgres connection string cannot be empty"
	ErrMsgPostgresConnectFailed = "postgres connection failed"
	ErrMsgPostgresQueryFailed   = "postgres query failed"
	ErrMsgPostgresMigrateFailed = "postgres migration failed"
	ErrMsgFilesystemIO          = "filesystem storage operation failed"
	ErrMsgRecordDecodeFailed    = "stored template record could not be decoded"
)

// Error code constants for categorization
const (
	ErrCodeParse   = "PROMPTFORGE_PARSE"
	ErrCodeRender  = "PROMPTFORGE_RENDER"
	ErrCodeValue   = "PROMPTFORGE_VALUE"
	ErrCodeChat    = "PROMPTFORGE_CHAT"
	ErrCodeStorage = "PROMPTFORGE_STORAGE"
)

// Machine-readable error kinds, attached as metadata to every taxonomy
// error. Stable across releases.
const (
	ErrKindUnbalancedBrace  = "unbalanced_brace"
	ErrKindEmptyPlaceholder = "empty_placeholder"
	ErrKindMixedFormat      = "mixed_format"
	ErrKindUnclosedSection  = "unclosed_section"
	ErrKindSectionMismatch  = "section_mismatch"
	ErrKindMissingVariable  = "missing_variable"
	ErrKindTypeCoercion     = "type_coercion"
	ErrKindFormatSpec       = "format_spec"
	ErrKindOutputTooLarge   = "output_too_large"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind        = "kind"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeyVariable    = "variable"
	MetaKeySection     = "section"
	MetaKeyExpected    = "expected"
	MetaKeyFound       = "found"
	MetaKeySpec        = "spec"
	MetaKeyValueKind   = "value_kind"
	MetaKeyFmtOffset   = "fmtstring_offset"
	MetaKeyMustOffset  = "mustache_offset"
	MetaKeyRole        = "role"
	MetaKeyName        = "name"
	MetaKeyDriver      = "driver"
	MetaKeyVersion     = "version"
	MetaKeyGoType      = "go_type"
	MetaKeyPlaceholder = "placeholder"
	MetaKeyLimit       = "limit"
)

// Log message constants
const (
	LogMsgTemplateParsed  = "template parsed"
	LogMsgRenderStart     = "render started"
	LogMsgRenderComplete  = "render completed"
	LogMsgMissingVariable = "variable missing during lenient render"
	LogMsgChatFormatted   = "chat messages formatted"
	LogMsgTemplateSaved   = "template saved"
	LogMsgTemplateDeleted = "template deleted"
)

// Log field name constants
const (
	LogFieldStyle     = "style"
	LogFieldSourceLen = "source_len"
	LogFieldPolicy    = "policy"
	LogFieldVariable  = "variable"
	LogFieldOutputLen = "output_len"
	LogFieldMissing   = "missing"
	LogFieldMessages  = "messages"
	LogFieldName      = "name"
	LogFieldVersion   = "version"
)

// Style string names
const (
	StyleNameLiteral   = "literal"
	StyleNameFmtString = "fmtstring"
	StyleNameMustache  = "mustache"
)

// MissingVariablePolicy string names
const (
	PolicyNameStrict  = "strict"
	PolicyNameLenient = "lenient"
)

// Message role constants
const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleTool   Role = "tool"
)

// Role alias constants accepted by ParseRole
const (
	RoleAliasUser      = "user"
	RoleAliasAssistant = "assistant"
)

// Message formatting constants
const (
	MessageRoleSeparator = ": "
	MessageFieldRole     = "role"
	MessageFieldContent  = "content"
)

// DefaultFewShotSeparator joins few-shot blocks unless overridden.
const DefaultFewShotSeparator = "\n\n"

// MessagesPlaceholder defaults
const (
	DefaultPlaceholderLimit = 100
)

// Implicit iterator name for Mustache sections
const (
	ImplicitIteratorName = "."
)

// Path separator for dotted variable lookups
const PathSeparator = "."

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemRecordSuffix    = ".yaml"
	FilesystemVersionPrefix   = "v"
	InvalidNameChars          = "/\\\x00"
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "promptforge_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)
