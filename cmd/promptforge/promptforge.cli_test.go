package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_NoArgsShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, AppName)
}

func TestCLI_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "frobnicate")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

func TestCLI_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, AppName)
	assert.Contains(t, stdout, AppVersion)
}

func TestCLI_RenderFromFile(t *testing.T) {
	path := writeTempFile(t, "Hello {name}!")

	code, stdout, stderr := runCLI(t, "",
		CmdNameRender, "-"+FlagTemplateShort, path,
		"-"+FlagVarsShort, `{"name":"Ada"}`)
	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "Hello Ada!", stdout)
}

func TestCLI_RenderFromStdin(t *testing.T) {
	code, stdout, _ := runCLI(t, "Hi {{who}}",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagVarsShort, `{"who":"there"}`)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "Hi there", stdout)
}

func TestCLI_RenderVarsFile(t *testing.T) {
	tmplPath := writeTempFile(t, "{greeting} {name}")
	varsPath := filepath.Join(t.TempDir(), "vars.json")
	require.NoError(t, os.WriteFile(varsPath, []byte(`{"greeting":"hi","name":"Ada"}`), 0o644))

	code, stdout, _ := runCLI(t, "",
		CmdNameRender, "-"+FlagTemplateShort, tmplPath,
		"-"+FlagVarsFileShort, varsPath)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "hi Ada", stdout)
}

func TestCLI_RenderToFile(t *testing.T) {
	tmplPath := writeTempFile(t, "out {x}")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	code, stdout, _ := runCLI(t, "",
		CmdNameRender, "-"+FlagTemplateShort, tmplPath,
		"-"+FlagVarsShort, `{"x":"1"}`,
		"-"+FlagOutputShort, outPath)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "out 1", string(data))
}

func TestCLI_RenderStrictMissingVariable(t *testing.T) {
	code, _, stderr := runCLI(t, "Hello {name}",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin)
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, ErrMsgRenderFailed)
}

func TestCLI_RenderLenient(t *testing.T) {
	code, stdout, stderr := runCLI(t, "Hello {name}!",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagLenient)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "Hello !", stdout)
	assert.Contains(t, stderr, "name")
}

func TestCLI_RenderForcedStyle(t *testing.T) {
	code, stdout, _ := runCLI(t, "Use {{ and }}",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagStyle, "fmtstring")
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "Use { and }", stdout)
}

func TestCLI_RenderInvalidStyle(t *testing.T) {
	code, _, stderr := runCLI(t, "x",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagStyle, "jinja")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidStyle)
}

func TestCLI_RenderMissingTemplateFlag(t *testing.T) {
	code, _, _ := runCLI(t, "", CmdNameRender)
	assert.Equal(t, ExitCodeUsageError, code)
}

func TestCLI_RenderBadVarsJSON(t *testing.T) {
	code, _, stderr := runCLI(t, "x",
		CmdNameRender, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagVarsShort, "{not json")
	assert.Equal(t, ExitCodeInputError, code)
	assert.Contains(t, stderr, ErrMsgInvalidJSON)
}

func TestCLI_Detect(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"fmtstring", "Hello {name}", "fmtstring"},
		{"mustache", "Hello {{name}}", "mustache"},
		{"literal", "no tags here", "literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, tt.source,
				CmdNameDetect, "-"+FlagTemplateShort, InputSourceStdin)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestCLI_DetectMixed(t *testing.T) {
	code, _, stderr := runCLI(t, "{a} and {{b}}",
		CmdNameDetect, "-"+FlagTemplateShort, InputSourceStdin)
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stderr, ErrMsgDetectFailed)
}

func TestCLI_ValidateOK(t *testing.T) {
	code, stdout, _ := runCLI(t, "Hello {name} and {other}",
		CmdNameValidate, "-"+FlagTemplateShort, InputSourceStdin)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "fmtstring")
	assert.Contains(t, stdout, "2")
}

func TestCLI_ValidateInvalid(t *testing.T) {
	code, _, stderr := runCLI(t, "{} and } and {ok}",
		CmdNameValidate, "-"+FlagTemplateShort, InputSourceStdin)
	assert.Equal(t, ExitCodeValidationError, code)
	// One line per parse error, each with its position.
	assert.Contains(t, stderr, "line 1, column 1")
	assert.Contains(t, stderr, "line 1, column 8")
}

func TestCLI_ValidateQuiet(t *testing.T) {
	code, stdout, stderr := runCLI(t, "{bad",
		CmdNameValidate, "-"+FlagTemplateShort, InputSourceStdin,
		"-"+FlagQuietShort)
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestCLI_ReadMissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "",
		CmdNameRender, "-"+FlagTemplateShort, "/nonexistent/template.txt")
	assert.Equal(t, ExitCodeInputError, code)
	assert.Contains(t, stderr, ErrMsgReadFileFailed)
}
