package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/ishanwen-byte/promptforge"
)

// renderCmdConfig holds parsed render command configuration
type renderCmdConfig struct {
	templatePath string
	varsJSON     string
	varsFilePath string
	outputPath   string
	style        string
	lenient      bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	vars, err := loadVars(cfg.varsJSON, cfg.varsFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	parseOpts, err := styleOptions(cfg.style)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidStyle, cfg.style)
		return ExitCodeUsageError
	}

	t, err := promptforge.Parse(string(source), parseOpts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeValidationError
	}

	ctx, err := promptforge.Vars(vars)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	var renderOpts []promptforge.RenderOption
	if cfg.lenient {
		renderOpts = append(renderOpts,
			promptforge.WithMissingVariablePolicy(promptforge.PolicyLenient))
	}

	out, report, err := t.RenderWithReport(ctx, renderOpts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}
	for _, name := range report.Missing {
		fmt.Fprintf(stderr, FmtMissingWarning, name)
	}

	if err := writeOutput(cfg.outputPath, []byte(out), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderCmdConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderCmdConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.varsJSON, FlagVars, "", "")
	fs.StringVar(&cfg.varsJSON, FlagVarsShort, "", "")
	fs.StringVar(&cfg.varsFilePath, FlagVarsFile, "", "")
	fs.StringVar(&cfg.varsFilePath, FlagVarsFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.style, FlagStyle, "", "")
	fs.BoolVar(&cfg.lenient, FlagLenient, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	return cfg, nil
}

// loadVars parses variables from an inline JSON object or a JSON file.
func loadVars(jsonStr, filePath string) (map[string]any, error) {
	var jsonData []byte

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		jsonData = data
	} else if jsonStr != "" {
		jsonData = []byte(jsonStr)
	} else {
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// styleOptions maps a -style flag value to parse options.
func styleOptions(style string) ([]promptforge.ParseOption, error) {
	switch style {
	case "":
		return nil, nil
	case promptforge.StyleFmtString.String():
		return []promptforge.ParseOption{promptforge.WithStyle(promptforge.StyleFmtString)}, nil
	case promptforge.StyleMustache.String():
		return []promptforge.ParseOption{promptforge.WithStyle(promptforge.StyleMustache)}, nil
	default:
		return nil, errors.New(ErrMsgInvalidStyle)
	}
}
