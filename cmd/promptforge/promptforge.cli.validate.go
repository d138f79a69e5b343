package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ishanwen-byte/promptforge"
)

// validateCmdConfig holds parsed validate command configuration
type validateCmdConfig struct {
	templatePath string
	style        string
	quiet        bool
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	parseOpts, err := styleOptions(cfg.style)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidStyle, cfg.style)
		return ExitCodeUsageError
	}

	t, err := promptforge.Parse(string(source), parseOpts...)
	if err != nil {
		if !cfg.quiet {
			printParseErrors(stderr, err)
		}
		return ExitCodeValidationError
	}

	if !cfg.quiet {
		fmt.Fprintf(stdout, FmtValidOutput, t.Style(), len(t.InputVariables()))
	}
	return ExitCodeSuccess
}

func parseValidateFlags(args []string) (*validateCmdConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateCmdConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.style, FlagStyle, "", "")
	fs.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuietShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	return cfg, nil
}

// printParseErrors prints every parse error on its own line with its
// source position when available.
func printParseErrors(w io.Writer, err error) {
	var list *promptforge.ParseErrorList
	if errors.As(err, &list) {
		for _, item := range list.Errors {
			printOneError(w, item)
		}
		return
	}
	printOneError(w, err)
}

func printOneError(w io.Writer, err error) {
	if pos, ok := promptforge.ErrorPosition(err); ok {
		fmt.Fprintf(w, "%s: %v\n", pos, err)
		return
	}
	fmt.Fprintf(w, "%v\n", err)
}
