package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ishanwen-byte/promptforge"
)

func runDetect(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(CmdNameDetect, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var templatePath string
	fs.StringVar(&templatePath, FlagTemplate, "", "")
	fs.StringVar(&templatePath, FlagTemplateShort, "", "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}
	if templatePath == "" {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, errors.New(ErrMsgMissingTemplate))
		return ExitCodeUsageError
	}

	source, err := readInput(templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	style, err := promptforge.DetectStyle(string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgDetectFailed, err)
		return ExitCodeValidationError
	}

	fmt.Fprintln(stdout, style.String())
	return ExitCodeSuccess
}
