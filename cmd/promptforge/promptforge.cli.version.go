package main

import (
	"fmt"
	"io"
	"runtime"
)

func runVersion(args []string, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "%s %s (%s)\n", AppName, AppVersion, runtime.Version())
	return ExitCodeSuccess
}
