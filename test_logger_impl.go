package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/feco/api-smoke-tests/framework"

	"github.com/fatih/color"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	skipColor = color.New(color.FgYellow)
)

// ConsoleTestLogger prints one line per step, "[TEST] <name> ... OK|FAIL|SKIP". The errors of a
// failed step are printed below its line, indented.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	errors []error
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	c.errors = nil
	fmt.Fprintf(c.Out, "[TEST] %s ... ", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	c.errors = append(c.errors, err)
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failColor.Fprintln(c.Out, "FAIL")
		for _, err := range c.errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				failColor.Fprintf(c.Out, "    %s\n", line)
			}
		}
	} else {
		passColor.Fprintln(c.Out, "OK")
	}
	c.errors = nil
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skipColor.Fprintln(c.Out, "SKIP")
	} else {
		skipColor.Fprintf(c.Out, "SKIP (%s)\n", reason)
	}
}
