package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

const abortedSkipReason = "run aborted"

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
	shared     *Shared
}

// Context is the state of one step while it is running. The root Context passed to the action
// of Run is not a step itself; it is only used to call Run for each step in order.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	errors      []error
}

type abortSignal struct {
	err error
}

// Run executes a set of steps and returns the accumulated results. The action receives the
// root Context and is expected to call Context.Run once for every declared step.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
		shared:     NewShared(),
	}
	action(&Context{env: env})
	return env.results
}

// ID returns the identifier of the current step.
func (c *Context) ID() TestID {
	return c.id
}

// Shared returns the run-scoped store that steps use to hand identifiers to later steps.
func (c *Context) Shared() *Shared {
	return c.env.shared
}

// Run executes one step. Exactly one TestResult is recorded for it, whether it passes, fails,
// is excluded by the filter, or is not attempted because the run was aborted.
func (c *Context) Run(name string, action func(*Context) error) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.results.Aborted != nil {
		c.recordSkipped(id, abortedSkipReason)
		return
	}
	if c.env.filter != nil && !c.env.filter(id) {
		c.recordSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
}

func (c *Context) run(action func(*Context) error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *Context:
				if len(c.errors) == 0 {
					c.addError(errors.New("step failed with no failure message"))
				}
			case abortSignal:
				c.addError(v.err)
				c.env.results.Aborted = v.err
			default:
				c.addError(fmt.Errorf("unexpected panic in step: %+v\n%s", r, string(debug.Stack())))
			}
		}
		result := TestResult{TestID: c.id, Errors: c.errors}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	if err := action(c); err != nil {
		c.addError(err)
	}
}

func (c *Context) recordSkipped(id TestID, reason string) {
	c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true, SkipReason: reason})
	c.env.testLogger.TestSkipped(id, reason)
}

func (c *Context) addError(err error) {
	c.failed = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// Errorf records a failure without ending the step. It is called by testify's assert functions.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.addError(fmt.Errorf(format, args...))
}

// FailNow ends the step immediately. It is called by testify's require functions.
func (c *Context) FailNow() {
	panic(c)
}

// Abort fails the current step and prevents every remaining step from running. It is only for
// errors that mean the step sequence itself is wrong, such as an authenticated request issued
// before any step obtained a bearer token.
func (c *Context) Abort(err error) {
	panic(abortSignal{err: err})
}

// DebugLogger returns the logger that captures debug output for this step.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
