// Package framework contains the step-runner infrastructure of the smoke-test harness, which
// does not know anything about the FECO API itself.
//
// The general model is:
//
// 1. A run is a fixed, ordered list of named steps. Each step is a function that receives a
// *Context and returns an error. A step passes if it returns nil and fails otherwise.
//
// 2. A failing step never stops the run. The failure is recorded in Results and the next step
// starts. The only exception is Context.Abort, which is reserved for programming errors in
// the step ordering itself; the remaining steps are then recorded as skipped.
//
// 3. Steps pass identifiers to later steps through the run-scoped Shared store. Reading a key
// that no earlier step populated is reported as a MissingContextError rather than as a
// confusing downstream failure.
//
// 4. Context implements the TestingT interface of testify's assert and require packages, so a
// step can also use ordinary assertions; a failed require call ends the step, not the run.
//
// The domain-specific code that knows what is being tested lives in the smoketests package.
package framework
