package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/feco/api-smoke-tests/client"
	"github.com/feco/api-smoke-tests/config"
	"github.com/feco/api-smoke-tests/framework"
	"github.com/feco/api-smoke-tests/smoketests"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	summaryText = "text"
	summaryYAML = "yaml"
)

type commandParams struct {
	filters    framework.RegexFilters
	envFile    string
	debug      bool
	debugAll   bool
	logLevel   string
	logFormat  string
	summary    string
	noColor    bool
	list       bool
	timeout    time.Duration
	rawTimeout time.Duration
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.String("url", "", "base URL of the API (default from "+config.EnvBaseURL+", then "+config.DefaultBaseURL+")")
	fs.String("email", "", "admin email (default from "+config.EnvEmail+")")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select steps to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select steps not to run")
	fs.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load if it exists")
	fs.BoolVar(&c.debug, "debug", false, "show request log of failed steps")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show request log of all steps, and log every request as it happens")
	fs.StringVar(&c.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "auto", "log format: auto, console, json")
	fs.StringVar(&c.summary, "summary", summaryText, "summary format: text, yaml")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&c.list, "list", false, "list the steps in run order and exit")
	fs.DurationVar(&c.timeout, "timeout", client.DefaultJSONTimeout, "timeout for JSON requests")
	fs.DurationVar(&c.rawTimeout, "raw-timeout", client.DefaultRawTimeout, "timeout for uploads and downloads")
}

// bind makes the connection flags override the environment when they are given.
func (c *commandParams) bind(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlag(config.KeyBaseURL, fs.Lookup("url")); err != nil {
		return err
	}
	return v.BindPFlag(config.KeyEmail, fs.Lookup("email"))
}

func (c *commandParams) validate() error {
	switch c.summary {
	case summaryText, summaryYAML:
	default:
		return fmt.Errorf("invalid --summary %q: must be %s or %s", c.summary, summaryText, summaryYAML)
	}
	if c.timeout <= 0 || c.rawTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func (c *commandParams) effectiveLogLevel() string {
	if c.logLevel == "" && c.debugAll {
		return "debug"
	}
	return c.logLevel
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand returns a command line that runs the failed steps again, along with the steps
// they depend on. It is empty if nothing failed.
func rerunCommand(program string, results framework.Results) string {
	var failed []string
	for _, f := range results.Failures {
		failed = append(failed, f.TestID.String())
	}
	if len(failed) == 0 {
		return ""
	}
	var cmd commandBuilder
	cmd.add(program)
	for _, name := range smoketests.StepsNeededFor(failed) {
		cmd.add("--run", "^"+regexp.QuoteMeta(name)+"$")
	}
	cmd.add("--debug")
	return cmd.String()
}
