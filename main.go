package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/feco/api-smoke-tests/client"
	"github.com/feco/api-smoke-tests/config"
	"github.com/feco/api-smoke-tests/framework"
	"github.com/feco/api-smoke-tests/logging"
	"github.com/feco/api-smoke-tests/smoketests"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const programName = "feco-smoke-tests"

// errStepsFailed is returned by the command when the run completed with failures; the results
// have already been printed.
var errStepsFailed = errors.New("smoke tests failed")

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errStepsFailed) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var params commandParams
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           programName,
		Short:         "Run end-to-end smoke tests against a FECO API deployment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.validate(); err != nil {
				return err
			}
			if params.list {
				for _, name := range smoketests.StepNames() {
					fmt.Fprintln(stdout, name)
				}
				return nil
			}
			return run(&params, v, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	params.addFlags(cmd.Flags())
	if err := params.bind(v, cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func run(params *commandParams, v *viper.Viper, stdout, stderr io.Writer) error {
	if params.noColor {
		color.NoColor = true
	}
	if err := config.LoadEnvFile(params.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{
		Level:   params.effectiveLogLevel(),
		Format:  params.logFormat,
		NoColor: params.noColor,
	}, stderr)
	if err != nil {
		return err
	}

	logger.Info().Str("base_url", cfg.BaseURL).Str("email", cfg.Email).Msg("Starting smoke tests")
	framework.PrintFilterDescription(stdout, params.filters)

	suite := smoketests.SuiteParams{
		Config:        cfg,
		ClientOptions: []client.Option{client.WithTimeouts(params.timeout, params.rawTimeout)},
	}
	if params.debugAll {
		suite.Logger = &logger
	}
	testLogger := &ConsoleTestLogger{
		Out:                  stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results, err := smoketests.RunTestSuite(suite, params.filters.AsFilter, testLogger)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	if params.summary == summaryYAML {
		if err := framework.WriteResultsYAML(stdout, results); err != nil {
			return err
		}
	} else {
		framework.PrintResults(stdout, results)
	}
	logger.Info().
		Int("passed", results.Passed()).
		Int("failed", len(results.Failures)).
		Int("skipped", results.Skipped()).
		Msg("Finished smoke tests")

	if !results.OK() {
		if cmd := rerunCommand(programName, results); cmd != "" {
			fmt.Fprintf(stdout, "\nTo run the failed steps again:\n  %s\n", cmd)
		}
		return errStepsFailed
	}
	return nil
}
