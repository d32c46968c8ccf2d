package smoketests

import (
	"time"

	"github.com/feco/api-smoke-tests/client"
	"github.com/feco/api-smoke-tests/config"
	"github.com/feco/api-smoke-tests/framework"
)

type step struct {
	name   string
	action func(*T) error

	// needs names the steps whose context or session this one uses.
	needs []string
}

const (
	stepLogin          = "login"
	stepHotelStructure = "hotel structure"
	stepStaffAndTasks  = "staff + task workflow"
)

// The order matters: later steps use entities created by earlier ones, and logout has to come
// last.
var steps = []step{
	{"health", DoHealthCheck, nil},
	{stepLogin, DoLogin, nil},
	{"me", DoMe, []string{stepLogin}},
	{"refresh", DoRefresh, []string{stepLogin}},
	{stepHotelStructure, DoHotelStructure, []string{stepLogin}},
	{stepStaffAndTasks, DoStaffAndTaskWorkflow, []string{stepHotelStructure}},
	{"task attachments", DoTaskAttachments, []string{stepStaffAndTasks}},
	{"reservations + planning", DoReservationsAndPlanning, []string{stepHotelStructure}},
	{"contracts + pricing", DoContractsAndPricing, []string{stepHotelStructure}},
	{"incidents", DoIncidents, []string{stepStaffAndTasks}},
	{"migration shadow endpoints", DoMigrationShadowEndpoints, []string{stepLogin}},
	{"scoped user access", DoScopedUserAccess, []string{stepHotelStructure}},
	{"logout", DoLogout, []string{stepLogin}},
}

// StepNames returns the names of all steps in the order they run.
func StepNames() []string {
	ret := make([]string, 0, len(steps))
	for _, s := range steps {
		ret = append(ret, s.name)
	}
	return ret
}

// StepsNeededFor returns the named steps together with every step they depend on, directly or
// not, in the order they run. Unknown names are ignored.
func StepsNeededFor(names []string) []string {
	byName := make(map[string]step, len(steps))
	for _, s := range steps {
		byName[s.name] = s
	}
	wanted := make(map[string]bool)
	var visit func(string)
	visit = func(name string) {
		s, ok := byName[name]
		if !ok || wanted[name] {
			return
		}
		wanted[name] = true
		for _, n := range s.needs {
			visit(n)
		}
	}
	for _, n := range names {
		visit(n)
	}
	var ret []string
	for _, s := range steps {
		if wanted[s.name] {
			ret = append(ret, s.name)
		}
	}
	return ret
}

// SuiteParams configures RunTestSuite.
type SuiteParams struct {
	Config config.Config

	// ClientOptions are applied to every client the suite creates.
	ClientOptions []client.Option

	// Logger receives every request and response of every step, in addition to the step's own
	// captured debug output. Nil means no logging.
	Logger framework.Logger

	// Now is the clock used for dates sent to the backend. Nil means time.Now.
	Now func() time.Time
}

// RunTestSuite runs every step against the backend at params.Config.BaseURL. An error is
// returned only if the suite could not start; step failures are in the Results.
func RunTestSuite(
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, error) {
	newClient := func() (*client.Client, error) {
		return client.New(params.Config.BaseURL, params.ClientOptions...)
	}
	primary, err := newClient()
	if err != nil {
		return framework.Results{}, err
	}
	env := &environment{
		config:    params.Config,
		primary:   primary,
		newClient: newClient,
		logger:    params.Logger,
		now:       params.Now,
	}
	if env.logger == nil {
		env.logger = framework.NullLogger()
	}
	if env.now == nil {
		env.now = time.Now
	}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env}
		for _, s := range steps {
			t.Run(s.name, s.action)
		}
	}), nil
}
