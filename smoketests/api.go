package smoketests

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/feco/api-smoke-tests/client"
	"github.com/feco/api-smoke-tests/config"
	"github.com/feco/api-smoke-tests/framework"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Keys of the values that steps hand to later steps.
const (
	KeyHotelID      = "hotel_id"
	KeyOtherHotelID = "other_hotel_id"
	KeyFloorID      = "floor_id"
	KeySpaceID      = "space_id"
	KeyRoomID       = "room_id"
	KeyStaffID      = "staff_id"
	KeyTaskID       = "task_id"
)

const dateFormat = "2006-01-02"

type environment struct {
	config    config.Config
	primary   *client.Client
	newClient func() (*client.Client, error)
	logger    framework.Logger
	now       func() time.Time
}

// T represents one step of the smoke-test run.
//
// It wraps a framework.Context, so failures are isolated to the step, and adds access to the
// FECO API through the primary client, whose cookies and bearer token persist from step to
// step. To make assertions you can use the assert and require packages, passing the *T as if it
// were a *testing.T; but most steps simply return an error describing the first thing that went
// wrong.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a step failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a step should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a step. The step's returned error, if any, becomes its failure message.
func (t *T) Run(name string, action func(*T) error) {
	t.context.Run(name, func(c *framework.Context) error {
		return action(&T{context: c, env: t.env})
	})
}

// Shared returns the store of identifiers created by earlier steps.
func (t *T) Shared() *framework.Shared {
	return t.context.Shared()
}

// Config returns the configuration of the run.
func (t *T) Config() config.Config {
	return t.env.config
}

// Now returns the current time according to the run's clock.
func (t *T) Now() time.Time {
	return t.env.now()
}

// UniqueSuffix returns a short random string for naming entities, so that repeated runs against
// the same backend do not collide.
func (t *T) UniqueSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// API returns the primary client, logging to this step's debug output.
func (t *T) API() *API {
	return t.apiFor(t.env.primary)
}

// NewAPI returns a new client with its own cookie session and no bearer token, logging to this
// step's debug output.
func (t *T) NewAPI() (*API, error) {
	c, err := t.env.newClient()
	if err != nil {
		return nil, err
	}
	return t.apiFor(c), nil
}

func (t *T) apiFor(c *client.Client) *API {
	return &API{t: t, client: c.WithLogger(framework.TeeLogger(t.context.DebugLogger(), t.env.logger))}
}

// API sends requests on behalf of a step and turns unexpected outcomes into errors.
//
// An authenticated request attempted before any bearer token was set aborts the whole run,
// since every later step would fail the same way.
type API struct {
	t      *T
	client *client.Client
}

func (a *API) Client() *client.Client {
	return a.client
}

// Call sends a JSON request and requires one of the expected status codes and a JSON body. With
// no expected codes, only 200 is accepted.
func (a *API) Call(op, method, path string, body interface{}, useAuth bool, expected ...int) (Reply, error) {
	resp, err := a.client.Request(method, path, body, useAuth)
	if err := a.checkSent(op, resp, err); err != nil {
		return Reply{}, err
	}
	return newReply(op, resp, expected)
}

// Get sends an authenticated GET and requires 200.
func (a *API) Get(op, path string) (Reply, error) {
	return a.Call(op, "GET", path, nil, true, http.StatusOK)
}

// Create sends an authenticated POST and requires 200 or 201.
func (a *API) Create(op, path string, body interface{}) (Reply, error) {
	return a.Call(op, "POST", path, body, true, http.StatusOK, http.StatusCreated)
}

// Patch sends an authenticated PATCH and requires 200.
func (a *API) Patch(op, path string, body interface{}) (Reply, error) {
	return a.Call(op, "PATCH", path, body, true, http.StatusOK)
}

// Delete sends an authenticated DELETE and requires 200 with {"ok": true}.
func (a *API) Delete(op, path string) error {
	r, err := a.Call(op, "DELETE", path, nil, true, http.StatusOK)
	if err != nil {
		return err
	}
	return r.RequireOK()
}

// ExpectStatus sends a JSON request and requires exactly the given status. The body is not
// inspected.
func (a *API) ExpectStatus(op, method, path string, body interface{}, useAuth bool, status int) error {
	resp, err := a.client.Request(method, path, body, useAuth)
	if err := a.checkSent(op, resp, err); err != nil {
		return err
	}
	if resp.Status != status {
		return &framework.ProtocolError{
			Operation: op,
			Status:    resp.Status,
			Detail:    fmt.Sprintf("expected status %d", status),
			Body:      framework.Snippet(resp.Body),
		}
	}
	return nil
}

// Raw sends a request with an arbitrary body and returns the response whatever its status.
func (a *API) Raw(op, method, path string, body []byte, contentType string, useAuth bool) (client.Response, error) {
	resp, err := a.client.RequestRaw(method, path, body, contentType, useAuth)
	if err := a.checkSent(op, resp, err); err != nil {
		return client.Response{}, err
	}
	return resp, nil
}

// Upload sends a multipart/form-data request and requires 200 or 201 and a JSON body.
func (a *API) Upload(op, path string, fields []client.FormField, files []client.FormFile) (Reply, error) {
	body, contentType, err := client.EncodeMultipart(fields, files)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := a.Raw(op, "POST", path, body, contentType, true)
	if err != nil {
		return Reply{}, err
	}
	return newReply(op, resp, []int{http.StatusOK, http.StatusCreated})
}

func (a *API) checkSent(op string, resp client.Response, err error) error {
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		if errors.Is(err, client.ErrNoBearerToken) {
			a.t.context.Abort(err)
		}
		return err
	}
	if resp.Err != nil {
		return &framework.TransportError{Operation: op, Err: resp.Err}
	}
	return nil
}

// Reply is a response whose status was as expected and whose body is JSON.
type Reply struct {
	Operation string
	Status    int
	Body      ldvalue.Value
	raw       []byte
}

func newReply(op string, resp client.Response, expected []int) (Reply, error) {
	if len(expected) == 0 {
		expected = []int{http.StatusOK}
	}
	if !statusIn(resp.Status, expected) {
		return Reply{}, &framework.ProtocolError{
			Operation: op,
			Status:    resp.Status,
			Body:      framework.Snippet(resp.Body),
		}
	}
	body, err := resp.JSON()
	if err != nil {
		return Reply{}, &framework.ProtocolError{
			Operation: op,
			Status:    resp.Status,
			Detail:    "expected JSON",
			Body:      framework.Snippet(resp.Body),
		}
	}
	return Reply{Operation: op, Status: resp.Status, Body: body, raw: resp.Body}, nil
}

func statusIn(status int, expected []int) bool {
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}

// Fail returns a ProtocolError about this reply.
func (r Reply) Fail(format string, args ...interface{}) error {
	return &framework.ProtocolError{
		Operation: r.Operation,
		Status:    r.Status,
		Detail:    fmt.Sprintf(format, args...),
		Body:      framework.Snippet(r.raw),
	}
}

// Get returns the value at a path of object keys, or null if any of them is missing.
func (r Reply) Get(path ...string) ldvalue.Value {
	return lookup(r.Body, path...)
}

// String returns the identifier or token at a path: a non-empty string, or a number formatted
// in decimal.
func (r Reply) String(path ...string) (string, error) {
	s, ok := idString(r.Get(path...))
	if !ok {
		return "", r.Fail("missing %s", strings.Join(path, "."))
	}
	return s, nil
}

// Strings is a shortcut for calling String on several keys of the same object.
func (r Reply) Strings(object string, keys ...string) ([]string, error) {
	ret := make([]string, 0, len(keys))
	for _, k := range keys {
		s, err := r.String(object, k)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// Object returns the JSON object at a path.
func (r Reply) Object(path ...string) (ldvalue.Value, error) {
	v := r.Get(path...)
	if v.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), r.Fail("%s is not an object", strings.Join(path, "."))
	}
	return v, nil
}

// Array returns the JSON array at a path.
func (r Reply) Array(path ...string) (ldvalue.Value, error) {
	v := r.Get(path...)
	if v.Type() != ldvalue.ArrayType {
		return ldvalue.Null(), r.Fail("%s is not a list", strings.Join(path, "."))
	}
	return v, nil
}

// RequireEqual requires the string or number at a path to equal expected.
func (r Reply) RequireEqual(expected string, path ...string) error {
	if v := r.Get(path...); !idEquals(v, expected) {
		return r.Fail("expected %s to be %q, got %s", strings.Join(path, "."), expected, v.JSONString())
	}
	return nil
}

// RequireOK requires {"ok": true}.
func (r Reply) RequireOK() error {
	if v := r.Get("ok"); v.Type() != ldvalue.BoolType || !v.BoolValue() {
		return r.Fail("expected ok=true")
	}
	return nil
}

// RequireListContains requires the list at listKey to have an element whose field equals value.
func (r Reply) RequireListContains(listKey, field, value string) error {
	list, err := r.Array(listKey)
	if err != nil {
		return err
	}
	if !listContains(list, field, value) {
		return r.Fail("no entry in %s has %s=%q", listKey, field, value)
	}
	return nil
}

func listContains(list ldvalue.Value, field, value string) bool {
	for i := 0; i < list.Count(); i++ {
		if idEquals(list.GetByIndex(i).GetByKey(field), value) {
			return true
		}
	}
	return false
}

// idString formats an identifier. Backends may send ids as strings or as numbers.
func idString(v ldvalue.Value) (string, bool) {
	switch {
	case v.IsString():
		return v.StringValue(), v.StringValue() != ""
	case v.IsInt():
		return strconv.Itoa(v.IntValue()), true
	case v.IsNumber():
		return strconv.FormatFloat(v.Float64Value(), 'f', -1, 64), true
	}
	return "", false
}

func idEquals(v ldvalue.Value, expected string) bool {
	s, ok := idString(v)
	return ok && s == expected
}

func lookup(v ldvalue.Value, path ...string) ldvalue.Value {
	for _, k := range path {
		v = v.GetByKey(k)
	}
	return v
}
