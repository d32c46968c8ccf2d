package smoketests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/feco/api-smoke-tests/servicedef"
)

const (
	migrationExportPath = "/api/v1/migration/localstorage/export"
	migrationImportPath = "/api/v1/migration/localstorage/import"

	migrationFormatVersion = 1

	scopedUserPassword = "ScopedPass123$"
	scopedHotelName    = "Scoped Hotel Renamed"
)

// DoMigrationShadowEndpoints exports the organization in the shape the legacy browser client
// kept in local storage, and imports it back unchanged. The import is an idempotent upsert.
func DoMigrationShadowEndpoints(t *T) error {
	api := t.API()
	data, err := exportMigrationData(api, "migration export")
	if err != nil {
		return err
	}
	return importMigrationData(api, "migration import", data)
}

// exportMigrationData returns the exported payload exactly as the backend sent it, so that
// numbers survive the round trip without conversion.
func exportMigrationData(api *API, op string) (json.RawMessage, error) {
	r, err := api.Get(op, migrationExportPath)
	if err != nil {
		return nil, err
	}
	data, err := r.Object("data")
	if err != nil {
		return nil, err
	}
	if v := data.GetByKey("version"); !v.IsInt() || v.IntValue() != migrationFormatVersion {
		return nil, r.Fail("unexpected export version %s", v.JSONString())
	}
	if _, err := r.Object("data", "hotels"); err != nil {
		return nil, err
	}
	var export struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.raw, &export); err != nil {
		return nil, r.Fail("cannot decode export: %s", err)
	}
	return export.Data, nil
}

func importMigrationData(api *API, op string, data json.RawMessage) error {
	r, err := api.Call(op, "POST", migrationImportPath, data, true)
	if err != nil {
		return err
	}
	return r.RequireOK()
}

// renameOnlyHotel requires the export to hold exactly one hotel and renames it. Numbers are
// decoded as json.Number so everything else is re-encoded unchanged.
func renameOnlyHotel(data json.RawMessage, name string) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	hotels, _ := payload["hotels"].(map[string]interface{})
	if len(hotels) != 1 {
		return nil, fmt.Errorf("hotels not restricted to one hotel: got %d", len(hotels))
	}
	for id, h := range hotels {
		hotel, ok := h.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("exported hotel %s is not an object", id)
		}
		hotel["name"] = name
	}
	return json.Marshal(payload)
}

// DoScopedUserAccess creates a HOTEL_ADMIN user restricted to the first hotel and checks, through
// a second client with its own session, that the restriction is enforced.
func DoScopedUserAccess(t *T) error {
	ids, err := t.Shared().RequireStrings(KeyHotelID, KeyOtherHotelID)
	if err != nil {
		return err
	}
	hotelID, otherHotelID := ids[0], ids[1]
	email := "hotel_admin_" + t.UniqueSuffix() + "@example.com"

	r, err := t.API().Create("create scoped user", "/api/v1/users", servicedef.UserParams{
		Email:        email,
		Password:     scopedUserPassword,
		Role:         servicedef.RoleHotelAdmin,
		HotelScopeID: hotelID,
	})
	if err != nil {
		return err
	}
	if err := r.RequireEqual(hotelID, "user", "hotelScopeId"); err != nil {
		return err
	}

	scoped, err := t.NewAPI()
	if err != nil {
		return err
	}
	if err := checkSessionIsolated(t.API(), scoped); err != nil {
		return err
	}

	r, err = scoped.Call("scoped login", "POST", "/api/v1/auth/login",
		servicedef.LoginParams{Email: email, Password: scopedUserPassword}, false)
	if err != nil {
		return err
	}
	token, err := r.String("accessToken")
	if err != nil {
		return err
	}
	scoped.Client().SetBearerToken(token)

	r, err = scoped.Get("scoped me", "/api/v1/auth/me")
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.RoleHotelAdmin, "user", "role"); err != nil {
		return err
	}
	if err := r.RequireEqual(hotelID, "user", "hotelScopeId"); err != nil {
		return err
	}

	r, err = scoped.Get("scoped list hotels", "/api/v1/hotels")
	if err != nil {
		return err
	}
	hotels, err := r.Array("hotels")
	if err != nil {
		return err
	}
	if hotels.Count() != 1 || !idEquals(hotels.GetByIndex(0).GetByKey("id"), hotelID) {
		return r.Fail("scoped hotels list not restricted to %s", hotelID)
	}

	if err := scoped.ExpectStatus("scoped other hotel tasks", "GET", "/api/v1/hotels/"+otherHotelID+"/tasks",
		nil, true, http.StatusForbidden); err != nil {
		return err
	}

	data, err := exportMigrationData(scoped, "scoped migration export")
	if err != nil {
		return err
	}
	renamed, err := renameOnlyHotel(data, scopedHotelName)
	if err != nil {
		return fmt.Errorf("scoped migration export: %w", err)
	}
	return importMigrationData(scoped, "scoped migration import", renamed)
}

// The primary client holds a refresh cookie and a bearer token at this point. A client that has
// never logged in must have neither, so refreshing through it has to be rejected.
func checkSessionIsolated(primary, scoped *API) error {
	if _, ok := primary.Client().Cookie(refreshPath, refreshCookie); !ok {
		return fmt.Errorf("primary client has no %s cookie for %s", refreshCookie, refreshPath)
	}
	if _, ok := scoped.Client().Cookie(refreshPath, refreshCookie); ok {
		return fmt.Errorf("new client already carries a %s cookie before logging in", refreshCookie)
	}
	if scoped.Client().Auth().HasToken() {
		return fmt.Errorf("new client already has a bearer token before logging in")
	}
	return scoped.ExpectStatus("scoped refresh before login", "POST", refreshPath,
		nil, false, http.StatusUnauthorized)
}
