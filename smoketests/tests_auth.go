package smoketests

import (
	"net/http"

	"github.com/feco/api-smoke-tests/servicedef"
)

const (
	refreshPath   = "/api/v1/auth/refresh"
	refreshCookie = "refresh_token"
)

func DoHealthCheck(t *T) error {
	r, err := t.API().Call("health", "GET", "/health", nil, false)
	if err != nil {
		return err
	}
	if v := r.Get("ok"); !v.BoolValue() {
		return r.Fail("expected ok=true")
	}
	return nil
}

// DoLogin logs in with the configured credentials. The access token becomes the bearer token
// of the primary client; the refresh cookie is kept by its cookie session.
func DoLogin(t *T) error {
	api := t.API()
	r, err := api.Call("login", "POST", "/api/v1/auth/login", servicedef.LoginParams{
		Email:    t.Config().Email,
		Password: t.Config().Password,
	}, false)
	if err != nil {
		return err
	}
	token, err := r.String("accessToken")
	if err != nil {
		return err
	}
	api.Client().SetBearerToken(token)
	return nil
}

func DoMe(t *T) error {
	r, err := t.API().Get("me", "/api/v1/auth/me")
	if err != nil {
		return err
	}
	return r.RequireEqual(t.Config().Email, "user", "email")
}

// DoRefresh exchanges the refresh cookie for a new access token. No bearer token is sent, so
// this only passes if the cookie session works.
func DoRefresh(t *T) error {
	api := t.API()
	r, err := api.Call("refresh", "POST", refreshPath, nil, false)
	if err != nil {
		return err
	}
	token, err := r.String("accessToken")
	if err != nil {
		return err
	}
	api.Client().SetBearerToken(token)
	return nil
}

// DoLogout ends the primary session. Afterwards the refresh cookie must be gone, so refreshing
// is rejected.
func DoLogout(t *T) error {
	api := t.API()
	r, err := api.Call("logout", "POST", "/api/v1/auth/logout", nil, false)
	if err != nil {
		return err
	}
	if err := r.RequireOK(); err != nil {
		return err
	}
	api.Client().Auth().Clear()
	return api.ExpectStatus("refresh after logout", "POST", refreshPath, nil, false, http.StatusUnauthorized)
}
