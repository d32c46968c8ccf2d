package client

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// CookieSession is the cookie half of a Client's session state. Cookies set by any response are
// replayed on later requests that match their domain and path, the way a browser would.
type CookieSession struct {
	jar *cookiejar.Jar
}

func NewCookieSession() (*CookieSession, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &CookieSession{jar: jar}, nil
}

// Cookie returns the named cookie that would be sent with a request to u.
func (s *CookieSession) Cookie(u *url.URL, name string) (*http.Cookie, bool) {
	for _, c := range s.jar.Cookies(u) {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// BearerAuth is the token half of a Client's session state. It is only changed explicitly, by
// the steps that log in or refresh.
type BearerAuth struct {
	token string
}

func (b *BearerAuth) Set(token string) {
	b.token = token
}

func (b *BearerAuth) Clear() {
	b.token = ""
}

func (b *BearerAuth) HasToken() bool {
	return b.token != ""
}

func (b *BearerAuth) apply(req *http.Request) error {
	if b.token == "" {
		return ErrNoBearerToken
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	return nil
}
