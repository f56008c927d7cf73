// Package token lets the refresh-token grant read its token from a cookie.
package token

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTokenPath  = "/oauth/token"
	GrantTypeParam    = "grant_type"
	RefreshTokenGrant = "refresh_token"
	RefreshTokenParam = "refresh_token"
	CookieName        = "refreshToken"
)

// CookieExtractor promotes the refreshToken cookie to the refresh_token
// parameter on refresh grant requests sent to the token endpoint.
type CookieExtractor struct {
	path string
}

func NewCookieExtractor(path string) *CookieExtractor {
	return &CookieExtractor{path: path}
}

// RefreshTokenCookie is the extractor bound to DefaultTokenPath.
func RefreshTokenCookie(next http.Handler) http.Handler {
	return NewCookieExtractor(DefaultTokenPath).Handler(next)
}

// Handler never short-circuits: the request, rewritten or not, always
// reaches next.
func (e *CookieExtractor) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if e.qualifies(r) {
			r = e.rewrite(r)
		}
		next.ServeHTTP(w, r)
	})
}

func (e *CookieExtractor) qualifies(r *http.Request) bool {
	return strings.EqualFold(r.URL.Path, e.path) &&
		r.FormValue(GrantTypeParam) == RefreshTokenGrant &&
		len(r.Cookies()) > 0
}

func (e *CookieExtractor) rewrite(r *http.Request) *http.Request {
	value, found := "", false
	for _, c := range r.Cookies() {
		if c.Name == CookieName {
			value, found = c.Value, true
			break
		}
	}

	logrus.WithField("cookie_found", found).Debug("refresh token grant rewritten from cookie")
	return withParam(r, RefreshTokenParam, value, found)
}
