package token

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	called  bool
	request *http.Request
}

func capture() (*captured, http.Handler) {
	c := &captured{}
	return c, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.request = r
	})
}

func newRequest(method, target string, cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestRefreshTokenCookie_RewritesRefreshGrant(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/oauth/token?grant_type=refresh_token",
		&http.Cookie{Name: CookieName, Value: "abc"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	require.True(t, c.called)
	value, ok := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	grant, ok := ParamsFrom(c.request).Get(GrantTypeParam)
	assert.True(t, ok)
	assert.Equal(t, RefreshTokenGrant, grant)
}

func TestRefreshTokenCookie_CookieOverridesParameter(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/oauth/token?grant_type=refresh_token&refresh_token=from-query",
		&http.Cookie{Name: CookieName, Value: "from-cookie"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	value, _ := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.Equal(t, "from-cookie", value)
}

func TestRefreshTokenCookie_FormBody(t *testing.T) {
	c, next := capture()
	body := url.Values{GrantTypeParam: {RefreshTokenGrant}, "client_id": {"web"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	params := ParamsFrom(c.request)
	value, ok := params.Get(RefreshTokenParam)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	client, ok := params.Get("client_id")
	assert.True(t, ok)
	assert.Equal(t, "web", client)
}

func TestRefreshTokenCookie_PathIsCaseInsensitive(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/OAuth/Token?grant_type=refresh_token",
		&http.Cookie{Name: CookieName, Value: "abc"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	value, ok := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestRefreshTokenCookie_FirstMatchingCookieWins(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/oauth/token?grant_type=refresh_token",
		&http.Cookie{Name: "session", Value: "s"},
		&http.Cookie{Name: CookieName, Value: "first"},
		&http.Cookie{Name: CookieName, Value: "second"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	value, _ := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.Equal(t, "first", value)
}

func TestRefreshTokenCookie_PassesThroughUntouched(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		cookies []*http.Cookie
	}{
		{
			name:    "password grant",
			method:  http.MethodPost,
			target:  "/oauth/token?grant_type=password&refresh_token=keep",
			cookies: []*http.Cookie{{Name: CookieName, Value: "abc"}},
		},
		{
			name:    "other path",
			method:  http.MethodGet,
			target:  "/entries?grant_type=refresh_token&refresh_token=keep",
			cookies: []*http.Cookie{{Name: CookieName, Value: "abc"}},
		},
		{
			name:   "no cookies at all",
			method: http.MethodPost,
			target: "/oauth/token?grant_type=refresh_token&refresh_token=keep",
		},
		{
			name:    "grant type differs in case",
			method:  http.MethodPost,
			target:  "/oauth/token?grant_type=REFRESH_TOKEN&refresh_token=keep",
			cookies: []*http.Cookie{{Name: CookieName, Value: "abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, next := capture()
			r := newRequest(tt.method, tt.target, tt.cookies...)

			RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

			require.True(t, c.called)
			assert.Same(t, r, c.request)
			value, ok := ParamsFrom(c.request).Get(RefreshTokenParam)
			assert.True(t, ok)
			assert.Equal(t, "keep", value)
		})
	}
}

func TestRefreshTokenCookie_MissingCookieMeansAbsent(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/oauth/token?grant_type=refresh_token&refresh_token=stale",
		&http.Cookie{Name: "session", Value: "s"})

	RefreshTokenCookie(next).ServeHTTP(httptest.NewRecorder(), r)

	require.True(t, c.called)
	value, ok := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.False(t, ok)
	assert.Empty(t, value)

	// cookies and the rest of the request are left alone
	cookie, err := c.request.Cookie("session")
	require.NoError(t, err)
	assert.Equal(t, "s", cookie.Value)
	assert.Equal(t, "stale", c.request.URL.Query().Get(RefreshTokenParam))
}

func TestCookieExtractor_CustomPath(t *testing.T) {
	c, next := capture()
	r := newRequest(http.MethodPost, "/api/token?grant_type=refresh_token",
		&http.Cookie{Name: CookieName, Value: "abc"})

	NewCookieExtractor("/api/token").Handler(next).ServeHTTP(httptest.NewRecorder(), r)

	value, ok := ParamsFrom(c.request).Get(RefreshTokenParam)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestParamsFrom_PlainRequest(t *testing.T) {
	r := newRequest(http.MethodGet, "/oauth/token?a=1&a=2")

	value, ok := ParamsFrom(r).Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = ParamsFrom(r).Get("missing")
	assert.False(t, ok)
}
