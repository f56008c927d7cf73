package token

import (
	"context"
	"net/http"
)

// Params is the parameter lookup used by the token endpoint.
type Params interface {
	Get(key string) (string, bool)
}

type paramsKey struct{}

// ParamsFrom returns the parameters attached by the cookie extractor, or a
// plain view of the request form when the request was not rewritten.
func ParamsFrom(r *http.Request) Params {
	if p, ok := r.Context().Value(paramsKey{}).(Params); ok {
		return p
	}
	return requestParams{r: r}
}

type requestParams struct {
	r *http.Request
}

func (p requestParams) Get(key string) (string, bool) {
	// A malformed body leaves Form with whatever could be parsed.
	_ = p.r.ParseForm()

	values, ok := p.r.Form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// overrideParams answers a single key itself and delegates every other key.
type overrideParams struct {
	Params
	key     string
	value   string
	present bool
}

func (p overrideParams) Get(key string) (string, bool) {
	if key == p.key {
		return p.value, p.present
	}
	return p.Params.Get(key)
}

// withParam returns a shallow copy of r whose parameter lookup for key
// yields value (or absence when present is false). Cookies, headers and the
// other parameters are left untouched.
func withParam(r *http.Request, key, value string, present bool) *http.Request {
	p := overrideParams{Params: ParamsFrom(r), key: key, value: value, present: present}
	return r.WithContext(context.WithValue(r.Context(), paramsKey{}, Params(p)))
}
