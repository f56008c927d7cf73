package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/auth"
	"github.com/rogerio-castellano/algamoney-api/internal/http/ban"
	"github.com/rogerio-castellano/algamoney-api/internal/token"
	"github.com/sirupsen/logrus"
)

const (
	errInvalidRequest       = "invalid_request"
	errInvalidGrant         = "invalid_grant"
	errUnsupportedGrantType = "unsupported_grant_type"
)

// TokenHandler godoc
// @Summary Issue access tokens
// @Description Password grant takes username and password. Refresh grant reads refresh_token from the form or from the refreshToken cookie. The new refresh token is returned as an HttpOnly cookie.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "password or refresh_token"
// @Param username formData string false "Username (password grant)"
// @Param password formData string false "Password (password grant)"
// @Param refresh_token formData string false "Refresh token (refresh grant, cookie takes precedence)"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} OAuthError
// @Failure 429 {string} string "Too many requests"
// @Router /oauth/token [post]
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	params := token.ParamsFrom(r)
	grantType, _ := params.Get(token.GrantTypeParam)

	var (
		pair auth.TokenPair
		err  error
	)
	switch grantType {
	case "password":
		username, _ := params.Get("username")
		password, _ := params.Get("password")
		if username == "" || password == "" {
			oauthError(w, errInvalidRequest, "username and password are required")
			return
		}
		pair, err = authService.PasswordGrant(r.Context(), username, password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if banErr := ban.RecordStrike(r.Context(), r); banErr != nil {
				logrus.WithError(banErr).Error("failed to record login strike")
			}
		} else if err == nil {
			ban.Reset(r.Context(), r)
		}
	case token.RefreshTokenGrant:
		refreshToken, ok := params.Get(token.RefreshTokenParam)
		if !ok || refreshToken == "" {
			oauthError(w, errInvalidGrant, "refresh token is missing")
			return
		}
		pair, err = authService.RefreshGrant(r.Context(), refreshToken)
	default:
		oauthError(w, errUnsupportedGrantType, "")
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		oauthError(w, errInvalidGrant, "bad credentials")
		return
	case errors.Is(err, auth.ErrInvalidGrant):
		oauthError(w, errInvalidGrant, "refresh token is invalid or expired")
		return
	case err != nil:
		logrus.WithError(err).WithField("grant_type", grantType).Error("token grant failed")
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, authService.RefreshTTL())
	respond(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}

// RevokeTokenHandler godoc
// @Summary Revoke the refresh token
// @Description Revokes the refresh token held in the refreshToken cookie and expires the cookie.
// @Tags auth
// @Success 204 "No Content"
// @Failure 500 {string} string "Server error"
// @Router /oauth/token [delete]
func RevokeTokenHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(token.CookieName); err == nil && c.Value != "" {
		if err := authService.Revoke(r.Context(), c.Value); err != nil {
			logrus.WithError(err).Error("failed to revoke refresh token")
			http.Error(w, "failed to revoke token", http.StatusInternalServerError)
			return
		}
	}

	setRefreshCookie(w, "", 0)
	w.WriteHeader(http.StatusNoContent)
}

// setRefreshCookie writes the refresh token cookie. A zero ttl expires it.
func setRefreshCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     token.CookieName,
		Value:    value,
		Path:     token.DefaultTokenPath,
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	} else {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

func oauthError(w http.ResponseWriter, code, description string) {
	respond(w, http.StatusBadRequest, OAuthError{Error: code, ErrorDescription: description})
}
