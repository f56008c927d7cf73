package handlers

import (
	"github.com/rogerio-castellano/algamoney-api/internal/auth"
	"github.com/rogerio-castellano/algamoney-api/internal/ledger"
)

var (
	ledgerService *ledger.Service
	authService   *auth.AuthService

	cookieSecure bool
)

func SetLedgerService(s *ledger.Service) {
	ledgerService = s
}

func SetAuthService(s *auth.AuthService) {
	authService = s
}

// SetCookieSecure marks the refresh token cookie as HTTPS only.
func SetCookieSecure(secure bool) {
	cookieSecure = secure
}
