package handlers_test_suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/algamoney-api/internal/auth"
	"github.com/rogerio-castellano/algamoney-api/internal/http/ban"
	handler "github.com/rogerio-castellano/algamoney-api/internal/http/handlers"
	mw "github.com/rogerio-castellano/algamoney-api/internal/http/middleware"
	rl "github.com/rogerio-castellano/algamoney-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/algamoney-api/internal/http/router"
	"github.com/rogerio-castellano/algamoney-api/internal/ledger"
	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"github.com/rogerio-castellano/algamoney-api/internal/redissvc"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	token      string
	ledgerRepo *repo.InMemoryLedgerRepository
	redisMock  *miniredis.Miniredis
)

func init() {
	setupTestRepos("secret")
	r := router.NewRouter()

	var err error
	token, _, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	var err error
	redisMock, err = miniredis.Run()
	if err != nil {
		panic(err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisMock.Addr()})
	ban.SetRedisService(redissvc.NewRedisService(rdb))

	ledgerRepo = repo.NewInMemoryLedgerRepository()
	seedEntries()
	handler.SetLedgerService(ledger.NewService(ledgerRepo, ledgerRepo))

	userRepo := repo.NewInMemoryUserRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_, _ = userRepo.CreateUser(context.Background(), models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	issuer := auth.NewTokenIssuer([]byte("test-secret"), 15*time.Minute)
	mw.SetTokenIssuer(issuer)
	handler.SetAuthService(auth.NewAuthService(userRepo, issuer, auth.NewRefreshTokenStore(rdb, time.Hour)))

	rl.Configure(1000, 1000)
	rl.CleanupAllVisitors()
}

// seedEntries resets the ledger to the fixture set.
func seedEntries() {
	ledgerRepo.Clear()

	add := func(desc string, due time.Time, value string) {
		ledgerRepo.Create(models.LedgerEntry{
			Description: desc,
			DueDate:     due,
			Value:       decimal.RequireFromString(value),
			Type:        models.EntryTypeExpense,
		})
	}

	add("Rent", date(2024, 1, 10), "1800.00")
	add("Electricity bill", date(2024, 1, 15), "120.35")
	add("Water BILL", date(2024, 1, 20), "60.10")
	add("Internet bill", date(2024, 2, 1), "99.90")
	add("Groceries", date(2024, 2, 10), "430.00")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tokenRequest(form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// generateToken runs the password grant and returns the access token and the
// refresh token cookie.
func generateToken(r http.Handler, username, password string) (string, *http.Cookie, error) {
	form := url.Values{"grant_type": {"password"}, "username": {username}, "password": {password}}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, tokenRequest(form))

	if w.Code != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp handler.TokenResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", nil, fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.AccessToken, refreshCookie(w), nil
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func searchEntries(r http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/entries?"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func descriptions(entries []handler.EntryResponse) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Description)
	}
	return out
}
