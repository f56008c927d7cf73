package handlers_integrated_test_suite

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
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/algamoney-api/internal/auth"
	"github.com/rogerio-castellano/algamoney-api/internal/db"
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
	"gorm.io/gorm"
)

var (
	token    string
	database *gorm.DB
)

func init() {
	setupTestRepos("secret")
	r := router.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

// setupTestRepos wires the GORM and text executors to one SQLite database
// migrated with the production schema.
func setupTestRepos(password string) {
	var err error
	database, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: db.NewLogger()})
	if err != nil {
		panic(err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		panic(err)
	}
	seedEntries()

	handler.SetLedgerService(ledger.NewService(
		repo.NewGormLedgerRepository(database),
		repo.NewTextLedgerRepository(database),
	))

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ban.SetRedisService(redissvc.NewRedisService(rdb))

	issuer := auth.NewTokenIssuer([]byte("integration-secret"), 15*time.Minute)
	mw.SetTokenIssuer(issuer)

	authService := auth.NewAuthService(repo.NewInMemoryUserRepository(), issuer, auth.NewRefreshTokenStore(rdb, time.Hour))
	if err := authService.EnsureUser(context.Background(), "admin", password, "admin"); err != nil {
		panic(err)
	}
	handler.SetAuthService(authService)

	rl.Configure(1000, 1000)
}

func seedEntries() {
	due := func(m time.Month, d int) time.Time {
		return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
	}
	paid := due(1, 6)

	entries := []models.LedgerEntry{
		{Description: "Monthly Salary", DueDate: due(1, 5), PaymentDate: &paid, Value: decimal.RequireFromString("6500"), Type: models.EntryTypeIncome},
		{Description: "Rent", DueDate: due(1, 10), Value: decimal.RequireFromString("1800"), Type: models.EntryTypeExpense},
		{Description: "Electricity bill", DueDate: due(1, 15), Value: decimal.RequireFromString("120.35"), Type: models.EntryTypeExpense},
		{Description: "Water BILL", DueDate: due(1, 20), Value: decimal.RequireFromString("60.10"), Type: models.EntryTypeExpense},
		{Description: "Internet bill", DueDate: due(2, 1), Value: decimal.RequireFromString("99.90"), Type: models.EntryTypeExpense},
		{Description: "Groceries 50% off", DueDate: due(2, 10), Value: decimal.RequireFromString("215"), Type: models.EntryTypeExpense},
		{Description: "Freelance project", DueDate: due(2, 15), Value: decimal.RequireFromString("2100"), Type: models.EntryTypeIncome},
	}
	if err := database.Create(&entries).Error; err != nil {
		panic(err)
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	form := url.Values{"grant_type": {"password"}, "username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.TokenResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.AccessToken, nil
}

func searchEntries(r http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/entries?"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
