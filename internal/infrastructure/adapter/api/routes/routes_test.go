package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/card"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/limit"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/recurring"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/transaction"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/web3"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/chain"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/random"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/security"
	timeadapter "github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/validation"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mockpersistence "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminKey = "back-office-key"

type fakeHealth struct{ healthy bool }

func (f fakeHealth) Health(context.Context) database.HealthStatus {
	return database.HealthStatus{Healthy: f.healthy, Latency: "1ms"}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Total   int64 `json:"total"`
		Limit   int   `json:"limit"`
		HasMore bool  `json:"has_more"`
	} `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type apiTest struct {
	t      *testing.T
	router *gin.Engine
	logger *mockcore.RecordingLogger
}

func newAPITest(t *testing.T, healthy bool) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mockpersistence.NewMemoryStore()
	logger := &mockcore.RecordingLogger{}
	clock := timeadapter.NewRealTimeProvider()
	validator := validation.New()
	source := random.NewCryptoSource()
	publisher := &mockcore.RecordingPublisher{}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := security.NewJWTIssuer("test-secret", "fintech-backoffice", 15*time.Minute, time.Hour, clock)

	authUC := auth.NewAuthUseCase(store, hasher, tokens, validator, logger)
	limits := limit.NewLimitService(store, validator, clock, publisher, logger)
	ledger := transaction.NewTransactionService(store, limit.NewTracker(store, clock, logger), validator, clock, source, publisher, logger, 5)
	web3Service := web3.NewWeb3Service(store, chain.NewSimulatedOracle(source, 0), cache.NewMemoryCache(clock), validator, clock, logger, web3.Options{})

	router := gin.New()
	routes.SetupMiddlewares(router, logger, clock, 5*time.Second)
	routes.SetupRoutes(router, routes.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		User:        handler.NewUserHandler(user.NewUserUseCase(store, hasher, validator, clock, logger), logger),
		Account:     handler.NewAccountHandler(account.NewAccountUseCase(store, validator, source, clock, logger), limits),
		Transaction: handler.NewTransactionHandler(ledger, logger),
		Recurring:   handler.NewRecurringHandler(recurring.NewRecurringService(store, ledger, validator, clock, publisher, logger, 10)),
		Card:        handler.NewCardHandler(card.NewCardService(store, ledger, mockcore.ReverseEncryptor{}, source, validator, clock, publisher, logger), logger),
		Web3:        handler.NewWeb3Handler(web3Service, web3Service),
		Health:      handler.NewHealthHandler(fakeHealth{healthy: healthy}, "test"),
	}, routes.Security{Auth: authUC, AdminAPIKey: adminKey})

	return &apiTest{t: t, router: router, logger: logger}
}

func (a *apiTest) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *apiTest) decode(env envelope, dst any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, dst))
}

// login registers a user and returns an access token
func (a *apiTest) login(username string) string {
	email := username + "@example.com"
	a.t.Helper()
	rec, _ := a.do(http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"email":            email,
		"username":         username,
		"password":         "correct-horse",
		"password_confirm": "correct-horse",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	a.decode(env, &tokens)
	require.Equal(a.t, "Bearer", tokens.TokenType)
	return tokens.AccessToken
}

func TestLedgerFlow(t *testing.T) {
	api := newAPITest(t, true)
	token := api.login("alice")

	rec, env := api.do(http.MethodPost, "/api/v1/accounts", token, map[string]any{
		"account_type": "checking",
		"currency":     "usd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var acct struct {
		ID               string `json:"id"`
		Currency         string `json:"currency"`
		AvailableBalance string `json:"available_balance"`
	}
	api.decode(env, &acct)
	assert.Equal(t, "USD", acct.Currency)
	assert.Equal(t, "0.00000000", acct.AvailableBalance)

	rec, env = api.do(http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"to_account_id":    acct.ID,
		"amount":           "100.5",
		"currency":         "USD",
		"transaction_type": "deposit",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx struct {
		Status          string `json:"status"`
		Amount          string `json:"amount"`
		ReferenceNumber string `json:"reference_number"`
	}
	api.decode(env, &tx)
	assert.Equal(t, "completed", tx.Status)
	assert.Equal(t, "100.50000000", tx.Amount)
	assert.NotEmpty(t, tx.ReferenceNumber)

	rec, env = api.do(http.MethodGet, "/api/v1/accounts/"+acct.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	api.decode(env, &acct)
	assert.Equal(t, "100.50000000", acct.AvailableBalance)

	t.Run("overdraft is rejected", func(t *testing.T) {
		rec, env := api.do(http.MethodPost, "/api/v1/transactions", token, map[string]any{
			"from_account_id":  acct.ID,
			"amount":           "500",
			"currency":         "USD",
			"transaction_type": "withdrawal",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	})

	t.Run("listing is paginated", func(t *testing.T) {
		rec, env := api.do(http.MethodGet, "/api/v1/transactions?limit=1", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
		assert.Equal(t, 1, env.Meta.Limit)
		assert.False(t, env.Meta.HasMore)
	})

	t.Run("other users cannot see the account", func(t *testing.T) {
		other := api.login("bob")
		rec, env := api.do(http.MethodGet, "/api/v1/accounts/"+acct.ID, other, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestRequestValidation(t *testing.T) {
	api := newAPITest(t, true)
	token := api.login("carol")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		field  string
	}{
		{"malformed body", http.MethodPost, "/api/v1/accounts", "{not json", "body"},
		{"bad path id", http.MethodGet, "/api/v1/accounts/not-a-uuid", nil, "id"},
		{"bad limit", http.MethodGet, "/api/v1/transactions?limit=abc", nil, "limit"},
		{"days out of range", http.MethodGet, "/api/v1/transactions/analytics?days=400", nil, "days"},
		{"unknown account type", http.MethodPost, "/api/v1/accounts", map[string]any{"account_type": "gold", "currency": "USD"}, "account_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := api.do(tt.method, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Contains(t, env.Error.Details, tt.field)
		})
	}
}

func TestAuthentication(t *testing.T) {
	api := newAPITest(t, true)

	t.Run("missing token", func(t *testing.T) {
		rec, env := api.do(http.MethodGet, "/api/v1/accounts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := api.do(http.MethodGet, "/api/v1/accounts", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		api.login("dave")
		rec, env := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
			"email":    "dave@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})

	t.Run("public routes need no token", func(t *testing.T) {
		rec, env := api.do(http.MethodGet, "/api/v1/transaction-categories", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}

func TestAdminRoutes(t *testing.T) {
	api := newAPITest(t, true)
	body := map[string]any{"name": "Travel", "color": "#112233"}

	rec, _ := api.do(http.MethodPost, "/api/v1/admin/transaction-categories", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(http.MethodPost, "/api/v1/admin/transaction-categories", "", body, middleware.AdminKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := api.do(http.MethodPost, "/api/v1/admin/transaction-categories", "", body, middleware.AdminKeyHeader, adminKey)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category struct {
		Name string `json:"name"`
	}
	api.decode(env, &category)
	assert.Equal(t, "Travel", category.Name)

	rec, env = api.do(http.MethodPost, "/api/v1/admin/transaction-categories", "", body, middleware.AdminKeyHeader, adminKey)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_RESOURCE", env.Error.Code)
}

func TestRequestIDAndLogging(t *testing.T) {
	api := newAPITest(t, true)

	rec, _ := api.do(http.MethodGet, "/api/v1/transaction-categories", "", nil, middleware.RequestIDHeader, "req-123")
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))

	rec, _ = api.do(http.MethodGet, "/api/v1/transaction-categories", "", nil)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	assert.Contains(t, api.logger.Messages(coreport.LogLevelInfo), "Request processed")
}

func TestHealth(t *testing.T) {
	rec, _ := newAPITest(t, true).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec, _ = newAPITest(t, false).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}
