package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret = "test-secret"
	userID    = "user-1"
)

type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) ListPortfolios(ctx context.Context, ownerID string) (model.OwnerPortfolios, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(model.OwnerPortfolios), args.Error(1)
}

func (m *MockPortfolioService) CreatePortfolio(ctx context.Context, ownerID string, req portfolioService.NewPortfolio) (model.Portfolio, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(model.Portfolio), args.Error(1)
}

func (m *MockPortfolioService) AddAsset(ctx context.Context, ownerID string, portfolioID uuid.UUID, req portfolioService.NewAsset) (model.Portfolio, error) {
	args := m.Called(ctx, ownerID, portfolioID, req)
	return args.Get(0).(model.Portfolio), args.Error(1)
}

func (m *MockPortfolioService) RemoveAsset(ctx context.Context, ownerID string, portfolioID, assetID uuid.UUID) (model.Portfolio, error) {
	args := m.Called(ctx, ownerID, portfolioID, assetID)
	return args.Get(0).(model.Portfolio), args.Error(1)
}

func (m *MockPortfolioService) GetPerformance(ctx context.Context, userID string, portfolioID uuid.UUID) (model.PerformanceView, error) {
	args := m.Called(ctx, userID, portfolioID)
	return args.Get(0).(model.PerformanceView), args.Error(1)
}

func (m *MockPortfolioService) GetPerformanceReport(ctx context.Context, userID string, portfolioID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, userID, portfolioID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func newTestRouter(srv PortfolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewController(srv).RegisterRoutes(r, jwtSecret)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealth_NoAuth(t *testing.T) {
	r := newTestRouter(new(MockPortfolioService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListPortfolios_RequiresAuth(t *testing.T) {
	r := newTestRouter(new(MockPortfolioService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListPortfolios(t *testing.T) {
	srv := new(MockPortfolioService)
	own := model.Portfolio{ID: uuid.New(), OwnerID: userID, Name: "Main"}
	srv.On("ListPortfolios", mock.Anything, userID).Return(model.OwnerPortfolios{Own: []model.Portfolio{own}}, nil)

	w := do(t, newTestRouter(srv), http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.Len(t, res["ownPortfolios"], 1)
	assert.Empty(t, res["familyPortfolios"])
}

func TestCreatePortfolio_Validation(t *testing.T) {
	srv := new(MockPortfolioService)
	srv.On("CreatePortfolio", mock.Anything, userID, mock.Anything).
		Return(model.Portfolio{}, errors.Join(service.ErrValidation, errors.New("familyMemberId is required")))

	w := do(t, newTestRouter(srv), http.MethodPost, "/api/portfolio", `{"name":"Family","isFamilyPortfolio":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, newTestRouter(srv), http.MethodPost, "/api/portfolio", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	srv.AssertNumberOfCalls(t, "CreatePortfolio", 1)
}

func TestAddAsset(t *testing.T) {
	srv := new(MockPortfolioService)
	portfolioID := uuid.New()
	price := decimal.NewFromInt(3500)
	returned := model.Portfolio{ID: portfolioID, OwnerID: userID, Assets: []model.Asset{{
		ID:           uuid.New(),
		Symbol:       "TCS",
		Quantity:     decimal.NewFromInt(2),
		AveragePrice: decimal.NewFromInt(3000),
		CurrentPrice: price,
		PriceHistory: []model.PricePoint{{Date: time.Now(), Price: price}},
	}}}
	srv.On("AddAsset", mock.Anything, userID, portfolioID, mock.MatchedBy(func(req portfolioService.NewAsset) bool {
		return req.Symbol == "TCS" && req.Quantity.Equal(decimal.NewFromInt(2))
	})).Return(returned, nil)

	w := do(t, newTestRouter(srv), http.MethodPost, "/api/portfolio/"+portfolioID.String()+"/assets",
		`{"symbol":"TCS","quantity":2,"averagePrice":3000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	res := decode(t, w)
	assets := res["assets"].([]any)
	require.Len(t, assets, 1)
	assert.InDelta(t, 3500.0, assets[0].(map[string]any)["currentPrice"], 1e-9)
}

func TestAddAsset_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"lookup failed", errors.Join(service.ErrPriceUnavailable, errors.New("timeout")), http.StatusBadGateway, "failed to add asset"},
		{"unknown portfolio", service.ErrNotFound, http.StatusNotFound, "Portfolio not found"},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError, "failed to add asset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := new(MockPortfolioService)
			srv.On("AddAsset", mock.Anything, userID, mock.Anything, mock.Anything).Return(model.Portfolio{}, tt.err)

			w := do(t, newTestRouter(srv), http.MethodPost, "/api/portfolio/"+uuid.NewString()+"/assets",
				`{"symbol":"TCS","quantity":1,"averagePrice":1}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, decode(t, w)["error"])
		})
	}
}

func TestRemoveAsset_NotFound(t *testing.T) {
	srv := new(MockPortfolioService)
	srv.On("RemoveAsset", mock.Anything, userID, mock.Anything, mock.Anything).Return(model.Portfolio{}, service.ErrAssetNotFound)

	w := do(t, newTestRouter(srv), http.MethodDelete, "/api/portfolio/"+uuid.NewString()+"/assets/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Asset not found", decode(t, w)["error"])
}

func TestGetPerformance_BadID(t *testing.T) {
	srv := new(MockPortfolioService)

	w := do(t, newTestRouter(srv), http.MethodGet, "/api/portfolio/not-a-uuid/performance", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Portfolio not found", decode(t, w)["error"])
	srv.AssertNotCalled(t, "GetPerformance", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPerformance_Numbers(t *testing.T) {
	srv := new(MockPortfolioService)
	portfolioID := uuid.New()
	srv.On("GetPerformance", mock.Anything, userID, portfolioID).Return(model.PerformanceView{
		PortfolioID:           portfolioID,
		TotalValue:            decimal.NewFromInt(1200),
		TotalCost:             decimal.NewFromInt(1000),
		TotalProfit:           decimal.NewFromInt(200),
		TotalProfitPercentage: decimal.NewFromInt(20),
	}, nil)

	w := do(t, newTestRouter(srv), http.MethodGet, "/api/portfolio/"+portfolioID.String()+"/performance", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.Equal(t, 1200.0, res["totalValue"])
	assert.Equal(t, 20.0, res["totalProfitPercentage"])
	assert.Nil(t, res["dayChange"])
}

func TestGetPerformanceReport(t *testing.T) {
	srv := new(MockPortfolioService)
	portfolioID := uuid.New()
	srv.On("GetPerformanceReport", mock.Anything, userID, portfolioID).Return([]byte("xlsx-bytes"), ".xlsx", nil)

	w := do(t, newTestRouter(srv), http.MethodGet, "/api/portfolio/"+portfolioID.String()+"/performance/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "xlsx-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}
