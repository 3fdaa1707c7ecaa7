package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"classmarket/internal/config"
	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/policy"
	"classmarket/internal/pkg/jwt"
	applog "classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
)

const testSecret = "server-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testApp struct {
	router  *gin.Engine
	db      *gorm.DB
	partner string
	admin   string
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:server_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	cfg := &config.Config{
		AppEnv:            "test",
		JWTSecret:         testSecret,
		JWTAccessTTL:      time.Hour,
		ReportLocation:    time.UTC,
		DashboardRefresh:  time.Minute,
		DefaultCommission: policy.DefaultCommissionConfig(),
		MetricsNamespace:  "test",
	}
	r, err := Build(context.Background(), cfg, db, applog.Nop(), metrics.New("test"))
	require.NoError(t, err)

	tokens := jwt.New(testSecret, time.Hour)
	partner, err := tokens.GenerateToken(11, jwt.RolePartner)
	require.NoError(t, err)
	admin, err := tokens.GenerateToken(1, jwt.RoleAdmin)
	require.NoError(t, err)

	return &testApp{router: r, db: db, partner: partner, admin: admin}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr.Code, env
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	app := setupTestApp(t)

	code, _ := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRoleGates(t *testing.T) {
	app := setupTestApp(t)

	code, _ := app.do(t, http.MethodGet, "/api/v1/partner/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/admin/settings/commission", app.partner, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/partner/dashboard", app.admin, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPartnerDashboardFlow(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	repo := booking.NewBookingRepository(app.db)

	now := time.Now().UTC()
	seed := []booking.Booking{
		{PartnerID: 11, CustomerID: "A", ListingID: "l1", ListingTitle: "Wheel Throwing", BookedAt: now.Add(-time.Hour), TotalAmount: decimal.NewFromInt(100), BookingStatus: booking.StatusConfirmed},
		{PartnerID: 11, CustomerID: "A", ListingID: "l1", ListingTitle: "Wheel Throwing", BookedAt: now.Add(-48 * time.Hour), TotalAmount: decimal.NewFromInt(200), BookingStatus: booking.StatusConfirmed},
		{PartnerID: 11, CustomerID: "B", ListingID: "l2", ListingTitle: "Glazing", BookedAt: now.Add(-72 * time.Hour), TotalAmount: decimal.NewFromInt(50), BookingStatus: booking.StatusPending},
		{PartnerID: 12, CustomerID: "Z", ListingID: "l9", ListingTitle: "Other", BookedAt: now.Add(-time.Hour), TotalAmount: decimal.NewFromInt(999), BookingStatus: booking.StatusConfirmed},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	code, _ := app.do(t, http.MethodPatch, "/api/v1/partner/bookings/"+seed[1].ID+"/attendance", app.partner, map[string]string{"status": "attended"})
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/admin/partners/11/payouts/credit", app.admin,
		map[string]any{"booking_id": seed[0].ID})
	require.Equal(t, http.StatusCreated, code)

	code, env := app.do(t, http.MethodGet, "/api/v1/partner/dashboard?period=7d", app.partner, nil)
	require.Equal(t, http.StatusOK, code)

	var snap struct {
		Revenue struct {
			WindowRevenue string `json:"window_revenue"`
		} `json:"revenue"`
		CustomerSegmentation struct {
			TotalCustomers     int `json:"total_customers"`
			ReturningCustomers int `json:"returning_customers"`
		} `json:"customer_segmentation"`
		Attendance struct {
			AttendanceRate float64 `json:"attendance_rate"`
		} `json:"attendance"`
		FinancialSummary struct {
			PendingBalance string `json:"pending_balance"`
		} `json:"financial_summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "350", snap.Revenue.WindowRevenue)
	assert.Equal(t, 2, snap.CustomerSegmentation.TotalCustomers)
	assert.Equal(t, 1, snap.CustomerSegmentation.ReturningCustomers)
	assert.Equal(t, 100.0, snap.Attendance.AttendanceRate)
	assert.Equal(t, "90", snap.FinancialSummary.PendingBalance)
}

func TestAdminPolicyChangeAffectsQuotes(t *testing.T) {
	app := setupTestApp(t)

	code, env := app.do(t, http.MethodPost, "/api/v1/policies/refund-quote", app.partner,
		map[string]any{"amount": "500", "hours_before_start": 3})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"refund_amount":"150"`)

	code, _ = app.do(t, http.MethodPut, "/api/v1/admin/settings/cancellation-policy", app.admin,
		map[string]any{"windows": []map[string]any{
			{"min_hours": 0, "max_hours": 12, "refund_pct": 0},
			{"min_hours": 12, "refund_pct": 100},
		}})
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/policies/refund-quote", app.partner,
		map[string]any{"amount": "500", "hours_before_start": 3})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"refund_pct":0`)

	code, _ = app.do(t, http.MethodPut, "/api/v1/admin/settings/commission", app.admin,
		map[string]any{"standard_pct": 20, "subscriber_pct": 10})
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/policies/commission-quote", app.partner,
		map[string]any{"amount": "1000", "is_subscriber": false})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"commission":"200"`)
}
