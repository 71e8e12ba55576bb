package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	billingdomain "flipfolio/internal/domain/billing"
	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
	stripeclient "flipfolio/internal/infra/stripe"
)

type fakeSessions struct {
	checkout    *stripeclient.CheckoutSession
	portalURL   string
	err         error
	lastParams  stripeclient.CheckoutParams
	checkoutHit int
	portalHit   int
}

func (f *fakeSessions) CreateCheckoutSession(ctx context.Context, p stripeclient.CheckoutParams) (*stripeclient.CheckoutSession, error) {
	f.checkoutHit++
	f.lastParams = p
	return f.checkout, f.err
}

func (f *fakeSessions) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	f.portalHit++
	return f.portalURL, f.err
}

func testStores(t *testing.T) (*entitlements.Store, *billingdomain.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:billingtest?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entitlements.Entitlement{}, &billingdomain.Payment{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM entitlements")
		db.Exec("DELETE FROM payments")
	})
	return entitlements.NewStore(db), billingdomain.NewStore(db)
}

func testHandler(t *testing.T, sessions SessionCreator) (*Handler, *entitlements.Store) {
	t.Helper()
	store, payments := testStores(t)
	catalog := plans.NewCatalog(map[plans.PriceKey]string{
		{Tier: plans.TierStarter, Interval: plans.IntervalMonth}: "price_starter_month",
		{Tier: plans.TierPro, Interval: plans.IntervalMonth}:     "price_pro_month",
		{Tier: plans.TierPro, Interval: plans.IntervalYear}:      "price_pro_year",
	}, discardLogger())
	resolver := NewDiscountResolver(&fakeValidator{}, &fakeCampaigns{}, discardLogger())
	return NewHandler(store, payments, catalog, resolver, sessions, discardLogger()), store
}

func authedRequest(t *testing.T, h gin.HandlerFunc, userID uint, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("email", "flipper@example.com")
		})
	}
	r.Handle(method, path, h)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCheckoutSessionSuccess(t *testing.T) {
	sessions := &fakeSessions{checkout: &stripeclient.CheckoutSession{
		SessionID: "cs_1",
		URL:       "https://checkout.stripe.com/c/pay/cs_1",
	}}
	h, _ := testHandler(t, sessions)

	w := authedRequest(t, h.CreateCheckoutSession, 1, http.MethodPost, "/billing/checkout", gin.H{
		"tier":        "pro",
		"interval":    "month",
		"success_url": "https://app.example.com/billing/success",
		"cancel_url":  "https://app.example.com/pricing",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cs_1")
	assert.Equal(t, 1, sessions.checkoutHit)
	assert.Equal(t, uint(1), sessions.lastParams.UserID)
	assert.Equal(t, "price_pro_month", sessions.lastParams.PriceID)
	assert.Equal(t, "flipper@example.com", sessions.lastParams.Email)
}

func TestCreateCheckoutSessionUnauthenticated(t *testing.T) {
	sessions := &fakeSessions{}
	h, _ := testHandler(t, sessions)

	w := authedRequest(t, h.CreateCheckoutSession, 0, http.MethodPost, "/billing/checkout", gin.H{
		"tier":        "pro",
		"interval":    "month",
		"success_url": "https://app.example.com/ok",
		"cancel_url":  "https://app.example.com/no",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), CodeUnauthorized)
	assert.Zero(t, sessions.checkoutHit)
}

func TestCreateCheckoutSessionRejectsUnknownTier(t *testing.T) {
	sessions := &fakeSessions{}
	h, _ := testHandler(t, sessions)

	for _, tier := range []string{"platinum", "none", ""} {
		w := authedRequest(t, h.CreateCheckoutSession, 1, http.MethodPost, "/billing/checkout", gin.H{
			"tier":        tier,
			"interval":    "month",
			"success_url": "https://app.example.com/ok",
			"cancel_url":  "https://app.example.com/no",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "tier %q", tier)
	}
	assert.Zero(t, sessions.checkoutHit, "invalid requests must never reach the billing platform")
}

func TestCreateCheckoutSessionUnconfiguredPrice(t *testing.T) {
	sessions := &fakeSessions{}
	h, _ := testHandler(t, sessions)

	// growth/month has no configured price id in the test catalog.
	w := authedRequest(t, h.CreateCheckoutSession, 1, http.MethodPost, "/billing/checkout", gin.H{
		"tier":        "growth",
		"interval":    "month",
		"success_url": "https://app.example.com/ok",
		"cancel_url":  "https://app.example.com/no",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), CodeInvalidTier)
	assert.Zero(t, sessions.checkoutHit)
}

func TestCreateCheckoutSessionUpstreamFailure(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("stripe 500")}
	h, _ := testHandler(t, sessions)

	w := authedRequest(t, h.CreateCheckoutSession, 1, http.MethodPost, "/billing/checkout", gin.H{
		"tier":        "pro",
		"interval":    "year",
		"success_url": "https://app.example.com/ok",
		"cancel_url":  "https://app.example.com/no",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), CodeUpstreamError)
}

func TestCreateBillingPortalWithoutSubscription(t *testing.T) {
	sessions := &fakeSessions{portalURL: "https://billing.stripe.com/p/session_1"}
	h, _ := testHandler(t, sessions)

	w := authedRequest(t, h.CreateBillingPortal, 42, http.MethodPost, "/billing/portal", gin.H{
		"return_url": "https://app.example.com/settings",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), CodeNoSubscription)
	assert.Zero(t, sessions.portalHit)
}

func TestCreateBillingPortalSuccess(t *testing.T) {
	sessions := &fakeSessions{portalURL: "https://billing.stripe.com/p/session_1"}
	h, store := testHandler(t, sessions)

	_, err := store.Upsert(context.Background(), entitlements.Snapshot{
		UserID:               7,
		Tier:                 plans.TierPro,
		Status:               entitlements.StatusActive,
		StripeCustomerID:     "cus_7",
		StripeSubscriptionID: "sub_7",
		StripePriceID:        "price_pro_month",
		CurrentPeriodStart:   time.Now().Add(-time.Hour),
		CurrentPeriodEnd:     time.Now().Add(720 * time.Hour),
	})
	require.NoError(t, err)

	w := authedRequest(t, h.CreateBillingPortal, 7, http.MethodPost, "/billing/portal", gin.H{
		"return_url": "https://app.example.com/settings",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "billing.stripe.com")
	assert.Equal(t, 1, sessions.portalHit)
}

func TestGetEntitlementNeverSubscribed(t *testing.T) {
	h, _ := testHandler(t, &fakeSessions{})

	w := authedRequest(t, h.GetEntitlement, 3, http.MethodGet, "/billing/entitlement", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "none", resp["tier"])
	assert.Nil(t, resp["status"])
	assert.Equal(t, "locked", resp["access"])
	assert.Empty(t, resp["capabilities"])
}

func TestGetEntitlementActiveSubscriber(t *testing.T) {
	h, store := testHandler(t, &fakeSessions{})

	_, err := store.Upsert(context.Background(), entitlements.Snapshot{
		UserID:               4,
		Tier:                 plans.TierPro,
		Status:               entitlements.StatusActive,
		StripeCustomerID:     "cus_4",
		StripeSubscriptionID: "sub_4",
		StripePriceID:        "price_pro_month",
		CurrentPeriodStart:   time.Now().Add(-time.Hour),
		CurrentPeriodEnd:     time.Now().Add(720 * time.Hour),
	})
	require.NoError(t, err)

	w := authedRequest(t, h.GetEntitlement, 4, http.MethodGet, "/billing/entitlement", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Access       string   `json:"access"`
		Capabilities []string `json:"capabilities"`
		Entitlement  struct {
			Tier   string `json:"tier"`
			Status string `json:"status"`
		} `json:"entitlement"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "full", resp.Access)
	assert.Equal(t, "pro", resp.Entitlement.Tier)
	assert.Equal(t, "active", resp.Entitlement.Status)
	assert.Contains(t, resp.Capabilities, "documents")
	assert.NotContains(t, resp.Capabilities, "portfolio_analytics")
}
