package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/billing"
	apperrors "codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/webhooks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courseUUID = "6f1c2a9e-3b7d-4c1e-9a2b-1d2e3f4a5b6c"

func init() {
	gin.SetMode(gin.TestMode)
}

type mockGateway struct {
	createFunc func(ctx context.Context, req billing.IntentRequest) (*billing.Intent, error)
	requests   []billing.IntentRequest
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, req billing.IntentRequest) (*billing.Intent, error) {
	m.requests = append(m.requests, req)

	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}

	return &billing.Intent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"}, nil
}

type mockPaymentStore struct {
	created []*payments.Payment
	err     error
	list    []payments.Payment
}

func (m *mockPaymentStore) Create(_ context.Context, p *payments.Payment) (*payments.Payment, error) {
	if m.err != nil {
		return nil, m.err
	}

	m.created = append(m.created, p)
	return p, nil
}

func (m *mockPaymentStore) ListForUser(context.Context, string) ([]payments.Payment, error) {
	return m.list, m.err
}

type mockCourses struct {
	course *courses.Course
}

func (m *mockCourses) GetByID(_ context.Context, id string) (*courses.Course, error) {
	if m.course == nil || m.course.ID != id {
		return nil, courses.ErrCourseNotFound
	}

	return m.course, nil
}

type mockReconciler struct {
	err      error
	payloads [][]byte
}

func (m *mockReconciler) Reconcile(_ context.Context, payload []byte, _ string) (*webhooks.Result, error) {
	m.payloads = append(m.payloads, payload)

	if m.err != nil {
		return nil, m.err
	}

	return &webhooks.Result{Outcome: webhooks.OutcomeApplied}, nil
}

type mockRecorder struct {
	results []string
}

func (m *mockRecorder) PaymentIntent(result string) {
	m.results = append(m.results, result)
}

type fixture struct {
	gateway    *mockGateway
	store      *mockPaymentStore
	reconciler *mockReconciler
	recorder   *mockRecorder
	router     *gin.Engine
}

// mirrors the server wiring: a fake auth middleware sets user_id from X-Test-User
func newFixture(course *courses.Course) *fixture {
	f := &fixture{
		gateway:    &mockGateway{},
		store:      &mockPaymentStore{},
		reconciler: &mockReconciler{},
		recorder:   &mockRecorder{},
	}

	requireUser := func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set("user_id", user)
			c.Next()
			return
		}

		apperrors.Unauthorized(c, "")
	}

	f.router = gin.New()
	RegisterRoutes(f.router.Group("/api"), Dependencies{
		Gateway:    f.gateway,
		Payments:   f.store,
		Courses:    &mockCourses{course: course},
		Reconciler: f.reconciler,
		Recorder:   f.recorder,
	}, requireUser, passThrough, passThrough)

	return f
}

func passThrough(c *gin.Context) {
	c.Next()
}

func (f *fixture) post(path, body, user string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	f := newFixture(nil)

	w := f.post("/api/payments/create-payment-intent", `{"amount":49.99,"currency":"USD"}`, "user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CreatePaymentIntentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_123_secret_abc", resp.ClientSecret)
	assert.Equal(t, "pi_123", resp.PaymentIntentID)

	require.Len(t, f.gateway.requests, 1)
	assert.Equal(t, int64(4999), f.gateway.requests[0].AmountMinor)
	assert.Equal(t, "usd", f.gateway.requests[0].Currency)
	assert.Equal(t, "user-1", f.gateway.requests[0].Metadata["user_id"])

	require.Len(t, f.store.created, 1)
	assert.Equal(t, payments.StatusPending, f.store.created[0].Status)
	assert.Equal(t, "pi_123", f.store.created[0].StripePaymentIntentID)
	assert.Equal(t, "card", f.store.created[0].PaymentMethod)
	assert.Equal(t, []string{"created"}, f.recorder.results)
}

func TestCreatePaymentIntent_DefaultsCurrency(t *testing.T) {
	f := newFixture(nil)

	w := f.post("/api/payments/create-payment-intent", `{"amount":10,"paymentMethod":"upi"}`, "user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usd", f.gateway.requests[0].Currency)
	assert.Equal(t, "upi", f.store.created[0].PaymentMethod)
}

func TestCreatePaymentIntent_RejectsBeforeProcessor(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		user   string
		status int
	}{
		{"unauthenticated", `{"amount":10}`, "", http.StatusUnauthorized},
		{"zero amount", `{"amount":0}`, "user-1", http.StatusBadRequest},
		{"negative amount", `{"amount":-5}`, "user-1", http.StatusBadRequest},
		{"missing amount", `{"currency":"usd"}`, "user-1", http.StatusBadRequest},
		{"sub-cent amount", `{"amount":0.001}`, "user-1", http.StatusBadRequest},
		{"malformed", `{"amount":`, "user-1", http.StatusBadRequest},
		{"string amount", `{"amount":"ten"}`, "user-1", http.StatusBadRequest},
		{"bad method", `{"amount":10,"paymentMethod":"cash"}`, "user-1", http.StatusBadRequest},
		{"bad course id", `{"amount":10,"courseId":"nope"}`, "user-1", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(nil)

			w := f.post("/api/payments/create-payment-intent", tc.body, tc.user, nil)

			assert.Equal(t, tc.status, w.Code)
			assert.Empty(t, f.gateway.requests, "processor must not be called")
			assert.Empty(t, f.store.created)
		})
	}
}

func TestCreatePaymentIntent_CoursePurchase(t *testing.T) {
	course := &courses.Course{ID: courseUUID, Slug: "fullstack-nextjs", PriceCents: 9900}

	t.Run("matching price", func(t *testing.T) {
		f := newFixture(course)

		w := f.post("/api/payments/create-payment-intent", `{"amount":99,"courseId":"`+courseUUID+`"}`, "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, courseUUID, f.gateway.requests[0].Metadata["course_id"])
		require.NotNil(t, f.store.created[0].CourseID)
		assert.Equal(t, courseUUID, *f.store.created[0].CourseID)
	})

	t.Run("price mismatch", func(t *testing.T) {
		f := newFixture(course)

		w := f.post("/api/payments/create-payment-intent", `{"amount":1,"courseId":"`+courseUUID+`"}`, "user-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, f.gateway.requests)
	})

	t.Run("unknown course", func(t *testing.T) {
		f := newFixture(nil)

		w := f.post("/api/payments/create-payment-intent", `{"amount":99,"courseId":"`+courseUUID+`"}`, "user-1", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, f.gateway.requests)
	})
}

func TestCreatePaymentIntent_ProcessorFailure(t *testing.T) {
	f := newFixture(nil)
	f.gateway.createFunc = func(context.Context, billing.IntentRequest) (*billing.Intent, error) {
		return nil, errors.New("stripe unavailable")
	}

	w := f.post("/api/payments/create-payment-intent", `{"amount":10}`, "user-1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, f.store.created)
	assert.Equal(t, []string{"failed"}, f.recorder.results)
}

func TestCreatePaymentIntent_PersistenceFailure(t *testing.T) {
	f := newFixture(nil)
	f.store.err = errors.New("insert failed")

	w := f.post("/api/payments/create-payment-intent", `{"amount":10}`, "user-1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		err       error
		status    int
		reached   bool
	}{
		{"missing signature", "", nil, http.StatusBadRequest, false},
		{"invalid signature", "t=1,v1=bad", webhooks.ErrInvalidSignature, http.StatusBadRequest, true},
		{"processing failure", "t=1,v1=ok", payments.ErrPaymentNotFound, http.StatusInternalServerError, true},
		{"success", "t=1,v1=ok", nil, http.StatusOK, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(nil)
			f.reconciler.err = tc.err

			headers := map[string]string{}
			if tc.signature != "" {
				headers["Stripe-Signature"] = tc.signature
			}

			w := f.post("/api/payments/webhook", `{"id":"evt_1"}`, "", headers)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.reached, len(f.reconciler.payloads) == 1)

			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"received":true}`, w.Body.String())
			}

			if tc.status == http.StatusBadRequest {
				assert.Contains(t, w.Body.String(), apperrors.CodeInvalidSignature)
			}
		})
	}
}

func TestWebhook_OversizedBody(t *testing.T) {
	f := newFixture(nil)

	body := bytes.Repeat([]byte("a"), maxWebhookBody+1)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=ok")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.reconciler.payloads)
}

func TestListPayments(t *testing.T) {
	f := newFixture(nil)
	f.store.list = []payments.Payment{{ID: "p-1", Status: payments.StatusCompleted}}

	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("X-Test-User", "user-1")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListPaymentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, payments.StatusCompleted, resp.Payments[0].Status)
}
