package payments

import (
	stderrors "errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/billing"
	"codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/logger"
	"codeberg.org/codewithacp/server/internal/webhooks"
	"github.com/gin-gonic/gin"
)

// CreatePaymentIntentHandler godoc
// @Summary Create a payment intent
// @Description Creates a Stripe payment intent for the authenticated user and records it as pending
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentIntentRequest true "Amount in major units"
// @Success 200 {object} CreatePaymentIntentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/payments/create-payment-intent [post]
// @Security BearerAuth
func CreatePaymentIntentHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req CreatePaymentIntentRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		if req.Amount <= 0 {
			errors.BadRequest(c, "invalid amount", nil)
			return
		}

		amount := billing.ToMinorUnits(req.Amount)
		if amount <= 0 {
			errors.BadRequest(c, "invalid amount", nil)
			return
		}

		method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
		if method == "" {
			method = "card"
		}

		if !slices.Contains(allowedPaymentMethods, method) {
			errors.BadRequest(c, "unsupported payment method", nil)
			return
		}

		ctx := c.Request.Context()
		metadata := map[string]string{"user_id": userID}

		var courseID *string

		if req.CourseID != "" {
			if !errors.IsValidUUID(req.CourseID) {
				errors.BadRequest(c, "invalid course id", nil)
				return
			}

			course, err := deps.Courses.GetByID(ctx, req.CourseID)
			if stderrors.Is(err, courses.ErrCourseNotFound) {
				errors.NotFound(c, "course")
				return
			}

			if err != nil {
				errors.InternalError(c, "failed to load course", err)
				return
			}

			if course.IsFree || course.PriceCents != amount {
				errors.BadRequest(c, "amount does not match course price", nil)
				return
			}

			courseID = &course.ID
			metadata["course_id"] = course.ID
		}

		if req.PlanID != "" {
			metadata["plan_id"] = req.PlanID
		}

		currency := billing.NormalizeCurrency(req.Currency)

		intent, err := deps.Gateway.CreatePaymentIntent(ctx, billing.IntentRequest{
			AmountMinor:   amount,
			Currency:      currency,
			PaymentMethod: method,
			Metadata:      metadata,
		})

		if err != nil {
			record(deps.Recorder, "failed")
			errors.InternalError(c, "failed to create payment intent", err)
			return
		}

		_, err = deps.Payments.Create(ctx, &payments.Payment{
			UserID:                userID,
			CourseID:              courseID,
			StripePaymentIntentID: intent.ID,
			Amount:                amount,
			Currency:              currency,
			PaymentMethod:         method,
			Status:                payments.StatusPending,
		})

		if err != nil {
			record(deps.Recorder, "failed")
			errors.InternalError(c, "failed to record payment", err)
			return
		}

		record(deps.Recorder, "created")

		logger.FromContext(ctx).Info("payment intent created",
			"payment_intent_id", intent.ID,
			"amount", amount,
			"currency", currency,
		)

		c.JSON(http.StatusOK, CreatePaymentIntentResponse{
			ClientSecret:    intent.ClientSecret,
			PaymentIntentID: intent.ID,
		})
	}
}

// WebhookHandler godoc
// @Summary Stripe webhook
// @Description Receives signed Stripe events and reconciles payment status
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} WebhookResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/payments/webhook [post]
func WebhookHandler(reconciler Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("Stripe-Signature")
		if signature == "" {
			errors.InvalidSignature(c, "no signature", nil)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			errors.BadRequest(c, "failed to read request body", err)
			return
		}

		_, err = reconciler.Reconcile(c.Request.Context(), payload, signature)

		if webhooks.IsSignatureError(err) {
			errors.InvalidSignature(c, "invalid signature", err)
			return
		}

		if err != nil {
			errors.InternalError(c, "webhook processing failed", err)
			return
		}

		c.JSON(http.StatusOK, WebhookResponse{Received: true})
	}
}

// ListPaymentsHandler godoc
// @Summary List my payments
// @Description Returns the authenticated user's payments, newest first
// @Tags payments
// @Produce json
// @Success 200 {object} ListPaymentsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/payments [get]
// @Security BearerAuth
func ListPaymentsHandler(store PaymentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		list, err := store.ListForUser(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to list payments", err)
			return
		}

		c.JSON(http.StatusOK, ListPaymentsResponse{Payments: list})
	}
}

func record(recorder Recorder, result string) {
	if recorder != nil {
		recorder.PaymentIntent(result)
	}
}
