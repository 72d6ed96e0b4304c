package payments

import (
	"github.com/gin-gonic/gin"
)

// registers payment routes; limit guards intent creation and webhookLimit the processor callback
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies, requireUser, limit, webhookLimit gin.HandlerFunc) {
	paymentsGroup := router.Group("/payments")
	{
		paymentsGroup.POST("/create-payment-intent", requireUser, limit, CreatePaymentIntentHandler(deps))
		paymentsGroup.POST("/webhook", webhookLimit, WebhookHandler(deps.Reconciler))
		paymentsGroup.GET("", requireUser, ListPaymentsHandler(deps.Payments))
	}
}
