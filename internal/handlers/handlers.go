package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/purnamyoga/checkout-backend/internal/catalog"
	"github.com/purnamyoga/checkout-backend/internal/gateway"
	"github.com/purnamyoga/checkout-backend/internal/ledger"
	"github.com/purnamyoga/checkout-backend/internal/notify"
	"github.com/purnamyoga/checkout-backend/internal/reconcile"
	"github.com/purnamyoga/checkout-backend/internal/validation"
)

// Generic plain-text failure bodies. Callback failures are deliberately
// opaque: the response never reveals whether a signature check or an
// internal step failed. Logs carry the distinction.
const (
	msgGenericFailure = "something went wrong"
	msgGatewayFailure = "payment gateway returned an error"
	msgBusy           = "order is currently being processed"
)

// GatewayAPI is the provider surface the handlers need.
type GatewayAPI interface {
	OrderSession(ctx context.Context, payload gateway.SessionPayload) (*gateway.SessionResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*gateway.StatusResponse, error)
	Refund(ctx context.Context, payload gateway.RefundPayload) (*gateway.RefundResponse, error)
}

// HandlerConfig groups dependencies for the checkout handlers.
type HandlerConfig struct {
	Gateway     GatewayAPI
	Reconciler  *reconcile.Reconciler
	Notifier    notify.Notifier
	Logger      *zap.SugaredLogger
	MerchantID  string
	ReturnURL   string
	RedirectURL string
}

// RegisterCheckoutRoutes registers the checkout API routes.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/initiatePayment", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateSessionRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		product, err := catalog.Lookup(req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing product_id"})
			return
		}

		orderID := gateway.GenerateOrderID()

		// Audit row for the created session; delivery is best-effort.
		ev := notify.Event{
			OrderID:     orderID,
			Status:      ledger.StatusCreated,
			Amount:      product.Price,
			Currency:    product.Currency,
			Email:       req.Email,
			Phone:       req.Phone,
			Name:        req.Name,
			ProductID:   req.ProductID,
			RawResponse: "Order created",
		}
		if err := cfg.Notifier.Publish(ctx, ev); err != nil {
			cfg.Logger.Warnw("failed to publish session-created event", "order_id", orderID, "error", err)
		}

		sessionResp, err := cfg.Gateway.OrderSession(ctx, gateway.SessionPayload{
			OrderID:    orderID,
			Amount:     product.Price,
			Currency:   product.Currency,
			ReturnURL:  cfg.ReturnURL,
			CustomerID: cfg.MerchantID,
			Email:      req.Email,
			Phone:      req.Phone,
			Name:       req.Name,
		})
		if err != nil {
			var apiErr *gateway.APIError
			if errors.As(err, &apiErr) {
				cfg.Logger.Errorw("gateway session creation failed", "order_id", orderID, "status_code", apiErr.StatusCode, "error", err)
				c.String(http.StatusOK, msgGatewayFailure)
				return
			}
			cfg.Logger.Errorw("session creation failed", "order_id", orderID, "error", err)
			c.String(http.StatusOK, msgGenericFailure)
			return
		}

		c.JSON(http.StatusOK, gin.H{"paymentUrl": sessionResp.PaymentLinks.Web})
	})

	r.POST("/handlePaymentResponse", func(c *gin.Context) {
		params := callbackParams(c)

		res := cfg.Reconciler.Process(c.Request.Context(), params)

		switch res.Outcome {
		case reconcile.OutcomeBusy:
			c.String(http.StatusConflict, msgBusy)
		case reconcile.OutcomePersisted:
			c.Redirect(http.StatusFound, cfg.RedirectURL+"?order_id="+url.QueryEscape(res.OrderID))
		case reconcile.OutcomeDuplicate:
			c.Redirect(http.StatusFound, cfg.RedirectURL+"?order_id="+url.QueryEscape(res.OrderID)+"&status=duplicate")
		default:
			// missing order id, bad signature, internal failure
			c.String(http.StatusOK, msgGenericFailure)
		}
	})

	r.POST("/initiateRefund", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.RefundRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		uniqueRequestID := req.UniqueRequestID
		if uniqueRequestID == "" {
			uniqueRequestID = gateway.GenerateRefundRequestID()
		}

		refundResp, err := cfg.Gateway.Refund(ctx, gateway.RefundPayload{
			OrderID:         req.OrderID,
			Amount:          req.Amount,
			UniqueRequestID: uniqueRequestID,
		})
		if err != nil {
			var apiErr *gateway.APIError
			if errors.As(err, &apiErr) {
				cfg.Logger.Errorw("gateway refund failed", "order_id", req.OrderID, "status_code", apiErr.StatusCode, "error", err)
				c.String(http.StatusOK, msgGatewayFailure)
				return
			}
			cfg.Logger.Errorw("refund failed", "order_id", req.OrderID, "error", err)
			c.String(http.StatusOK, msgGenericFailure)
			return
		}

		ev := notify.Event{
			OrderID:     req.OrderID,
			Status:      "REFUND_" + refundResp.Status,
			Amount:      req.Amount,
			RawResponse: string(refundResp.Raw),
		}
		if err := cfg.Notifier.Publish(ctx, ev); err != nil {
			cfg.Logger.Warnw("failed to publish refund event", "order_id", req.OrderID, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":          req.OrderID,
			"refund_status":     refundResp.Status,
			"unique_request_id": uniqueRequestID,
		})
	})

	r.GET("/orders/:orderId", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("orderId")

		statusResp, err := cfg.Gateway.OrderStatus(ctx, orderID)
		if err != nil {
			var apiErr *gateway.APIError
			if errors.As(err, &apiErr) {
				cfg.Logger.Errorw("gateway order status failed", "order_id", orderID, "status_code", apiErr.StatusCode, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "payment gateway returned an error"})
				return
			}
			cfg.Logger.Errorw("order status failed", "order_id", orderID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
			return
		}

		c.Data(http.StatusOK, "application/json", statusResp.Raw)
	})
}

// callbackParams flattens the callback body into string parameters. The
// gateway posts form-encoded fields; JSON bodies are accepted too since some
// provider configurations deliver webhooks that way.
func callbackParams(c *gin.Context) map[string]string {
	params := map[string]string{}

	if strings.Contains(c.ContentType(), "application/json") {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			return params
		}
		for k, val := range body {
			switch t := val.(type) {
			case string:
				params[k] = t
			case float64:
				params[k] = strconv.FormatFloat(t, 'f', -1, 64)
			case bool:
				params[k] = strconv.FormatBool(t)
			case nil:
				// skip
			default:
				b, _ := json.Marshal(t)
				params[k] = string(b)
			}
		}
		return params
	}

	if err := c.Request.ParseForm(); err != nil {
		return params
	}
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return params
}
