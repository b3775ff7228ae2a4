package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/purnamyoga/checkout-backend/internal/aws"
	"github.com/purnamyoga/checkout-backend/internal/config"
	"github.com/purnamyoga/checkout-backend/internal/gateway"
	"github.com/purnamyoga/checkout-backend/internal/handlers"
	"github.com/purnamyoga/checkout-backend/internal/inflight"
	"github.com/purnamyoga/checkout-backend/internal/ledger"
	"github.com/purnamyoga/checkout-backend/internal/logging"
	"github.com/purnamyoga/checkout-backend/internal/metrics"
	"github.com/purnamyoga/checkout-backend/internal/notify"
	"github.com/purnamyoga/checkout-backend/internal/reconcile"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterCheckoutRoutes(r, cfg)

	return r
}

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatalw("failed to init aws clients", "error", err)
	}

	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayMerchantID, cfg.GatewayResponseKey)
	ledgerStore := ledger.NewStore(clients.DynamoDB, cfg.OrdersTable)
	guard := inflight.NewGuard()
	recorder := metrics.NewRecorder(clients.CloudWatch, logger)
	notifier := notify.NewSQSNotifier(clients.SQS, cfg.PaymentEventQueueURL)

	reconciler := reconcile.NewReconciler(
		guard,
		ledgerStore,
		gatewayClient,
		gatewayClient.ResponseKey(),
		notifier,
		recorder,
		logger,
	)

	r := setupRouter(handlers.HandlerConfig{
		Gateway:     gatewayClient,
		Reconciler:  reconciler,
		Notifier:    notifier,
		Logger:      logger,
		MerchantID:  cfg.GatewayMerchantID,
		ReturnURL:   cfg.ReturnURL(),
		RedirectURL: cfg.RedirectURL,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		logger.Infow("running local server", "addr", cfg.RunAddress)
		if err := r.Run(cfg.RunAddress); err != nil {
			logger.Fatalw("failed to run local server", "error", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
