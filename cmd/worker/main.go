package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/purnamyoga/checkout-backend/internal/aws"
	"github.com/purnamyoga/checkout-backend/internal/logging"
	"github.com/purnamyoga/checkout-backend/internal/metrics"
	"github.com/purnamyoga/checkout-backend/internal/sheets"
)

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatalw("failed to init aws clients", "error", err)
	}

	sheetClient := sheets.NewClient(os.Getenv("PAYMENT_SHEET_URL"), os.Getenv("PAYMENT_SHEET_KEY"))
	recorder := metrics.NewRecorder(clients.CloudWatch, logger)
	processor := NewProcessor(sheetClient, recorder, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"order_local-1","status":"CHARGED","amount":900,"currency":"INR"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					Body: testBody,
				},
			},
		}
		if err := processor.Handle(context.Background(), event); err != nil {
			logger.Fatalw("local handler error", "error", err)
		}
		return
	}

	lambda.Start(processor.Handle)
}
