// Package metrics records reconciliation outcome counters in CloudWatch.
package metrics

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/purnamyoga/checkout-backend/internal/aws"
)

const namespace = "CheckoutBackend"

// Metric names emitted by the reconciler and worker.
const (
	CallbackPersisted         = "CallbackPersisted"
	CallbackDuplicate         = "CallbackDuplicate"
	CallbackBusy              = "CallbackBusy"
	CallbackSignatureMismatch = "CallbackSignatureMismatch"
	CallbackFailed            = "CallbackFailed"
	SheetRowDelivered         = "SheetRowDelivered"
)

// Recorder emits count metrics best-effort; failures are logged, never
// returned.
type Recorder struct {
	client aws.CloudWatchAPI
	logger *zap.SugaredLogger
}

func NewRecorder(client aws.CloudWatchAPI, logger *zap.SugaredLogger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// Count bumps metric by one.
func (r *Recorder) Count(ctx context.Context, metric string) {
	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(metric),
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		r.logger.Warnw("failed to put metric", "metric", metric, "error", err)
	}
}
