package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCount(t *testing.T) {
	mock := &mockCloudWatch{}
	r := NewRecorder(mock, zap.NewNop().Sugar())

	r.Count(context.Background(), CallbackPersisted)

	if len(mock.inputs) != 1 {
		t.Fatalf("expected one put, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "CheckoutBackend" {
		t.Fatalf("unexpected namespace %q", *in.Namespace)
	}
	if len(in.MetricData) != 1 {
		t.Fatalf("expected one datum, got %d", len(in.MetricData))
	}
	d := in.MetricData[0]
	if *d.MetricName != CallbackPersisted || *d.Value != 1 {
		t.Fatalf("unexpected datum %+v", d)
	}
}

func TestCountSwallowsErrors(t *testing.T) {
	mock := &mockCloudWatch{err: errors.New("throttled")}
	r := NewRecorder(mock, zap.NewNop().Sugar())

	// must not panic or propagate
	r.Count(context.Background(), CallbackFailed)
}
