package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/go-marketplace-api/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

type stubService struct {
	ports.Service
	calls int
}

func (s *stubService) PlaceOrder(context.Context, ports.PlaceOrderInput) (*domain.Order, error) {
	s.calls++
	return &domain.Order{ID: "o-1", Status: domain.StatusPaid}, nil
}

func TestBuildOrderPlacementWorkflowID(t *testing.T) {
	a := buildOrderPlacementWorkflowID(ports.PlaceOrderInput{UserID: "u-1", IdempotencyKey: "k"}, "trace")
	b := buildOrderPlacementWorkflowID(ports.PlaceOrderInput{UserID: "u-1", IdempotencyKey: " k "}, "other")
	c := buildOrderPlacementWorkflowID(ports.PlaceOrderInput{UserID: "u-2", IdempotencyKey: "k"}, "trace")

	assert.True(t, strings.HasPrefix(a, "order-placement-idem-"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "order-placement-u-1-trace", buildOrderPlacementWorkflowID(ports.PlaceOrderInput{UserID: "u-1"}, "trace"))
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	svc := &stubService{}
	order, err := NewInlineOrderWorkflows(svc).PlaceOrder(context.Background(), ports.PlaceOrderInput{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)
	assert.Equal(t, 1, svc.calls)

	_, err = NewInlineOrderWorkflows(nil).PlaceOrder(context.Background(), ports.PlaceOrderInput{})
	assert.Error(t, err)
}

func TestTemporalOrderWorkflows_ReturnsWorkflowResult(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == orderworkflows.OrderPlacementTaskQueue
	}), orderworkflows.OrderPlacementWorkflowName, mock.Anything).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*domain.Order) = domain.Order{ID: "o-9", Status: domain.StatusPaid}
	}).Return(nil).Once()

	order, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), ports.PlaceOrderInput{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-9", order.ID)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalOrderWorkflows_DecodesFailures(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).
		Return(temporal.NewNonRetryableApplicationError("order must contain at least one item", string(failure.KindEmptyOrder), nil)).Once()

	_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), ports.PlaceOrderInput{UserID: "u-1"})
	assert.ErrorIs(t, err, failure.ErrEmptyOrder)
	assert.Equal(t, "order must contain at least one item", err.Error())
}

func TestTemporalOrderWorkflows_StartOptions(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	input := ports.PlaceOrderInput{UserID: "u-1", IdempotencyKey: "k"}
	wantID := buildOrderPlacementWorkflowID(input, "")
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.ID == wantID &&
			o.WorkflowExecutionTimeout == orderPlacementTimeout &&
			!o.WorkflowExecutionErrorWhenAlreadyStarted
	}), orderworkflows.OrderPlacementWorkflowName, mock.Anything).Return(run, nil).Once()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*domain.Order) = domain.Order{ID: "o-1"}
	}).Return(nil).Once()

	order, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)
	c.AssertExpectations(t)
}

func TestTemporalOrderWorkflows_StartFailureIsReturned(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("namespace not found")).Once()

	_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), ports.PlaceOrderInput{UserID: "u-1", IdempotencyKey: "k"})
	require.Error(t, err)
	c.AssertNotCalled(t, "GetWorkflow", mock.Anything, mock.Anything, mock.Anything)
	c.AssertExpectations(t)
}
