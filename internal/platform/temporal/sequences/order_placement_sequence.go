package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-marketplace-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the placement activity exactly once.
// A retried placement could charge stock twice, so failures surface to the caller.
func RunOrderPlacementSequence(ctx workflow.Context, input orderports.PlaceOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID)
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
