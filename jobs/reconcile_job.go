package jobs

import (
	"context"
	"errors"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/repository"
	"go.uber.org/zap"
)

// ReconcilePayments starts work on orders that are still pending although
// their payment has completed.
func (r *Runner) ReconcilePayments() {
	r.logger.Debug("running job: ReconcilePayments")
	ctx := context.Background()

	orders, err := r.store.ListPendingOrdersWithCompletedPayment(ctx)
	if err != nil {
		r.logger.Error("could not list orders to reconcile", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		return
	}

	advanced := 0
	for _, order := range orders {
		err := r.store.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderInProgress)
		if errors.Is(err, repository.ErrConflict) {
			// cancelled since it was listed
			continue
		}
		if err != nil {
			r.logger.Error("could not advance paid order", zap.String("order_id", order.ID.String()), zap.Error(err))
			continue
		}
		advanced++
	}

	r.logger.Info("reconciled paid orders", zap.Int("advanced", advanced), zap.Int("found", len(orders)))
}
