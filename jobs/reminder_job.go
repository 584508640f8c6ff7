package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/repository"
	"go.uber.org/zap"
)

// SendDeliveryReminders emails tutors whose in-progress orders fall due in
// the coming day. The window is one hour wide so an hourly run reminds about
// each order once.
func (r *Runner) SendDeliveryReminders() {
	r.logger.Debug("running job: SendDeliveryReminders")

	now := r.now()
	lowerBound := now.Add(23 * time.Hour)
	upperBound := now.Add(24 * time.Hour)

	orders, err := r.store.ListOrders(context.Background(), repository.OrderFilter{
		Status:    models.OrderInProgress,
		DueAfter:  &lowerBound,
		DueBefore: &upperBound,
	})
	if err != nil {
		r.logger.Error("could not check for orders due soon", zap.Error(err))
		return
	}

	for _, order := range orders {
		if order.Tutor == nil {
			continue
		}
		r.logger.Info("sending delivery reminder", zap.String("order_id", order.ID.String()))
		email := notifications.DeliveryReminder(order.Title, order.Reference, order.DeliveryDate)
		go r.mailer.SendEmail(order.Tutor.FullName, order.Tutor.Email, email.Subject, email.HTML)
	}
}
