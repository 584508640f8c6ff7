package jobs

import (
	"time"

	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	ReconcileSchedule = "*/5 * * * *"
	ReminderSchedule  = "0 * * * *"
)

// Runner holds what the scheduled jobs need. Each job is safe to run at any
// time and logs instead of returning errors, as cron has nowhere to send them.
type Runner struct {
	store  repository.Store
	mailer notifications.Mailer
	logger *zap.Logger
	now    func() time.Time
}

func NewRunner(store repository.Store, mailer notifications.Mailer, logger *zap.Logger) *Runner {
	return &Runner{store: store, mailer: mailer, logger: logger.Named("jobs"), now: time.Now}
}

func (r *Runner) Schedule(c *cron.Cron) error {
	if _, err := c.AddFunc(ReconcileSchedule, r.ReconcilePayments); err != nil {
		return err
	}
	if _, err := c.AddFunc(ReminderSchedule, r.SendDeliveryReminders); err != nil {
		return err
	}
	return nil
}
