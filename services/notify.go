package services

import (
	"context"

	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// notifier emails profiles outside of the request that triggered it.
type notifier struct {
	store  repository.Store
	mailer notifications.Mailer
	logger *zap.Logger
	async  func(func())
}

func newNotifier(store repository.Store, mailer notifications.Mailer, logger *zap.Logger) notifier {
	if mailer == nil {
		mailer = notifications.Discard{}
	}
	return notifier{store: store, mailer: mailer, logger: logger, async: func(f func()) { go f() }}
}

func (n notifier) emailProfile(profileID uuid.UUID, build func() notifications.Email) {
	n.async(func() {
		profile, err := n.store.GetProfile(context.Background(), profileID)
		if err != nil {
			n.logger.Warn("could not load email recipient", zap.String("profile_id", profileID.String()), zap.Error(err))
			return
		}
		email := build()
		n.mailer.SendEmail(profile.FullName, profile.Email, email.Subject, email.HTML)
	})
}
