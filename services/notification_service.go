package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitChallengeAPI/internal/notification"
	"fitChallengeAPI/internal/progress"
	"fitChallengeAPI/internal/session"
)

type NotificationService struct {
	store DeviceStore
	push  notification.PushProvider
	log   *zap.Logger
	now   func() time.Time
}

func NewNotificationService(store DeviceStore, log *zap.Logger) *NotificationService {
	return &NotificationService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// SetPushProvider injects the push transport from main.go.
func (s *NotificationService) SetPushProvider(provider notification.PushProvider) {
	s.push = provider
}

func (s *NotificationService) RegisterDevice(ctx context.Context, sess *session.Session, req *notification.RegisterDeviceRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.store.UpsertDeviceToken(ctx, &notification.DeviceToken{
		Token:    req.Token,
		UserID:   sess.UserID,
		Platform: req.Platform,
		LastUsed: s.now(),
	})
}

// SendReminders pushes a reminder to every device whose owner has not logged
// today in a running challenge. It returns the number of devices targeted.
func (s *NotificationService) SendReminders(ctx context.Context) (int, error) {
	if s.push == nil {
		s.log.Warn("push provider not configured, skipping reminders")
		return 0, nil
	}

	today := progress.Day(s.now())
	tokens, err := s.store.ReminderTokens(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to load reminder targets: %w", err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	data := map[string]string{
		"type": "progress_reminder",
		"date": progress.DateKey(today),
	}
	if err := s.push.SendPush(ctx, tokens, notification.ReminderTitle, notification.ReminderBody, data); err != nil {
		return 0, fmt.Errorf("failed to send reminders: %w", err)
	}

	return len(tokens), nil
}
