package notification

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS || p == PlatformWeb
}

type DeviceToken struct {
	Token    string    `json:"token" db:"token"`
	UserID   string    `json:"user_id" db:"user_id"`
	Platform Platform  `json:"platform" db:"platform"`
	LastUsed time.Time `json:"last_used" db:"last_used"`
}

type RegisterDeviceRequest struct {
	Token    string   `json:"token"`
	Platform Platform `json:"platform"`
}

func (r *RegisterDeviceRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	if r.Token == "" {
		return fmt.Errorf("token is required")
	}
	if r.Platform == "" {
		r.Platform = PlatformAndroid
	}
	if !r.Platform.Valid() {
		return fmt.Errorf("platform must be one of ios, android, web")
	}
	return nil
}

// PushProvider delivers a notification to a set of devices.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []DeviceToken, title, body string, data map[string]string) error
}

const (
	ReminderTitle = "Don't break the chain"
	ReminderBody  = "You haven't logged today's progress yet."
)
