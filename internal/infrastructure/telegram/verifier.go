package telegram

import (
	"fmt"
	"time"
)

// Verifier verifies init data for one bot. Configuration is fixed at
// construction; the zero MaxAge disables the auth_date freshness check.
type Verifier struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	return &Verifier{botToken: botToken, maxAge: maxAge, now: time.Now}
}

// Verify runs Verify with the configured bot token and then, when MaxAge is
// set, rejects payloads whose auth_date is missing or older than MaxAge.
func (v *Verifier) Verify(raw string) (*InitData, error) {
	data, err := Verify(raw, v.botToken)
	if err != nil {
		return nil, err
	}
	if v.maxAge > 0 {
		if data.AuthDate.IsZero() {
			return nil, fmt.Errorf("%w: auth_date is missing", ErrExpired)
		}
		if age := v.now().Sub(data.AuthDate); age > v.maxAge {
			return nil, fmt.Errorf("%w: issued %s ago", ErrExpired, age.Truncate(time.Second))
		}
	}
	return data, nil
}
