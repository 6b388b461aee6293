package doctor

import (
	"context"
	"time"

	"github.com/hay-kot/wishlist/internal/core/session"
)

// SessionSource exposes the session state. *session.Manager implements it.
type SessionSource interface {
	Session() session.Session
	ExpiresAt() (time.Time, bool)
}

// SessionCheck reports the stored login state.
type SessionCheck struct {
	source SessionSource
	now    func() time.Time
}

// NewSessionCheck creates a new session check.
func NewSessionCheck(source SessionSource) *SessionCheck {
	return &SessionCheck{source: source, now: time.Now}
}

func (c *SessionCheck) Name() string {
	return "Session"
}

func (c *SessionCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	sess := c.source.Session()

	if sess.Status == session.StatusUnauthenticated {
		result.Items = append(result.Items, CheckItem{
			Label:  "Logged in",
			Status: StatusWarn,
			Detail: "only the local wishlist is available, run 'wishlist login'",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "Logged in",
		Status: StatusPass,
		Detail: sess.Username,
	})

	if exp, ok := c.source.ExpiresAt(); ok && !exp.After(c.now()) {
		item := CheckItem{Label: "Access token", Status: StatusPass, Detail: "expired, refreshed on next request"}
		if sess.RefreshToken == "" {
			item.Status = StatusFail
			item.Detail = "expired and no refresh token stored, log in again"
		}
		result.Items = append(result.Items, item)
	}

	return result
}
