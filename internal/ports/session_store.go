package ports

import (
	"bag-delivery-service/internal/session"
	"context"
)

// SessionStore persists one user session's pipeline state so a planning
// run can be resumed later. There is exactly one state object per
// session id; stores never share state between sessions.
type SessionStore interface {
	Save(ctx context.Context, state *session.State) error
	Load(ctx context.Context, sessionID string) (*session.State, error)
	Delete(ctx context.Context, sessionID string) error
}
