package repository

import (
	"context"

	"telegram-store-bot/internal/domain/model"
)

// SessionRepository maps a session key to the dialog state persisted for
// it. Get returns model.StateStart for a key that was never written; a
// session exists implicitly from the first event. There is no delete and
// no TTL management: eviction is left to the store.
//
// The session key doubles as the commerce cart ID. Keep it that way; do
// not "fix" the aliasing with a separate mapping.
type SessionRepository interface {
	Get(ctx context.Context, key string) (model.State, error)
	Set(ctx context.Context, key string, state model.State) error
}
