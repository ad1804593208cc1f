package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
	"telegram-store-bot/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo persists the dialog state tag per session key. Values are
// bare state strings; there is nothing else to encode. Keys carry no TTL:
// sessions expire only if the store itself evicts them.
type SessionRepo struct {
	client *Client
}

func NewSessionRepo(client *Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (s *SessionRepo) Get(ctx context.Context, key string) (model.State, error) {
	val, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// First event from this user; the session starts implicitly.
			return model.StateStart, nil
		}
		return model.StateStart, fmt.Errorf("%w: get %s: %v", domain.ErrStore, key, err)
	}
	return model.ParseState(val), nil
}

func (s *SessionRepo) Set(ctx context.Context, key string, state model.State) error {
	if err := s.client.Set(ctx, key, string(state), 0); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrStore, key, err)
	}
	return nil
}
