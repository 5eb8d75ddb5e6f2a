package services

import (
	"context"

	"tastebuddin/internal/events"

	logger "github.com/Bparsons0904/goLogger"
)

type Subscriber interface {
	Subscribe(channel events.Channel, handler events.EventHandler) error
}

type boardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CacheInvalidationService drops cached leaderboards whenever a like or
// recipe change is announced on the leaderboard channel.
type CacheInvalidationService struct {
	boards boardInvalidator
	log    logger.Logger
}

func NewCacheInvalidationService(boards boardInvalidator) *CacheInvalidationService {
	return &CacheInvalidationService{
		boards: boards,
		log:    logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) Listen(subscriber Subscriber) error {
	return subscriber.Subscribe(events.LEADERBOARD_CHANNEL, s.handle)
}

func (s *CacheInvalidationService) handle(event events.Event) error {
	log := s.log.Function("handle")

	switch event.Type {
	case events.RECIPE_LIKED,
		events.RECIPE_UNLIKED,
		events.RECIPE_CREATED,
		events.RECIPE_UPDATED,
		events.RECIPE_DELETED:
	default:
		return nil
	}

	if err := s.boards.Invalidate(context.Background()); err != nil {
		return log.Err("failed to invalidate leaderboards", err, "eventType", event.Type, "eventID", event.ID)
	}

	log.Debug("Leaderboards invalidated", "eventType", event.Type, "eventID", event.ID)
	return nil
}
