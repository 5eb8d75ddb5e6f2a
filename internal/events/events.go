package events

import (
	"context"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	LEADERBOARD_CHANNEL Channel = "leaderboard"
	RECIPES_CHANNEL     Channel = "recipes"
)

type MessageType string

const (
	RECIPE_LIKED     MessageType = "recipe_liked"
	RECIPE_UNLIKED   MessageType = "recipe_unliked"
	RECIPE_CREATED   MessageType = "recipe_created"
	RECIPE_UPDATED   MessageType = "recipe_updated"
	RECIPE_DELETED   MessageType = "recipe_deleted"
	BOARDS_REFRESHED MessageType = "boards_refreshed"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Source    string         `json:"source,omitempty"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type Publisher interface {
	Publish(channel Channel, event Event) error
}

// EventBus fans events out to local handlers and, when a valkey client is
// present, to every other instance through pub/sub.
type EventBus struct {
	client    valkey.Client
	origin    string
	logger    logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		origin:    uuid.NewString(),
		logger:    logger.New("EventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	event.Source = eb.origin

	if eb.client != nil {
		eventData, err := json.Marshal(event)
		if err != nil {
			return log.Err("failed to marshal event", err, "eventID", event.ID)
		}

		ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
		defer cancel()

		err = eb.client.Do(
			ctx,
			eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build(),
		).Error()
		if err != nil {
			return log.Err(
				"failed to publish event to valkey",
				err,
				"channel", channel,
				"eventID", event.ID,
			)
		}
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	eb.notifyLocalHandlers(channel, event)

	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !eb.listening[channel]
	eb.listening[channel] = eb.listening[channel] || startListener
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := eb.handlers[channel]
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel", channel,
					"eventID", event.ID,
					"handlerIndex", handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			event, ok := eb.decode(channel, msg.Message)
			if !ok {
				return
			}

			log.Debug("Received event from valkey", "channel", channel, "eventID", event.ID, "eventType", event.Type)
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

// decode parses a pub/sub payload. Events this instance published were
// already delivered locally and are dropped.
func (eb *EventBus) decode(channel Channel, message string) (Event, bool) {
	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		eb.logger.Function("decode").
			Er("failed to unmarshal event", err, "channel", channel, "message", message)
		return Event{}, false
	}

	if event.Source == eb.origin {
		return Event{}, false
	}

	return event, true
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.logger.Function("Close").Info("EventBus closed")
	return nil
}

// PublishRecipeChange announces a change that can move a leaderboard.
func PublishRecipeChange(
	publisher Publisher,
	messageType MessageType,
	recipeID int,
	userID *uuid.UUID,
) error {
	if publisher == nil {
		return nil
	}

	return publisher.Publish(LEADERBOARD_CHANNEL, Event{
		Type:   messageType,
		UserID: userID,
		Data: map[string]any{
			"recipeId": recipeID,
		},
	})
}
