package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// ticketEventsChannel carries purchase events across server instances so
// every open grid greys out a sold code, not just grids on the instance
// that took the purchase.
const ticketEventsChannel = "ticket_events"

var rdbClient *redis.Client

// SetRedisClient wires the Redis client used for event fanout
func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// TicketSoldEvent is published after a purchase commits
type TicketSoldEvent struct {
	Type       string `json:"type"`
	GameKey    string `json:"game_key"`
	TicketCode int64  `json:"ticket_code"`
	GameTotal  int64  `json:"game_total"`
}

// PublishTicketSold pushes a sold event onto the Redis channel
func PublishTicketSold(ctx context.Context, gameKey string, ticketCode, gameTotal int64) {
	if rdbClient == nil {
		return
	}
	payload, err := json.Marshal(TicketSoldEvent{
		Type:       "ticket_sold",
		GameKey:    gameKey,
		TicketCode: ticketCode,
		GameTotal:  gameTotal,
	})
	if err != nil {
		log.Printf("[WS] Failed to marshal ticket_sold event: %v", err)
		return
	}
	if err := rdbClient.Publish(ctx, ticketEventsChannel, payload).Err(); err != nil {
		log.Printf("[WS] Failed to publish ticket_sold event: %v", err)
	}
}

// StartTicketEventSubscriber subscribes to the ticket_events channel and
// fans incoming events out to the watching rooms
func StartTicketEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; ticket event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, ticketEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] ticket_events subscriber started")
		for msg := range ch {
			var event TicketSoldEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[WS] Invalid ticket event payload: %v", err)
				continue
			}
			if event.GameKey == "" {
				continue
			}
			GameHub.BroadcastToGame(event.GameKey, event)
		}
	}()
}
