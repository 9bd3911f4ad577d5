package service

import (
	"context"
	"encoding/json"

	"en-garde-armory-be/internal/dto"
	"en-garde-armory-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ViewDelivery pushes a serialized frame to every socket of a session.
// Implemented by the websocket hub.
type ViewDelivery interface {
	SendToSession(sessionID string, frame []byte)
	DisconnectSession(sessionID string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   ViewDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery ViewDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Nothing here is retriable: a frame that cannot be decoded now never will be,
	// and a session with no sockets simply misses the update.
	defer msg.Ack()

	var payload dto.ViewUpdatedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal view update", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		return
	}
	if payload.SessionId != "" && payload.Reason == ViewReasonSessionEnded {
		cs.delivery.DisconnectSession(payload.SessionId)
		return
	}
	if payload.SessionId == "" || payload.View == nil {
		cs.logger.Warn("ConsumerService", "Dropping view update without session or view", map[string]interface{}{
			"message_id": msg.UUID,
		})
		return
	}

	frame, err := json.Marshal(dto.StreamMessage{Type: "view", Data: payload.View})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to encode stream frame", map[string]interface{}{"error": err.Error()})
		return
	}

	cs.delivery.SendToSession(payload.SessionId, frame)
	cs.logger.Debug("ConsumerService", "View update delivered", map[string]interface{}{
		"session_id": payload.SessionId,
		"reason":     payload.Reason,
	})
}
