package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/repository"
)

// ErrTopicMismatch reports a broker assignment outside the configured topic
// set. It is fatal for the loop: a partial or foreign subscription must not
// be consumed silently.
var ErrTopicMismatch = errors.New("subscribed topic set does not match configuration")

// topicHandler dispatches consumed messages by topic to the matching insert.
// A per-message failure is logged by the caller and the loop continues;
// offsets are marked either way, so a row lost to a transient store error is
// not redelivered (accepted at-least-once gap).
type topicHandler struct {
	repo   repository.StatsRepository
	topics map[string]struct{}
	log    *zap.Logger
}

func newTopicHandler(repo repository.StatsRepository, topics []string, log *zap.Logger) *topicHandler {
	allowed := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		allowed[topic] = struct{}{}
	}
	return &topicHandler{
		repo:   repo,
		topics: allowed,
		log:    log,
	}
}

// Setup verifies the claimed topics against the configured set before any
// message is consumed.
func (h *topicHandler) Setup(session sarama.ConsumerGroupSession) error {
	for topic := range session.Claims() {
		if _, ok := h.topics[topic]; !ok {
			return fmt.Errorf("%w: unexpected topic %q", ErrTopicMismatch, topic)
		}
	}

	h.log.Info("Consumer session started",
		zap.String("member_id", session.MemberID()),
		zap.Any("claims", session.Claims()))
	return nil
}

func (h *topicHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Info("Consumer session ended")
	return nil
}

// ConsumeClaim drains one partition's messages in delivery order. No ordering
// holds across partitions.
func (h *topicHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			if err := h.handleMessage(session.Context(), msg); err != nil {
				h.log.Error("Failed to handle message",
					zap.String("topic", msg.Topic),
					zap.Int32("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			}
			session.MarkMessage(msg, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage deserializes one message and performs the matching insert.
// An unrecognized topic is logged and dropped.
func (h *topicHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	switch msg.Topic {
	case domain.TopicPostViews:
		var event domain.ViewEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to decode view event: %w", err)
		}
		if err := h.repo.InsertView(ctx, &event); err != nil {
			return err
		}
		h.log.Info("Processed view event", zap.String("post_id", event.PostID))

	case domain.TopicPostLikes:
		var event domain.LikeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to decode like event: %w", err)
		}
		if err := h.repo.InsertLike(ctx, &event); err != nil {
			return err
		}
		h.log.Info("Processed like event", zap.String("post_id", event.PostID))

	case domain.TopicPostComments:
		var event domain.CommentEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to decode comment event: %w", err)
		}
		if err := h.repo.InsertComment(ctx, &event); err != nil {
			return err
		}
		h.log.Info("Processed comment event", zap.String("post_id", event.PostID))

	default:
		h.log.Warn("Unknown topic, dropping message", zap.String("topic", msg.Topic))
	}

	return nil
}
