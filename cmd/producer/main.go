package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/config"
	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/logger"
	"github.com/thenromanov/stats-service/internal/queue"
	"github.com/thenromanov/stats-service/internal/queue/kafka"
)

// Synthetic event generator for exercising the ingestion path against a live
// broker. Fans random view/like/comment events over a small pool of post and
// user ids so the query endpoints have something to aggregate.
func main() {
	count := flag.Int("count", 100, "number of events to publish")
	posts := flag.Int("posts", 10, "size of the post id pool")
	users := flag.Int("users", 20, "size of the user id pool")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		if err := log.Sync(); err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	publisher, err := kafka.NewPublisher(cfg.Kafka, log)
	if err != nil {
		log.Fatal("Failed to create Kafka publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close publisher", zap.Error(err))
		}
	}()

	postIDs := idPool(*posts)
	userIDs := idPool(*users)

	published := publishEvents(context.Background(), publisher, *count, postIDs, userIDs)

	log.Info("Done",
		zap.Int("requested", *count),
		zap.Int("published", published))
}

func publishEvents(ctx context.Context, publisher queue.EventPublisher, count int, postIDs, userIDs []string) int {
	published := 0
	for i := 0; i < count; i++ {
		postID := postIDs[rand.Intn(len(postIDs))]
		userID := userIDs[rand.Intn(len(userIDs))]
		now := time.Now()

		var ok bool
		switch rand.Intn(3) {
		case 0:
			ok = publisher.Publish(ctx, domain.TopicPostViews, domain.NewViewEvent(postID, userID, now))
		case 1:
			ok = publisher.Publish(ctx, domain.TopicPostLikes, domain.NewLikeEvent(postID, userID, now))
		default:
			text := fmt.Sprintf("comment %d", i)
			ok = publisher.Publish(ctx, domain.TopicPostComments, domain.NewCommentEvent(postID, userID, text, now))
		}
		if ok {
			published++
		}
	}
	return published
}

func idPool(size int) []string {
	ids := make([]string, size)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
