package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/config"
	"github.com/thenromanov/stats-service/internal/repository"
)

// Loop drains the post-action topics into the analytical store on a dedicated
// background goroutine, independent of the request-serving path. It is
// started once at process init and stopped once at shutdown.
type Loop struct {
	group       sarama.ConsumerGroup
	handler     *topicHandler
	topics      []string
	retryDelay  time.Duration
	joinTimeout time.Duration
	log         *zap.Logger
	cancel      context.CancelFunc
	done        chan struct{}
	fatal       chan error
}

// NewLoop connects a Kafka consumer group with a flat retry schedule and
// prepares a loop over the given topics. Exhausting the retries is a startup
// error.
func NewLoop(cfg config.Kafka, topics []string, repo repository.StatsRepository, joinTimeout time.Duration, log *zap.Logger) (*Loop, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	delay := time.Duration(cfg.ConsumerRetryDelaySec) * time.Second

	var group sarama.ConsumerGroup
	var err error
	for attempt := 1; attempt <= cfg.ConsumerMaxRetries; attempt++ {
		log.Info("Connecting Kafka consumer",
			zap.Strings("brokers", cfg.BootstrapServers),
			zap.String("group_id", cfg.GroupID),
			zap.Int("attempt", attempt))

		group, err = sarama.NewConsumerGroup(cfg.BootstrapServers, cfg.GroupID, saramaCfg)
		if err == nil {
			log.Info("Kafka consumer connected")
			return &Loop{
				group:       group,
				handler:     newTopicHandler(repo, topics, log),
				topics:      topics,
				retryDelay:  delay,
				joinTimeout: joinTimeout,
				log:         log,
				done:        make(chan struct{}),
				fatal:       make(chan error, 1),
			}, nil
		}

		log.Warn("Kafka consumer connection failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < cfg.ConsumerMaxRetries {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect Kafka consumer after %d attempts: %w", cfg.ConsumerMaxRetries, err)
}

// Start launches the background consuming goroutine. Session errors other
// than a topic mismatch are logged and the subscription is re-entered after
// the retry delay; a mismatch terminates the loop and is reported on Fatal,
// since consuming an unexpected assignment would corrupt the store.
func (l *Loop) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	go func() {
		defer close(l.done)
		for {
			err := l.group.Consume(runCtx, l.topics, l.handler)
			if err != nil {
				if errors.Is(err, ErrTopicMismatch) {
					l.log.Error("Subscription mismatch, stopping consumer loop", zap.Error(err))
					l.fatal <- err
					return
				}
				l.log.Error("Consumer session error", zap.Error(err))
				select {
				case <-runCtx.Done():
					return
				case <-time.After(l.retryDelay):
				}
			}
			if runCtx.Err() != nil {
				return
			}
		}
	}()

	l.log.Info("Consumer loop started", zap.Strings("topics", l.topics))
}

// Fatal reports an error that terminated the loop for good. The composition
// root treats it like a failed startup: the process must not keep serving
// queries with a dead ingestion path.
func (l *Loop) Fatal() <-chan error {
	return l.fatal
}

// Stop signals the loop to exit after its in-flight message and waits for it
// with a bounded join; if the loop does not stop in time, shutdown proceeds
// anyway since every completed insert is already committed.
func (l *Loop) Stop() {
	if l.cancel != nil {
		l.cancel()
	}

	select {
	case <-l.done:
		l.log.Info("Consumer loop stopped")
	case <-time.After(l.joinTimeout):
		l.log.Warn("Consumer loop did not stop in time, proceeding with shutdown",
			zap.Duration("join_timeout", l.joinTimeout))
	}

	if err := l.group.Close(); err != nil {
		l.log.Error("Error closing Kafka consumer", zap.Error(err))
		return
	}
	l.log.Info("Kafka consumer closed")
}
