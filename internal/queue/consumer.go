package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mzahan92/socialite/feed/internal/fanout"
	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubjectPostFanout carries one fan-out job per post-creation event.
const SubjectPostFanout = "post.fanout"

// fanoutQueueGroup shares fan-out jobs across horizontally scaled
// consumers.
const fanoutQueueGroup = "feed-fanout"

// jobTimeout bounds one fan-out job's store operations.
const jobTimeout = 30 * time.Second

// Consumer subscribes to fan-out jobs and drives the fan-out worker. It is
// a thin transport adapter: all targeting and insert logic lives in the
// worker, which is testable without NATS.
type Consumer struct {
	conn   *nats.Conn
	worker *fanout.Worker
	logger *zap.Logger
}

// NewConsumer creates a new fan-out job Consumer
func NewConsumer(conn *nats.Conn, worker *fanout.Worker, logger *zap.Logger) *Consumer {
	return &Consumer{conn: conn, worker: worker, logger: logger}
}

// Start subscribes to the fan-out subject. Each job runs on its own
// goroutine; jobs for different posts proceed concurrently with no
// ordering guarantee. No result is reported back to the producer.
func (c *Consumer) Start() (*nats.Subscription, error) {
	return c.conn.QueueSubscribe(SubjectPostFanout, fanoutQueueGroup, func(msg *nats.Msg) {
		var job models.FanoutJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			c.logger.Error("fanout: invalid job payload", zap.Error(err))
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := c.worker.Process(ctx, job); err != nil {
				c.logger.Error("fanout: job failed",
					zap.String("job_id", job.JobID),
					zap.String("post_id", job.PostID),
					zap.Error(err))
			}
		}()
	})
}
