package queue

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/nats-io/nats.go"
)

// SubjectAgentFeedScanned carries one batch of scanned agent feed items.
const SubjectAgentFeedScanned = "agent.feed.scanned"

// ScanPublisher publishes agent feed scan batches over NATS for the AI
// gateway to consume.
type ScanPublisher struct {
	conn *nats.Conn
}

// NewScanPublisher creates a new ScanPublisher
func NewScanPublisher(conn *nats.Conn) *ScanPublisher {
	return &ScanPublisher{conn: conn}
}

// PublishScan stamps the event id and publishes the batch
func (p *ScanPublisher) PublishScan(_ context.Context, event models.AgentFeedScannedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectAgentFeedScanned, data)
}
