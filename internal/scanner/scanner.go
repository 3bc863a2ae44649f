package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FeedStore is the scanner's slice of the feed repository.
type FeedStore interface {
	GetUnseenByUser(ctx context.Context, userID string, limit int64) ([]models.FeedEntry, error)
	MarkSeen(ctx context.Context, ids []primitive.ObjectID) error
}

// PostStore hydrates scanned feed rows with their post snapshots.
type PostStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.PostSnapshot, error)
}

// AgentStore lists the agent accounts whose feeds get scanned.
type AgentStore interface {
	GetActiveAgents() ([]models.User, error)
}

// Publisher hands a scanned batch to the downstream consumer. Transport
// details live behind this interface.
type Publisher interface {
	PublishScan(ctx context.Context, event models.AgentFeedScannedEvent) error
}

// Config carries the scan schedule knobs.
type Config struct {
	Interval     time.Duration
	MaxItems     int64
	ScanTimeout  time.Duration
}

// Scanner periodically sweeps agent feeds, publishes unseen entries as one
// batch per agent and marks them seen on successful publish. Last-scan
// timestamps and the running flag are instance fields so tests can build
// isolated scanners.
type Scanner struct {
	feeds     FeedStore
	posts     PostStore
	agents    AgentStore
	publisher Publisher
	cfg       Config
	logger    *zap.Logger

	mu            sync.Mutex
	running       bool
	started       bool
	lastScanTimes map[string]time.Time
	stop          chan struct{}
}

// NewScanner creates a new agent feed Scanner
func NewScanner(feeds FeedStore, posts PostStore, agents AgentStore, publisher Publisher, cfg Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		feeds:         feeds,
		posts:         posts,
		agents:        agents,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger,
		lastScanTimes: make(map[string]time.Time),
		stop:          make(chan struct{}),
	}
}

// Start launches the periodic sweep loop.
func (s *Scanner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info("starting agent feed scanner", zap.Duration("interval", s.cfg.Interval))
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.ScanOnce()
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stop)
}

// ScanOnce sweeps every active owned agent once. Overlapping sweeps are
// skipped; per-agent failures are logged and do not stop the sweep.
func (s *Scanner) ScanOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("agent feed scan still in progress, skipping sweep")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	agents, err := s.agents.GetActiveAgents()
	if err != nil {
		s.logger.Error("scanner: fetching active agents failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ScanTimeout)
	defer cancel()

	for _, agent := range agents {
		if agent.OwnerUserID == "" {
			continue
		}
		if err := s.scanAgent(ctx, agent); err != nil {
			s.logger.Error("scanner: agent scan failed",
				zap.String("agent_id", agent.UserID), zap.Error(err))
		}
	}
}

// LastScanTime returns when an agent was last successfully scanned.
func (s *Scanner) LastScanTime(agentID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastScanTimes[agentID]
	return t, ok
}

func (s *Scanner) scanAgent(ctx context.Context, agent models.User) error {
	entries, err := s.feeds.GetUnseenByUser(ctx, agent.UserID, s.cfg.MaxItems)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(entries))
	entryIDs := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		postIDs = append(postIDs, e.PostID)
		entryIDs = append(entryIDs, e.ID)
	}

	posts, err := s.posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return err
	}

	scanned := make([]models.ScannedPost, 0, len(posts))
	for _, p := range posts {
		scanned = append(scanned, models.ScannedPost{
			ID:               p.ID,
			AuthorID:         p.UserID,
			Content:          p.Content,
			Media:            p.Media,
			ReactionsSummary: p.ReactionsSummary,
			CommentsCount:    p.CommentsCount,
			CreatedAt:        p.CreatedAt,
		})
	}

	event := models.AgentFeedScannedEvent{
		AgentID:     agent.UserID,
		OwnerUserID: agent.OwnerUserID,
		Posts:       scanned,
		ScannedAt:   time.Now(),
	}
	if err := s.publisher.PublishScan(ctx, event); err != nil {
		return err
	}

	// Mark processed only after a successful publish so a failed handoff
	// leaves the entries eligible for the next sweep.
	if err := s.feeds.MarkSeen(ctx, entryIDs); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastScanTimes[agent.UserID] = time.Now()
	s.mu.Unlock()

	s.logger.Info("scanner: published agent feed batch",
		zap.String("agent_id", agent.UserID),
		zap.Int("posts", len(scanned)))
	return nil
}
