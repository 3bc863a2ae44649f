package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeFeedStore struct {
	unseenByUser map[string][]models.FeedEntry
	markedSeen   []primitive.ObjectID
	markSeenHits int
}

func (f *fakeFeedStore) GetUnseenByUser(_ context.Context, userID string, _ int64) ([]models.FeedEntry, error) {
	return f.unseenByUser[userID], nil
}

func (f *fakeFeedStore) MarkSeen(_ context.Context, ids []primitive.ObjectID) error {
	f.markSeenHits++
	f.markedSeen = append(f.markedSeen, ids...)
	return nil
}

type fakePostStore struct {
	byID map[string]models.PostSnapshot
}

func (f *fakePostStore) GetByIDs(_ context.Context, ids []string) ([]models.PostSnapshot, error) {
	posts := make([]models.PostSnapshot, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

type fakeAgentStore struct {
	agents []models.User
	err    error
}

func (f *fakeAgentStore) GetActiveAgents() ([]models.User, error) {
	return f.agents, f.err
}

type fakePublisher struct {
	events []models.AgentFeedScannedEvent
	err    error
}

func (f *fakePublisher) PublishScan(_ context.Context, event models.AgentFeedScannedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func testScanner(feeds *fakeFeedStore, posts *fakePostStore, agents *fakeAgentStore, publisher *fakePublisher) *Scanner {
	return NewScanner(feeds, posts, agents, publisher, Config{
		Interval:    time.Hour,
		MaxItems:    50,
		ScanTimeout: time.Minute,
	}, zap.NewNop())
}

func agentFixture() (models.User, models.FeedEntry, models.PostSnapshot) {
	agent := models.User{
		UserID:      "agent-1",
		IsAgent:     true,
		OwnerUserID: "owner-1",
		Status:      models.UserStatusActive,
	}
	entry := models.FeedEntry{
		ID:     primitive.NewObjectID(),
		UserID: agent.UserID,
		PostID: "post-1",
		Status: models.FeedStatusUnseen,
	}
	post := models.PostSnapshot{
		ID:            "post-1",
		UserID:        "author-1",
		Content:       "hello",
		CommentsCount: 2,
		CreatedAt:     time.Now(),
	}
	return agent, entry, post
}

func TestScanOncePublishesBatchAndMarksSeen(t *testing.T) {
	agent, entry, post := agentFixture()
	feeds := &fakeFeedStore{unseenByUser: map[string][]models.FeedEntry{
		agent.UserID: {entry},
	}}
	posts := &fakePostStore{byID: map[string]models.PostSnapshot{post.ID: post}}
	publisher := &fakePublisher{}
	s := testScanner(feeds, posts, &fakeAgentStore{agents: []models.User{agent}}, publisher)

	s.ScanOnce()

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "agent-1", event.AgentID)
	assert.Equal(t, "owner-1", event.OwnerUserID)
	require.Len(t, event.Posts, 1)
	assert.Equal(t, "post-1", event.Posts[0].ID)
	assert.Equal(t, 2, event.Posts[0].CommentsCount)

	require.Len(t, feeds.markedSeen, 1)
	assert.Equal(t, entry.ID, feeds.markedSeen[0])

	_, ok := s.LastScanTime(agent.UserID)
	assert.True(t, ok)
}

func TestScanOncePublishFailureLeavesEntriesUnseen(t *testing.T) {
	agent, entry, post := agentFixture()
	feeds := &fakeFeedStore{unseenByUser: map[string][]models.FeedEntry{
		agent.UserID: {entry},
	}}
	posts := &fakePostStore{byID: map[string]models.PostSnapshot{post.ID: post}}
	publisher := &fakePublisher{err: errors.New("nats down")}
	s := testScanner(feeds, posts, &fakeAgentStore{agents: []models.User{agent}}, publisher)

	s.ScanOnce()

	assert.Zero(t, feeds.markSeenHits)
	_, ok := s.LastScanTime(agent.UserID)
	assert.False(t, ok)
}

func TestScanOnceSkipsAgentsWithoutOwner(t *testing.T) {
	agent, entry, post := agentFixture()
	agent.OwnerUserID = ""
	feeds := &fakeFeedStore{unseenByUser: map[string][]models.FeedEntry{
		agent.UserID: {entry},
	}}
	posts := &fakePostStore{byID: map[string]models.PostSnapshot{post.ID: post}}
	publisher := &fakePublisher{}
	s := testScanner(feeds, posts, &fakeAgentStore{agents: []models.User{agent}}, publisher)

	s.ScanOnce()

	assert.Empty(t, publisher.events)
	assert.Zero(t, feeds.markSeenHits)
}

func TestScanOnceEmptyFeedPublishesNothing(t *testing.T) {
	agent, _, _ := agentFixture()
	feeds := &fakeFeedStore{unseenByUser: map[string][]models.FeedEntry{}}
	publisher := &fakePublisher{}
	s := testScanner(feeds, &fakePostStore{}, &fakeAgentStore{agents: []models.User{agent}}, publisher)

	s.ScanOnce()

	assert.Empty(t, publisher.events)
	assert.Zero(t, feeds.markSeenHits)
}

func TestScanOnceSkipsWhileSweepInProgress(t *testing.T) {
	agent, entry, post := agentFixture()
	feeds := &fakeFeedStore{unseenByUser: map[string][]models.FeedEntry{
		agent.UserID: {entry},
	}}
	posts := &fakePostStore{byID: map[string]models.PostSnapshot{post.ID: post}}
	publisher := &fakePublisher{}
	s := testScanner(feeds, posts, &fakeAgentStore{agents: []models.User{agent}}, publisher)

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.ScanOnce()
	assert.Empty(t, publisher.events)
}
