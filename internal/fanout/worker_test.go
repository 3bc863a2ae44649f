package fanout

import (
	"context"
	"errors"
	"testing"

	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeedStore struct {
	entries   []models.FeedEntry
	result    *models.InsertResult
	err       error
	callCount int
}

func (f *fakeFeedStore) BulkInsert(_ context.Context, entries []models.FeedEntry) (*models.InsertResult, error) {
	f.callCount++
	f.entries = entries
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.InsertResult{Inserted: len(entries)}, nil
}

type fakeFriendshipStore struct {
	friendIDs []string
	err       error
}

func (f *fakeFriendshipStore) GetAcceptedFriendIDs(string) ([]string, error) {
	return f.friendIDs, f.err
}

type fakeAgentStore struct {
	agents []models.User
	err    error
}

func (f *fakeAgentStore) GetActiveAgents() ([]models.User, error) {
	return f.agents, f.err
}

func newTestWorker(feeds *fakeFeedStore, friendships *fakeFriendshipStore, agents *fakeAgentStore) *Worker {
	return NewWorker(feeds, friendships, agents, zap.NewNop())
}

func entriesByUser(entries []models.FeedEntry) map[string]models.FeedEntry {
	m := make(map[string]models.FeedEntry, len(entries))
	for _, e := range entries {
		m[e.UserID] = e
	}
	return m
}

func TestProcessPublicPostFansOutToAuthorFriendsAndAgents(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{friendIDs: []string{"friend-1", "friend-2"}}
	agents := &fakeAgentStore{agents: []models.User{
		{UserID: "agent-1", IsAgent: true, Status: models.UserStatusActive},
	}}
	w := newTestWorker(feeds, friendships, agents)

	err := w.Process(context.Background(), models.FanoutJob{
		JobID:      "job-1",
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityPublic),
	})
	require.NoError(t, err)
	require.Len(t, feeds.entries, 4)

	byUser := entriesByUser(feeds.entries)
	assert.Contains(t, byUser, "author-1")
	assert.Contains(t, byUser, "friend-1")
	assert.Contains(t, byUser, "friend-2")
	assert.Contains(t, byUser, "agent-1")

	assert.Equal(t, models.FeedReasonFriend, byUser["author-1"].Reason)
	assert.Equal(t, models.FeedReasonFriend, byUser["friend-1"].Reason)
	assert.Equal(t, models.FeedReasonRecommendation, byUser["agent-1"].Reason)

	for _, e := range feeds.entries {
		assert.Equal(t, "post-1", e.PostID)
		assert.Equal(t, "author-1", e.SourceUserID)
		assert.Equal(t, models.FeedStatusUnseen, e.Status)
		assert.NotEmpty(t, e.OriginalCreationTime)
	}
}

func TestProcessFriendsPostSkipsAgents(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{friendIDs: []string{"friend-1"}}
	agents := &fakeAgentStore{agents: []models.User{{UserID: "agent-1"}}}
	w := newTestWorker(feeds, friendships, agents)

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityFriends),
	})
	require.NoError(t, err)
	require.Len(t, feeds.entries, 2)

	byUser := entriesByUser(feeds.entries)
	assert.NotContains(t, byUser, "agent-1")
}

func TestProcessPrivatePostReachesOnlyAuthor(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{friendIDs: []string{"friend-1"}}
	agents := &fakeAgentStore{agents: []models.User{{UserID: "agent-1"}}}
	w := newTestWorker(feeds, friendships, agents)

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityPrivate),
	})
	require.NoError(t, err)
	require.Len(t, feeds.entries, 1)
	assert.Equal(t, "author-1", feeds.entries[0].UserID)
	assert.Equal(t, models.FeedReasonFriend, feeds.entries[0].Reason)
}

func TestProcessAgentAuthorNotDuplicated(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{}
	agents := &fakeAgentStore{agents: []models.User{{UserID: "agent-1"}}}
	w := newTestWorker(feeds, friendships, agents)

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "agent-1",
		Visibility: string(models.VisibilityPublic),
	})
	require.NoError(t, err)
	require.Len(t, feeds.entries, 1)
	assert.Equal(t, "agent-1", feeds.entries[0].UserID)
	// The author's own row is never tagged as a recommendation.
	assert.Equal(t, models.FeedReasonFriend, feeds.entries[0].Reason)
}

func TestProcessRejectsInvalidJob(t *testing.T) {
	tests := []struct {
		name string
		job  models.FanoutJob
	}{
		{
			name: "missing post id",
			job:  models.FanoutJob{AuthorID: "author-1", Visibility: string(models.VisibilityPublic)},
		},
		{
			name: "missing author id",
			job:  models.FanoutJob{PostID: "post-1", Visibility: string(models.VisibilityPublic)},
		},
		{
			name: "unknown visibility",
			job:  models.FanoutJob{PostID: "post-1", AuthorID: "author-1", Visibility: "followers"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeds := &fakeFeedStore{}
			w := newTestWorker(feeds, &fakeFriendshipStore{}, &fakeAgentStore{})

			err := w.Process(context.Background(), tt.job)
			require.Error(t, err)
			assert.Zero(t, feeds.callCount)
		})
	}
}

func TestProcessFriendLookupFailurePropagates(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{err: errors.New("postgres down")}
	w := newTestWorker(feeds, friendships, &fakeAgentStore{})

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityPublic),
	})
	require.Error(t, err)
	assert.Zero(t, feeds.callCount)
}

func TestProcessAgentLookupFailureDegradesToFriendsOnly(t *testing.T) {
	feeds := &fakeFeedStore{}
	friendships := &fakeFriendshipStore{friendIDs: []string{"friend-1"}}
	agents := &fakeAgentStore{err: errors.New("postgres down")}
	w := newTestWorker(feeds, friendships, agents)

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityPublic),
	})
	require.NoError(t, err)
	require.Len(t, feeds.entries, 2)
}

func TestProcessSwallowsInsertFailure(t *testing.T) {
	feeds := &fakeFeedStore{err: errors.New("mongo down")}
	w := newTestWorker(feeds, &fakeFriendshipStore{}, &fakeAgentStore{})

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityPrivate),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, feeds.callCount)
}

func TestProcessSwallowsPartialInsertFailure(t *testing.T) {
	feeds := &fakeFeedStore{result: &models.InsertResult{
		Inserted: 1,
		Failed:   []models.FailedInsert{{Recipient: "friend-1", Reason: "write error"}},
	}}
	friendships := &fakeFriendshipStore{friendIDs: []string{"friend-1"}}
	w := newTestWorker(feeds, friendships, &fakeAgentStore{})

	err := w.Process(context.Background(), models.FanoutJob{
		PostID:     "post-1",
		AuthorID:   "author-1",
		Visibility: string(models.VisibilityFriends),
	})
	assert.NoError(t, err)
}
