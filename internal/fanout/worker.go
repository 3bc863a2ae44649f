package fanout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mzahan92/socialite/feed/internal/models"
	"go.uber.org/zap"
)

// FeedStore is the slice of the feed repository the worker writes through.
type FeedStore interface {
	BulkInsert(ctx context.Context, entries []models.FeedEntry) (*models.InsertResult, error)
}

// FriendshipStore answers the accepted-friend lookup for an author.
type FriendshipStore interface {
	GetAcceptedFriendIDs(userID string) ([]string, error)
}

// AgentStore lists active agent accounts eligible for public fan-out.
type AgentStore interface {
	GetActiveAgents() ([]models.User, error)
}

// Worker materializes one feed entry per recipient for a post-creation
// job. It is stateless; concurrent jobs for different posts are safe, and
// retried jobs for the same post may insert duplicate rows (accepted).
type Worker struct {
	feeds       FeedStore
	friendships FriendshipStore
	users       AgentStore
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewWorker creates a new fan-out Worker
func NewWorker(feeds FeedStore, friendships FriendshipStore, users AgentStore, logger *zap.Logger) *Worker {
	return &Worker{
		feeds:       feeds,
		friendships: friendships,
		users:       users,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Process fans one post-creation job out to its recipients. A job that
// fails validation is dropped before any targeting. Insertion is
// best-effort: partial batch failures are logged and swallowed, never
// surfaced to the enqueuer.
func (w *Worker) Process(ctx context.Context, job models.FanoutJob) error {
	if err := w.validate.Struct(&job); err != nil {
		return fmt.Errorf("invalid fanout job: %w", err)
	}

	recipients := map[string]struct{}{job.AuthorID: {}}
	agentIDs := map[string]struct{}{}

	visibility := models.Visibility(job.Visibility)
	if visibility == models.VisibilityPublic || visibility == models.VisibilityFriends {
		friendIDs, err := w.friendships.GetAcceptedFriendIDs(job.AuthorID)
		if err != nil {
			return err
		}
		for _, id := range friendIDs {
			recipients[id] = struct{}{}
		}
	}

	if visibility == models.VisibilityPublic {
		// Agents receive every public post so they can generate content
		// from it. A lookup failure degrades to friends-only fan-out.
		agents, err := w.users.GetActiveAgents()
		if err != nil {
			w.logger.Error("fanout: fetching active agents failed",
				zap.String("post_id", job.PostID), zap.Error(err))
		} else {
			for _, agent := range agents {
				agentIDs[agent.UserID] = struct{}{}
				if agent.UserID != job.AuthorID {
					recipients[agent.UserID] = struct{}{}
				}
			}
		}
	}

	now := time.Now()
	entries := make([]models.FeedEntry, 0, len(recipients))
	for uid := range recipients {
		entries = append(entries, models.FeedEntry{
			UserID:               uid,
			PostID:               job.PostID,
			SourceUserID:         job.AuthorID,
			OriginalCreationTime: now.Format(time.RFC3339),
			Reason:               deliveryReason(uid, job.AuthorID, visibility, agentIDs),
			Status:               models.FeedStatusUnseen,
			CreatedAt:            now,
		})
	}

	result, err := w.feeds.BulkInsert(ctx, entries)
	if err != nil {
		w.logger.Error("fanout: batch insert failed",
			zap.String("post_id", job.PostID),
			zap.Int("recipients", len(entries)),
			zap.Error(err))
		return nil
	}

	if len(result.Failed) > 0 {
		w.logger.Warn("fanout: batch insert partially failed",
			zap.String("post_id", job.PostID),
			zap.Int("inserted", result.Inserted),
			zap.Int("failed", len(result.Failed)))
	} else {
		w.logger.Info("fanout: inserted feed entries",
			zap.String("post_id", job.PostID),
			zap.Int("inserted", result.Inserted))
	}
	return nil
}

// deliveryReason tags a recipient: recommendation when an agent receives a
// public post from someone else, friend otherwise.
func deliveryReason(recipientID, authorID string, visibility models.Visibility, agentIDs map[string]struct{}) models.FeedReason {
	if recipientID != authorID && visibility == models.VisibilityPublic {
		if _, isAgent := agentIDs[recipientID]; isAgent {
			return models.FeedReasonRecommendation
		}
	}
	return models.FeedReasonFriend
}
