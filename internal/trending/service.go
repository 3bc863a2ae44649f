package trending

import (
	"context"
	"sort"
	"time"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.uber.org/zap"
)

// candidatePoolSize bounds how many recent public posts one aggregation
// cycle evaluates.
const candidatePoolSize = 500

// PostStore is the read-only post projection slice the aggregator scans.
type PostStore interface {
	GetRecentPublic(ctx context.Context, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error)
}

// TrendingStore persists and serves the ranked cache.
type TrendingStore interface {
	UpsertAll(ctx context.Context, posts []models.TrendingPost) error
	GetTop(ctx context.Context, limit int64) ([]models.TrendingPost, error)
}

// UserStatusStore supplies the global suggestibility exclusion set.
type UserStatusStore interface {
	GetNonSuggestibleUserIDs() ([]string, error)
}

// BlockListStore supplies a viewer's pairwise block set.
type BlockListStore interface {
	GetBlockedUserIDs(userID string) ([]string, error)
}

// Service recomputes and serves the trending cache. Scores are
// deterministic formulas over reaction counts, comment counts and recency;
// nothing here is learned or personalized beyond block filtering.
type Service struct {
	posts        PostStore
	trending     TrendingStore
	userStatuses UserStatusStore
	blockList    BlockListStore
	logger       *zap.Logger
}

// NewService creates a new trending Service
func NewService(posts PostStore, trending TrendingStore, userStatuses UserStatusStore, blockList BlockListStore, logger *zap.Logger) *Service {
	return &Service{
		posts:        posts,
		trending:     trending,
		userStatuses: userStatuses,
		blockList:    blockList,
		logger:       logger,
	}
}

// RecencyBoost decays linearly from 10 to 0 over the first ten hours of a
// post's life and stays at 0 after.
func RecencyBoost(createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	boost := 10 - hours
	if boost < 0 {
		return 0
	}
	return boost
}

// ReactionCount sums all per-type reaction counts on a post summary.
func ReactionCount(summary []models.ReactionSummary) int {
	total := 0
	for _, r := range summary {
		total += r.Count
	}
	return total
}

// Score computes the trending score of a post snapshot at the given time:
// reactions*2 + comments*3 + recency boost.
func Score(post *models.PostSnapshot, now time.Time) float64 {
	reactions := ReactionCount(post.ReactionsSummary)
	return float64(reactions)*2 + float64(post.CommentsCount)*3 + RecencyBoost(post.CreatedAt, now)
}

// Refresh runs one aggregation cycle: score the recent public candidate
// pool, drop posts without media, keep the top limit rows and upsert them
// into the cache. An empty survivor set skips the cycle so a transient data
// issue cannot wipe a populated cache.
func (s *Service) Refresh(ctx context.Context, limit int) error {
	excludeUserIDs, err := s.userStatuses.GetNonSuggestibleUserIDs()
	if err != nil {
		return err
	}

	candidates, err := s.posts.GetRecentPublic(ctx, excludeUserIDs, candidatePoolSize)
	if err != nil {
		return err
	}
	s.logger.Info("trending: evaluating public posts", zap.Int("candidates", len(candidates)))

	now := time.Now()
	scored := make([]models.TrendingPost, 0, len(candidates))
	for i := range candidates {
		post := &candidates[i]
		if !post.HasMedia() {
			continue
		}
		scored = append(scored, models.TrendingPost{
			PostID:        post.ID,
			AuthorID:      post.UserID,
			Content:       post.Content,
			Media:         post.Media,
			TrendingScore: Score(post, now),
			CreatedAt:     post.CreatedAt,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].TrendingScore > scored[j].TrendingScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	if len(scored) == 0 {
		s.logger.Info("trending: no posts with media found, skipping update")
		return nil
	}

	if err := s.trending.UpsertAll(ctx, scored); err != nil {
		return err
	}
	s.logger.Info("trending: updated trending posts", zap.Int("count", len(scored)))
	return nil
}

// TopPosts serves the highest-scored cached rows for a viewer, filtering
// out authors the viewer has blocked. When the viewer blocks anyone the
// read is oversized 2x to leave headroom for the post-filter.
func (s *Service) TopPosts(ctx context.Context, limit int64, viewerID string) ([]models.TrendingPost, error) {
	if viewerID != "" {
		blockedIDs, err := s.blockList.GetBlockedUserIDs(viewerID)
		if err != nil {
			return nil, err
		}
		if len(blockedIDs) > 0 {
			blocked := make(map[string]struct{}, len(blockedIDs))
			for _, id := range blockedIDs {
				blocked[id] = struct{}{}
			}

			rows, err := s.trending.GetTop(ctx, limit*2)
			if err != nil {
				return nil, err
			}
			filtered := make([]models.TrendingPost, 0, limit)
			for _, row := range rows {
				if _, ok := blocked[row.AuthorID]; ok {
					continue
				}
				filtered = append(filtered, row)
				if int64(len(filtered)) == limit {
					break
				}
			}
			return filtered, nil
		}
	}

	return s.trending.GetTop(ctx, limit)
}
