package feedview

import (
	"context"
	"sort"
	"time"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.uber.org/zap"
)

// FeedStore is the assembler's read slice of the feed repository.
type FeedStore interface {
	GetEntryByID(ctx context.Context, id string) (*models.FeedEntry, error)
	GetUserFeedPage(ctx context.Context, userID string, before *time.Time, limit int64) ([]models.FeedEntry, error)
	GetUserPostIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// PostStore hydrates feed rows and backfills trending from recent posts.
type PostStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.PostSnapshot, error)
	GetRecentPublicWithMedia(ctx context.Context, excludePostIDs, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error)
}

// TrendingSource serves ranked, viewer-filtered trending rows.
type TrendingSource interface {
	TopPosts(ctx context.Context, limit int64, viewerID string) ([]models.TrendingPost, error)
}

// UserStore resolves author emails for display names.
type UserStore interface {
	GetByIDs(ids []string) ([]models.User, error)
}

// ProfileStore resolves author profiles for display names and avatars.
type ProfileStore interface {
	GetByUserIDs(ids []string) ([]models.Profile, error)
}

// UserStatusStore supplies the suggestibility exclusion set for backfill.
type UserStatusStore interface {
	GetNonSuggestibleUserIDs() ([]string, error)
}

// BlockListStore supplies the viewer's block set for backfill.
type BlockListStore interface {
	GetBlockedUserIDs(userID string) ([]string, error)
}

// Assembler merges personalized feed entries with the trending cache into
// one paginated response. It is stateless per request.
//
// The viewer's block list filters only the trending path: fan-out targeting
// does not consult recipient block lists, so personalized rows from a
// since-blocked friend still surface. Deliberately preserved behavior.
type Assembler struct {
	feeds        FeedStore
	posts        PostStore
	trending     TrendingSource
	users        UserStore
	profiles     ProfileStore
	userStatuses UserStatusStore
	blockList    BlockListStore
	logger       *zap.Logger
}

// NewAssembler creates a new Assembler
func NewAssembler(
	feeds FeedStore,
	posts PostStore,
	trending TrendingSource,
	users UserStore,
	profiles ProfileStore,
	userStatuses UserStatusStore,
	blockList BlockListStore,
	logger *zap.Logger,
) *Assembler {
	return &Assembler{
		feeds:        feeds,
		posts:        posts,
		trending:     trending,
		users:        users,
		profiles:     profiles,
		userStatuses: userStatuses,
		blockList:    blockList,
		logger:       logger,
	}
}

// AssembleFeed serves one feed page for the viewer. The cursor selects the
// phase: personalized entries first, then the trending cache. A viewer with
// no personalized rows at all gets the trending page immediately.
func (a *Assembler) AssembleFeed(ctx context.Context, viewerID string, limit int, rawCursor string) (*models.FeedResponse, error) {
	cur := parseCursor(rawCursor)
	if cur.phase == phaseTrending {
		return a.trendingPage(ctx, viewerID, limit)
	}

	var before *time.Time
	if cur.lastID != "" {
		entry, err := a.feeds.GetEntryByID(ctx, cur.lastID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			before = &entry.CreatedAt
		}
	}

	page, err := a.feeds.GetUserFeedPage(ctx, viewerID, before, int64(limit))
	if err != nil {
		return nil, err
	}

	// Cold start: no personalized rows at all, trending is the response.
	if len(page) == 0 {
		return a.trendingPage(ctx, viewerID, limit)
	}

	feedItems, err := a.hydrateEntries(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}
	sortItems(feedItems)
	feedItems = dedupByPostID(feedItems)

	// Exclusion set spans the viewer's entire delivery history, not just
	// this page, so trending never repeats an already-delivered post.
	exclude, err := a.feeds.GetUserPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, item := range feedItems {
		exclude[item.PostID] = struct{}{}
	}

	trendingRows, err := a.collectTrending(ctx, viewerID, limit, exclude)
	if err != nil {
		return nil, err
	}

	capacity := limit - len(feedItems)
	if capacity < 0 {
		capacity = 0
	}
	appendRows := trendingRows
	if len(appendRows) > capacity {
		appendRows = appendRows[:capacity]
	}
	trendingItems, err := a.hydrateTrending(ctx, viewerID, appendRows)
	if err != nil {
		return nil, err
	}
	sortItems(trendingItems)

	items := append(feedItems, trendingItems...)
	if len(items) > limit {
		items = items[:limit]
	}

	resp := &models.FeedResponse{
		Items:  items,
		Source: models.FeedSourcePersonalized,
	}
	if len(trendingItems) > 0 {
		resp.HasTrending = true
		resp.TrendingCount = len(trendingItems)
	}

	if len(page) == limit {
		last := page[len(page)-1].ID.Hex()
		resp.NextCursor = &last
	} else if len(trendingRows) > len(trendingItems) {
		next := TrendingCursor
		resp.NextCursor = &next
	}

	a.logger.Debug("assembled feed page",
		zap.String("viewer_id", viewerID),
		zap.Int("feed_items", len(feedItems)),
		zap.Int("trending_items", len(trendingItems)))
	return resp, nil
}

// trendingPage serves a page purely from the trending cache (plus recent
// public backfill), excluding everything ever delivered to the viewer.
func (a *Assembler) trendingPage(ctx context.Context, viewerID string, limit int) (*models.FeedResponse, error) {
	exclude, err := a.feeds.GetUserPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	rows, err := a.collectTrending(ctx, viewerID, limit, exclude)
	if err != nil {
		return nil, err
	}

	pageRows := rows
	if len(pageRows) > limit {
		pageRows = pageRows[:limit]
	}
	items, err := a.hydrateTrending(ctx, viewerID, pageRows)
	if err != nil {
		return nil, err
	}

	resp := &models.FeedResponse{
		Items:  items,
		Source: models.FeedSourceTrending,
	}
	if len(items) > 0 {
		resp.HasTrending = true
		resp.TrendingCount = len(items)
	}
	if len(rows) > limit {
		next := TrendingCursor
		resp.NextCursor = &next
	}
	return resp, nil
}

// collectTrending fetches trending candidates oversized 2x, backfills from
// recent public media posts when the cache runs short, deduplicates by post
// id, re-sorts by (score desc, createdAt desc) and drops excluded posts.
// The returned slice is uncapped so callers can tell whether more remain.
func (a *Assembler) collectTrending(ctx context.Context, viewerID string, limit int, exclude map[string]struct{}) ([]models.TrendingPost, error) {
	rows, err := a.trending.TopPosts(ctx, int64(limit*2), viewerID)
	if err != nil {
		return nil, err
	}

	if len(rows) < limit {
		backfill, err := a.recentBackfill(ctx, viewerID, int64(limit*2), exclude)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			seen[row.PostID] = struct{}{}
		}
		for _, row := range backfill {
			if _, dup := seen[row.PostID]; dup {
				continue
			}
			seen[row.PostID] = struct{}{}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].TrendingScore != rows[j].TrendingScore {
				return rows[i].TrendingScore > rows[j].TrendingScore
			}
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		})
	}

	unique := make([]models.TrendingPost, 0, len(rows))
	for _, row := range rows {
		if _, skip := exclude[row.PostID]; skip {
			continue
		}
		unique = append(unique, row)
	}
	return unique, nil
}

// recentBackfill turns recent public media posts into zero-scored trending
// rows, excluding delivered posts, blocked authors and non-suggestible
// authors.
func (a *Assembler) recentBackfill(ctx context.Context, viewerID string, limit int64, exclude map[string]struct{}) ([]models.TrendingPost, error) {
	blockedIDs, err := a.blockList.GetBlockedUserIDs(viewerID)
	if err != nil {
		return nil, err
	}
	nonSuggestibleIDs, err := a.userStatuses.GetNonSuggestibleUserIDs()
	if err != nil {
		return nil, err
	}
	excludeAuthors := append(nonSuggestibleIDs, blockedIDs...)

	excludePostIDs := make([]string, 0, len(exclude))
	for id := range exclude {
		excludePostIDs = append(excludePostIDs, id)
	}

	posts, err := a.posts.GetRecentPublicWithMedia(ctx, excludePostIDs, excludeAuthors, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]models.TrendingPost, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, models.TrendingPost{
			PostID:    p.ID,
			AuthorID:  p.UserID,
			Content:   p.Content,
			Media:     p.Media,
			CreatedAt: p.CreatedAt,
		})
	}
	return rows, nil
}

// hydrateEntries turns feed rows into view items. Rows whose post snapshot
// is missing are skipped, never fatal.
func (a *Assembler) hydrateEntries(ctx context.Context, viewerID string, entries []models.FeedEntry) ([]models.FeedItem, error) {
	postIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		postIDs = append(postIDs, e.PostID)
	}
	posts, err := a.posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	postMap := make(map[string]*models.PostSnapshot, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		postMap[posts[i].ID] = &posts[i]
		authorIDs = append(authorIDs, posts[i].UserID)
	}

	profileMap, userMap, err := a.resolveAuthors(authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(entries))
	for _, entry := range entries {
		post, ok := postMap[entry.PostID]
		if !ok {
			continue
		}
		feedID := entry.ID.Hex()
		items = append(items, models.FeedItem{
			FeedID:           &feedID,
			PostID:           post.ID,
			Author:           a.authorInfo(post.UserID, viewerID, profileMap, userMap),
			Content:          post.Content,
			Media:            post.Media,
			Visibility:       post.Visibility,
			ReactionsSummary: emptyIfNil(post.ReactionsSummary),
			CommentsCount:    post.CommentsCount,
			CreatedAt:        post.CreatedAt,
			Status:           entry.Status,
			Source:           models.FeedSourcePersonalized,
		})
	}
	return items, nil
}

// hydrateTrending turns trending rows into view items, pulling counters
// from the post projection.
func (a *Assembler) hydrateTrending(ctx context.Context, viewerID string, rows []models.TrendingPost) ([]models.FeedItem, error) {
	if len(rows) == 0 {
		return []models.FeedItem{}, nil
	}

	postIDs := make([]string, 0, len(rows))
	authorIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		postIDs = append(postIDs, row.PostID)
		authorIDs = append(authorIDs, row.AuthorID)
	}

	posts, err := a.posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	postMap := make(map[string]*models.PostSnapshot, len(posts))
	for i := range posts {
		postMap[posts[i].ID] = &posts[i]
	}

	profileMap, userMap, err := a.resolveAuthors(authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(rows))
	for _, row := range rows {
		item := models.FeedItem{
			FeedID:           nil,
			PostID:           row.PostID,
			Author:           a.authorInfo(row.AuthorID, viewerID, profileMap, userMap),
			Content:          row.Content,
			Media:            row.Media,
			Visibility:       models.VisibilityPublic,
			ReactionsSummary: []models.ReactionSummary{},
			CreatedAt:        row.CreatedAt,
			Status:           models.FeedStatusUnseen,
			Source:           models.FeedSourceTrending,
		}
		if post, ok := postMap[row.PostID]; ok {
			item.ReactionsSummary = emptyIfNil(post.ReactionsSummary)
			item.CommentsCount = post.CommentsCount
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveAuthors loads profile and user projections for a set of authors.
// Lookup failures on the projections degrade to synthesized names later in
// the chain; only infrastructure errors propagate.
func (a *Assembler) resolveAuthors(authorIDs []string) (map[string]*models.Profile, map[string]*models.User, error) {
	unique := make([]string, 0, len(authorIDs))
	seen := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	profiles, err := a.profiles.GetByUserIDs(unique)
	if err != nil {
		return nil, nil, err
	}
	users, err := a.users.GetByIDs(unique)
	if err != nil {
		return nil, nil, err
	}

	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].UserID] = &profiles[i]
	}
	userMap := make(map[string]*models.User, len(users))
	for i := range users {
		userMap[users[i].UserID] = &users[i]
	}
	return profileMap, userMap, nil
}

func (a *Assembler) authorInfo(authorID, viewerID string, profileMap map[string]*models.Profile, userMap map[string]*models.User) models.AuthorInfo {
	profile := profileMap[authorID]
	user := userMap[authorID]

	info := models.AuthorInfo{
		UserID: authorID,
		Name:   displayName(profile, user, authorID, viewerID),
	}
	if user != nil {
		info.Email = user.Email
	}
	if profile != nil {
		info.AvatarURL = profile.AvatarURL
	}
	return info
}

// dedupByPostID keeps the first item per post id. A retried fan-out job can
// deliver the same post to a recipient twice; at most one row per post may
// surface in a response. Called after sortItems so the unseen/newest row
// wins.
func dedupByPostID(items []models.FeedItem) []models.FeedItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]models.FeedItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.PostID]; dup {
			continue
		}
		seen[item.PostID] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// sortItems orders a page unseen-first, then newest-first.
func sortItems(items []models.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		iUnseen := items[i].Status == models.FeedStatusUnseen
		jUnseen := items[j].Status == models.FeedStatusUnseen
		if iUnseen != jUnseen {
			return iUnseen
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func emptyIfNil(summary []models.ReactionSummary) []models.ReactionSummary {
	if summary == nil {
		return []models.ReactionSummary{}
	}
	return summary
}
