package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mzahan92/socialite/feed/internal/models"
)

// FeedAssembler builds one paginated feed page for a viewer
type FeedAssembler interface {
	AssembleFeed(ctx context.Context, viewerID string, limit int, cursor string) (*models.FeedResponse, error)
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	assembler    FeedAssembler
	defaultLimit int
	maxLimit     int
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(assembler FeedAssembler, defaultLimit, maxLimit int) *FeedHandler {
	return &FeedHandler{assembler: assembler, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feeds", h.GetFeed)
}

// GetFeed returns one page of the viewer's merged feed. "No content" is
// never an error: an empty or trending-sourced page comes back instead.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing user identity")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	cursor := c.QueryParam("cursor")

	resp, err := h.assembler.AssembleFeed(c.Request().Context(), viewerID, limit, cursor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// getUserIDFromContext extracts the authenticated user's id set by the JWT
// middleware
func getUserIDFromContext(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}
