package feedview

import (
	"strings"

	"github.com/mzahan92/socialite/feed/internal/models"
)

// displayName resolves an author's visible name. Missing projections never
// fail a request; the chain falls back through profile username, email
// local part, "You" for the viewer's own posts, and a synthesized name
// from the id prefix.
func displayName(profile *models.Profile, user *models.User, authorID, viewerID string) string {
	if profile != nil && profile.Username != "" {
		return profile.Username
	}
	if user != nil && user.Email != "" {
		return strings.SplitN(user.Email, "@", 2)[0]
	}
	if authorID == "" {
		return "User"
	}
	if authorID == viewerID {
		return "You"
	}
	prefix := authorID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "User " + prefix
}
