package feedview

import (
	"testing"

	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.Profile
		user     *models.User
		authorID string
		viewerID string
		want     string
	}{
		{
			name:     "profile username wins",
			profile:  &models.Profile{UserID: "u1", Username: "alice"},
			user:     &models.User{UserID: "u1", Email: "alice@example.com"},
			authorID: "u1",
			want:     "alice",
		},
		{
			name:     "email local part when no username",
			profile:  &models.Profile{UserID: "u1"},
			user:     &models.User{UserID: "u1", Email: "bob.smith@example.com"},
			authorID: "u1",
			want:     "bob.smith",
		},
		{
			name:     "viewer's own post",
			authorID: "viewer-1",
			viewerID: "viewer-1",
			want:     "You",
		},
		{
			name:     "synthesized from id prefix",
			authorID: "0123456789abcdef",
			viewerID: "viewer-1",
			want:     "User 01234567",
		},
		{
			name:     "short id used whole",
			authorID: "abc",
			viewerID: "viewer-1",
			want:     "User abc",
		},
		{
			name: "empty author id",
			want: "User",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.profile, tt.user, tt.authorID, tt.viewerID))
		})
	}
}
