package feedview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCursor(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want cursor
	}{
		{"empty starts personalized", "", cursor{phase: phasePersonalized}},
		{"literal null starts personalized", "null", cursor{phase: phasePersonalized}},
		{"trending sentinel", "trending", cursor{phase: phaseTrending}},
		{"entry id continues personalized", "64f0c2a9e13b4c0001a2b3c4", cursor{phase: phasePersonalized, lastID: "64f0c2a9e13b4c0001a2b3c4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCursor(tt.raw))
		})
	}
}
