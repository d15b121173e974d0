package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyWithSuffix(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Addis Tech Meetup", "addis-tech-meetup-x"},
		{"diacritics", "Café Nöel Fête", "cafe-noel-fete-x"},
		{"punctuation", "Rock & Roll: The Night!", "rock-roll-the-night-x"},
		{"underscores and runs", "big__show   tonight", "big-show-tonight-x"},
		{"leading and trailing junk", "  ---What a Show---  ", "what-a-show-x"},
		{"amharic stripped", "ሙዚቃ Night", "night-x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugifyWithSuffix(tt.title, "x"))
		})
	}
}

func TestSlugify_AppendsTimestampSuffix(t *testing.T) {
	slug := Slugify("Addis Tech Meetup")
	assert.Regexp(t, `^addis-tech-meetup-\d+$`, slug)
}
