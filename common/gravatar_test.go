package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	url := GravatarURL("test@example.com")

	assert.Equal(t, "https://www.gravatar.com/avatar/55502f40dc8b7c769880b10874abc9d0?s=100&d=mp", url)
}

func TestGravatarURL_NormalizesEmail(t *testing.T) {
	assert.Equal(t, GravatarURL("test@example.com"), GravatarURL("  Test@Example.COM "))
}
