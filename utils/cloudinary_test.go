package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1234567890/gallery/abc123.jpg": "gallery/abc123",
		"https://res.cloudinary.com/demo/image/upload/gallery/team/final.png":         "gallery/team/final",
		"https://res.cloudinary.com/demo/image/upload/v1/plain.webp":                  "plain",
	}
	for in, want := range cases {
		got, err := extractPublicID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := extractPublicID("https://res.cloudinary.com/demo/image/fetch/abc.jpg")
	assert.Error(t, err)
	_, err = extractPublicID("https://res.cloudinary.com/demo/image/upload/")
	assert.Error(t, err)
}

func TestCloudinaryOwns(t *testing.T) {
	host, err := NewCloudinary("demo", "key", "secret", "gallery")
	require.NoError(t, err)

	assert.True(t, host.Owns("https://res.cloudinary.com/demo/image/upload/v1/gallery/a.jpg"))
	assert.False(t, host.Owns("https://res.cloudinary.com/other/image/upload/v1/gallery/a.jpg"))
	assert.False(t, host.Owns("https://images.unsplash.com/photo-1.jpg"))
	assert.False(t, host.Owns("::not a url"))
}
