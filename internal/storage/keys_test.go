package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"uppercase", "Trucha_Grande.JPG", "trucha_grande.jpg"},
		{"spaces and symbols", "my  fish (1)!.png", "my_fish_1_.png"},
		{"repeated underscores", "a___b__c.gif", "a_b_c.gif"},
		{"unicode letters kept", "Pesca-Año.jpeg", "pesca-año.jpeg"},
		{"path stripped", "../../etc/passwd", "passwd"},
		{"windows path stripped", `C:\Users\me\pic.webp`, "pic.webp"},
		{"empty", "", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFileName(tt.input))
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "fish.jpg", ReplaceExtension("fish.gif", ".jpg"))
	assert.Equal(t, "fish.png", ReplaceExtension("fish.webp", ".png"))
	assert.Equal(t, "fish.v2.jpg", ReplaceExtension("fish.v2.jpeg", ".jpg"))
	assert.Equal(t, "image.png", ReplaceExtension("image", ".png"))
	assert.Equal(t, "fish.gif", ReplaceExtension("fish.gif", ""))
}

func TestDefaultKeyBuilder_Format(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	b := DefaultKeyBuilder{Now: func() time.Time { return fixed }}

	key := b.BuildKey("u1", "c1", "My Photo.JPG")
	assert.Regexp(t, regexp.MustCompile(`^captures/user_u1/capture_c1/1700000000_[0-9a-f]{8}_my_photo\.jpg$`), key)

	thumb := b.BuildThumbnailKey("u1", "c1", "My Photo.JPG")
	assert.Regexp(t, regexp.MustCompile(`^thumbnails/user_u1/capture_c1/1700000000_[0-9a-f]{8}_thumb_my_photo\.jpg$`), thumb)
}

func TestDefaultKeyBuilder_UniqueWithinSameSecond(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	b := DefaultKeyBuilder{Now: func() time.Time { return fixed }}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := b.BuildKey("u1", "c1", "photo.jpg")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestKeyFromPublicURL(t *testing.T) {
	key := "captures/user_u/capture_c/1_abcdef01_photo.jpg"

	assert.Equal(t, key, keyFromPublicURL("https://cdn.example.com/", "bucket", "https://cdn.example.com/"+key))
	assert.Equal(t, key, keyFromPublicURL("https://cdn.example.com", "bucket", "https://other.host/bucket/"+key))
	assert.Equal(t, key, keyFromPublicURL("/files", "", "/files/"+key))
	assert.True(t, strings.HasPrefix(keyFromPublicURL("", "", "https://x/"+key), "captures/"))
}
