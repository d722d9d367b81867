package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	OriginalsFolder  = "captures"
	ThumbnailsFolder = "thumbnails"
	thumbPrefix      = "thumb_"
)

var (
	unsafeChars     = regexp.MustCompile(`[^\p{L}\p{N}._-]`)
	repeatedUnderes = regexp.MustCompile(`_{2,}`)
)

// KeyBuilder derives storage keys for capture images.
type KeyBuilder interface {
	BuildKey(userID, captureID, fileName string) string
	BuildThumbnailKey(userID, captureID, fileName string) string
}

// DefaultKeyBuilder produces
// <folder>/user_<u>/capture_<c>/<unix>_<8 hex>_[thumb_]<sanitized name>.
// The random segment keeps keys unique for uploads within the same second.
type DefaultKeyBuilder struct {
	Now func() time.Time
}

func (b DefaultKeyBuilder) BuildKey(userID, captureID, fileName string) string {
	return b.build(OriginalsFolder, userID, captureID, SanitizeFileName(fileName))
}

func (b DefaultKeyBuilder) BuildThumbnailKey(userID, captureID, fileName string) string {
	return b.build(ThumbnailsFolder, userID, captureID, thumbPrefix+SanitizeFileName(fileName))
}

func (b DefaultKeyBuilder) build(folder, userID, captureID, name string) string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return fmt.Sprintf("%s/user_%s/capture_%s/%d_%s_%s",
		folder, userID, captureID, now().Unix(), randomSuffix(), name)
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// fallback; rand.Read does not fail on supported platforms
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(buf)
}

// ReplaceExtension swaps the extension of name for ext (".jpg", ".png").
// A name without extension gets ext appended.
func ReplaceExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}

// SanitizeFileName keeps letters, digits, '.', '_' and '-', replaces everything
// else with '_', collapses repeated underscores and lowercases the result.
func SanitizeFileName(name string) string {
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	name = repeatedUnderes.ReplaceAllString(name, "_")
	name = strings.ToLower(name)
	if name == "" || name == "." || name == ".." {
		return "image"
	}
	return name
}

// keyFromPublicURL strips baseURL (or, for foreign hosts, a leading bucket
// segment of the URL path) from a public object URL.
func keyFromPublicURL(baseURL, bucket, raw string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base != "" && strings.HasPrefix(raw, base+"/") {
		return strings.TrimPrefix(raw, base+"/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	return key
}
