// Package cache keeps short-lived HTTP results of custom responders on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/where"
)

const TTL = 24 * time.Hour

func dir() string {
	path := filepath.Join(where.Cache(), "http")
	_ = filesystem.API().MkdirAll(path, 0755)
	return path
}

// GenerateKey derives a stable cache identifier from a request and its scope.
func GenerateKey(request, scope string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(request, " ", "")) + scope
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry stored under key into target.
// It reports false for missing, expired or undecodable entries.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Write stores data under key.
func Write(key string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return filesystem.WriteAtomic(filepath.Join(dir(), key), encoded, 0644)
}

// CollectGarbage removes expired entries and reports how many were removed.
func CollectGarbage() (removed int) {
	_ = filesystem.API().Walk(dir(), func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) > TTL {
			if filesystem.API().Remove(path) == nil {
				removed++
			}
		}
		return nil
	})

	return
}
