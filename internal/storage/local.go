package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const metaSuffix = ".meta"

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Put writes content and, when given, a JSON metadata sidecar
func (s *LocalStorage) Put(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	fullPath := s.keyToPath(key)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// write-then-rename so readers never see a partial file
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		return fmt.Errorf("failed to move file into place %s: %w", fullPath, err)
	}

	if metadata != nil {
		metaBytes, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := os.WriteFile(fullPath+metaSuffix, metaBytes, 0644); err != nil {
			return fmt.Errorf("failed to write metadata for %s: %w", key, err)
		}
	}

	log.Debug().Str("key", key).Int("bytes", len(content)).Msg("Stored object")
	return nil
}

// Get reads the content stored at key
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return content, nil
}

// GetInfo returns size, checksum and metadata for key
func (s *LocalStorage) GetInfo(ctx context.Context, key string) (*FileInfo, error) {
	fullPath := s.keyToPath(key)

	stat, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	checksum, err := fileChecksum(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}

	info := &FileInfo{
		Key:        key,
		Size:       stat.Size(),
		Checksum:   checksum,
		ModifiedAt: stat.ModTime(),
	}

	if metaBytes, err := os.ReadFile(fullPath + metaSuffix); err == nil {
		var metadata Metadata
		if err := json.Unmarshal(metaBytes, &metadata); err == nil {
			info.Metadata = &metadata
			info.ContentType = metadata.ContentType
		} else {
			log.Warn().Err(err).Str("key", key).Msg("Ignoring unreadable metadata sidecar")
		}
	}

	return info, nil
}

// Exists checks if key is present
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key and its metadata; missing keys are not an error
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := s.keyToPath(key)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if err := os.Remove(fullPath + metaSuffix); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete metadata sidecar")
	}
	return nil
}

// List walks the directory holding prefix and returns matching keys
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	searchPath := s.keyToPath(prefix)

	stat, err := os.Stat(searchPath)
	switch {
	case os.IsNotExist(err):
		searchPath = filepath.Dir(searchPath)
		if _, err := os.Stat(searchPath); os.IsNotExist(err) {
			return []string{}, nil
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat path %s: %w", searchPath, err)
	case !stat.IsDir():
		searchPath = filepath.Dir(searchPath)
	}

	keys := []string{}
	err = filepath.WalkDir(searchPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || strings.HasSuffix(path, ".tmp") {
			return nil
		}
		if key := s.pathToKey(path); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	sort.Strings(keys)
	return keys, nil
}

// keyToPath maps a key into basePath, refusing to escape it
func (s *LocalStorage) keyToPath(key string) string {
	cleanKey := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(s.basePath, cleanKey)
}

func (s *LocalStorage) pathToKey(path string) string {
	relPath, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(relPath)
}

// BasePath returns the root directory of this storage
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ComputeChecksum computes the SHA256 checksum of content
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FeedKey is where the raw upload of a feed run is archived
func FeedKey(feedID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".csv"
	}
	return fmt.Sprintf("feeds/%s%s", feedID, ext)
}

// HistoryKey is where the file-backed history store keeps a run record
func HistoryKey(feedID string) string {
	return fmt.Sprintf("history/%s.json", feedID)
}
