package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("storage: not found")

// Metadata is stored next to an uploaded feed
type Metadata struct {
	ContentType  string            `json:"contentType,omitempty"`
	OriginalName string            `json:"originalName,omitempty"`
	FeedID       string            `json:"feedId,omitempty"`
	Encoding     string            `json:"encoding,omitempty"`
	Source       string            `json:"source,omitempty"`
	UploadedAt   time.Time         `json:"uploadedAt,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// FileInfo describes a stored object
type FileInfo struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	ContentType string    `json:"contentType,omitempty"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Storage keeps raw feed uploads and file-backed history records.
// Implementations can be local filesystem, S3, GCS, etc.
type Storage interface {
	// Put stores content at key with optional metadata
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Get retrieves content at key; ErrNotFound when missing
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves file information without content
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	Exists(ctx context.Context, key string) (bool, error)

	Delete(ctx context.Context, key string) error

	// List returns all keys under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
)
