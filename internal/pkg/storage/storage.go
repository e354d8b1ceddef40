// Package storage abstracts object storage. The directory module uses
// it to keep contact export files and serve them through presigned
// download links.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner indicates the backend has no credentials suitable
// for presigning URLs.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage is the object store surface shared by the MinIO, S3, and
// GCS backends.
type Storage interface {
	io.Closer

	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts GetOptions) (io.ReadCloser, ObjectInfo, error)
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error)

	// PresignGet and PresignPut return time-limited URLs usable
	// without credentials.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, bucket, key string, opts PutOptions, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the expected content length. Backends that need it up
	// front reject -1.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// GetOptions configures a download.
type GetOptions struct {
	// Range requests a byte range when set.
	Range *ByteRange
}

// ListOptions configures listing.
type ListOptions struct {
	Limit int32
	// Token continues a previous listing.
	Token string
}

// ByteRange is an inclusive byte range.
type ByteRange struct {
	Start int64
	End   int64
}

// ObjectInfo carries object metadata common to all backends.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
