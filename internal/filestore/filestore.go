package filestore

import (
	"context"
	"io"
)

// FileStore holds uploaded media files. Keys are opaque names issued by the
// caller; Path exposes a real filesystem path because the media processor
// shells out to tools that want one.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Path(name string) (string, error)
	Delete(ctx context.Context, name string) error
}
