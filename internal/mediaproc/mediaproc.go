// Package mediaproc is the media-processing collaborator: probing uploaded
// videos for duration and cutting preview thumbnails.
package mediaproc

import (
	"context"
	"time"
)

type Processor interface {
	// Duration returns the playback length of the video at path.
	Duration(ctx context.Context, path string) (time.Duration, error)
	// Thumbnail writes a still frame from src, taken at offset, to dst.
	Thumbnail(ctx context.Context, src, dst string, offset time.Duration) error
}
