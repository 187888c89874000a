// Package ffmpeg implements the media processor by shelling out to the
// ffprobe and ffmpeg binaries.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Processor struct {
	ffprobeBin string
	ffmpegBin  string
}

func NewProcessor() *Processor {
	return &Processor{ffprobeBin: "ffprobe", ffmpegBin: "ffmpeg"}
}

func (p *Processor) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparseable duration %q: %w", out.String(), err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (p *Processor) Thumbnail(ctx context.Context, src, dst string, offset time.Duration) error {
	cmd := exec.CommandContext(ctx, p.ffmpegBin,
		"-ss", fmt.Sprintf("%.3f", offset.Seconds()),
		"-i", src,
		"-frames:v", "1",
		"-y",
		dst,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg snapshot failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
