package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/filestore"
	"github.com/mrowan/craglog/internal/mediaproc"
)

// climbRepository is the subset of store.ClimbStore that ClimbService requires.
type climbRepository interface {
	Create(ctx context.Context, climb *domain.Climb) (*domain.Climb, error)
	GetByID(ctx context.Context, id int64) (*domain.Climb, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*domain.Climb, error)
}

// climbAreaRepository is the subset of store.AreaStore that ClimbService requires.
type climbAreaRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Area, error)
}

// mediaRepository is the subset of store.MediaStore that ClimbService requires.
type mediaRepository interface {
	Create(ctx context.Context, m *domain.Media) (*domain.Media, error)
	ListByClimb(ctx context.Context, climbID int64) ([]*domain.Media, error)
}

// noteRepository is the subset of store.NoteStore that ClimbService requires.
type noteRepository interface {
	Create(ctx context.Context, note *domain.RouteNote) (*domain.RouteNote, error)
	ListByClimb(ctx context.Context, climbID int64) ([]*domain.RouteNote, error)
}

// ClimbService serves single climbs: detail views, creation, and the
// user-submitted media and notes attached to them.
type ClimbService struct {
	climbStore climbRepository
	areaStore  climbAreaRepository
	mediaStore mediaRepository
	noteStore  noteRepository
	files      filestore.FileStore
	processor  mediaproc.Processor
	logger     *slog.Logger
}

func NewClimbService(
	climbStore climbRepository,
	areaStore climbAreaRepository,
	mediaStore mediaRepository,
	noteStore noteRepository,
	files filestore.FileStore,
	processor mediaproc.Processor,
	logger *slog.Logger,
) *ClimbService {
	return &ClimbService{
		climbStore: climbStore,
		areaStore:  areaStore,
		mediaStore: mediaStore,
		noteStore:  noteStore,
		files:      files,
		processor:  processor,
		logger:     logger,
	}
}

// ClimbDetail is a climb with its owning area, media, and notes.
type ClimbDetail struct {
	Climb *domain.Climb
	Area  *domain.Area
	Media []*domain.Media
	Notes []*domain.RouteNote
}

func (s *ClimbService) ListClimbs(ctx context.Context) ([]*domain.Climb, error) {
	return s.climbStore.List(ctx)
}

func (s *ClimbService) GetClimb(ctx context.Context, id int64) (*ClimbDetail, error) {
	climb, err := s.climbStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if climb == nil {
		return nil, domain.ErrNotFound
	}

	area, err := s.areaStore.GetByID(ctx, climb.AreaID)
	if err != nil {
		return nil, err
	}
	media, err := s.mediaStore.ListByClimb(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteStore.ListByClimb(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClimbDetail{Climb: climb, Area: area, Media: media, Notes: notes}, nil
}

func (s *ClimbService) CreateClimb(ctx context.Context, climb *domain.Climb) (*domain.Climb, error) {
	if strings.TrimSpace(climb.Name) == "" {
		return nil, domain.Validationf("climb name is required")
	}
	area, err := s.areaStore.GetByID(ctx, climb.AreaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.ErrNotFound
	}
	return s.climbStore.Create(ctx, climb)
}

// AddNote attaches a note to a climb, attributed to userID when present.
func (s *ClimbService) AddNote(ctx context.Context, climbID int64, userID *string, body string) (*domain.RouteNote, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.Validationf("note body is required")
	}
	exists, err := s.climbStore.Exists(ctx, climbID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return s.noteStore.Create(ctx, &domain.RouteNote{ClimbID: climbID, UserID: userID, Body: body})
}

// Upload describes an incoming media file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Caption     *string
}

const maxVideoSeconds = 60

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true}
)

// UploadMedia stores an uploaded photo or video for a climb. Videos are
// probed for duration (over 60 seconds is rejected) and get a thumbnail
// snapshot. Any validation or probe failure removes the stored file.
func (s *ClimbService) UploadMedia(ctx context.Context, climbID int64, userID *string, up Upload) (*domain.Media, error) {
	exists, err := s.climbStore.Exists(ctx, climbID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	if up.Body == nil || up.Size == 0 {
		return nil, domain.Validationf("no file uploaded")
	}

	ext := strings.ToLower(path.Ext(up.Filename))
	contentType := strings.ToLower(up.ContentType)
	isImage := strings.HasPrefix(contentType, "image/") || imageExts[ext]
	isVideo := strings.HasPrefix(contentType, "video/") || videoExts[ext]
	if !isImage && !isVideo {
		return nil, domain.Validationf("only images (jpg/png/webp) or videos (mp4/webm/mov) are allowed")
	}

	name := uuid.NewString() + ext
	if err := s.files.Save(ctx, name, up.Body); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	s.logger.Info("media stored", "climb_id", climbID, "file", name, "bytes", up.Size)

	media := &domain.Media{
		ClimbID: climbID,
		UserID:  userID,
		Caption: up.Caption,
		URL:     "/uploads/" + name,
		Bytes:   &up.Size,
		Type:    domain.MediaPhoto,
	}

	var thumbName string
	if isVideo {
		media.Type = domain.MediaVideo
		thumb, duration, err := s.processVideo(ctx, name)
		if err != nil {
			s.removeUpload(ctx, name)
			return nil, err
		}
		thumbName = thumb
		seconds := int64(duration.Round(time.Second).Seconds())
		media.DurationSeconds = &seconds
		thumbURL := "/uploads/" + thumbName
		media.ThumbnailURL = &thumbURL
	}

	created, err := s.mediaStore.Create(ctx, media)
	if err != nil {
		s.removeUpload(ctx, name)
		if thumbName != "" {
			s.removeUpload(ctx, thumbName)
		}
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}
	return created, nil
}

// processVideo probes the stored video and cuts its thumbnail, returning the
// thumbnail's stored name.
func (s *ClimbService) processVideo(ctx context.Context, name string) (thumbName string, duration time.Duration, err error) {
	src, err := s.files.Path(name)
	if err != nil {
		return "", 0, err
	}

	duration, err = s.processor.Duration(ctx, src)
	if err != nil {
		s.logger.Error("video probe failed", "file", name, "error", err)
		return "", 0, domain.Validationf("could not analyse video")
	}
	if duration > maxVideoSeconds*time.Second {
		return "", 0, domain.Validationf("video must be %d seconds or less", maxVideoSeconds)
	}

	thumbName = strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
	dst, err := s.files.Path(thumbName)
	if err != nil {
		return "", 0, err
	}
	offset := time.Second
	if duration < offset {
		offset = duration
	}
	if err := s.processor.Thumbnail(ctx, src, dst, offset); err != nil {
		s.logger.Error("thumbnail snapshot failed", "file", name, "error", err)
		return "", 0, domain.Validationf("could not analyse video")
	}
	return thumbName, duration, nil
}

func (s *ClimbService) removeUpload(ctx context.Context, name string) {
	if err := s.files.Delete(ctx, name); err != nil {
		s.logger.Error("failed to remove rejected upload", "file", name, "error", err)
	}
}
