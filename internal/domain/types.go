package domain

import "time"

// Area is a node in the geographic climbing hierarchy. A nil ParentAreaID
// marks a top-level area; sub-areas and walls hang off it via ParentAreaID.
type Area struct {
	ID           int64
	Name         string
	State        *string
	Country      string
	Lat          *float64
	Lng          *float64
	ParentAreaID *int64
	CreatedAt    time.Time
}

// TopLevel reports whether the area has no parent.
func (a *Area) TopLevel() bool {
	return a.ParentAreaID == nil
}

// Climb types. Source payloads may flag several disciplines at once;
// classification precedence is Boulder > Trad > Sport.
const (
	ClimbTypeSport   = "Sport"
	ClimbTypeTrad    = "Trad"
	ClimbTypeBoulder = "Boulder"
)

type Climb struct {
	ID              int64
	AreaID          int64
	Name            string
	Type            string
	Yds             *string
	Lat             *float64
	Lng             *float64
	LengthMeters    *int64
	Description     *string
	HeroURL         *string
	HeroAttribution *string
	Source          *string
	SourceID        *string
	CreatedAt       time.Time
}

type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Media is an uploaded photo or short video attached to a climb. Rows are
// immutable after creation and die with their climb.
type Media struct {
	ID              int64
	ClimbID         int64
	UserID          *string
	Type            MediaType
	URL             string
	ThumbnailURL    *string
	Caption         *string
	DurationSeconds *int64
	Bytes           *int64
	CreatedAt       time.Time
}

// RouteNote is a free-text note on a climb.
type RouteNote struct {
	ID        int64
	ClimbID   int64
	UserID    *string
	Body      string
	CreatedAt time.Time
}
