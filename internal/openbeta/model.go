package openbeta

// Wire types for the OpenBeta GraphQL payload. Everything optional in the
// payload is a pointer so absent fields decode to nil instead of zero values.

type AreaNode struct {
	AreaName string       `json:"area_name"`
	UUID     string       `json:"uuid"`
	Metadata *Coordinates `json:"metadata"`
	Children []AreaNode   `json:"children"`
	Climbs   []ClimbNode  `json:"climbs"`
}

type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type ClimbNode struct {
	Name     string       `json:"name"`
	UUID     string       `json:"uuid"`
	Type     *ClimbFlags  `json:"type"`
	Grades   *Grades      `json:"grades"`
	Metadata *Coordinates `json:"metadata"`
	Content  *Content     `json:"content"`
	Media    []MediaRef   `json:"media"`
}

// ClimbFlags are the discipline booleans OpenBeta attaches to a climb. A
// climb can carry several at once.
type ClimbFlags struct {
	Trad       bool `json:"trad"`
	Sport      bool `json:"sport"`
	Bouldering bool `json:"bouldering"`
	TR         bool `json:"tr"`
}

type Grades struct {
	Yds *string `json:"yds"`
}

type Content struct {
	Description *string `json:"description"`
}

type MediaRef struct {
	MediaURL string `json:"mediaUrl"`
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Areas []AreaNode `json:"areas"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
