package openbeta

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultBaseURL is the public OpenBeta GraphQL endpoint.
const DefaultBaseURL = "https://api.openbeta.io/graphql"

const defaultHTTPTimeout = 30 * time.Second

// areaTreeQuery fetches an area matched by name together with two levels of
// children. Climbs and media hang off every level because OpenBeta attaches
// them wherever the community filed them, not only on leaf walls.
const areaTreeQuery = `
query SearchArea($name: String!) {
    areas(filter: { area_name: { match: $name } }) {
        area_name
        uuid
        metadata { lat lng }
        climbs { ...climbFields }
        children {
            area_name
            uuid
            metadata { lat lng }
            climbs { ...climbFields }
            children {
                area_name
                uuid
                metadata { lat lng }
                climbs { ...climbFields }
            }
        }
    }
}

fragment climbFields on Climb {
    name
    uuid
    type { trad sport bouldering tr }
    grades { yds }
    metadata { lat lng }
    content { description }
    media { mediaUrl }
}
`

// QueryError is a rejection reported inside the GraphQL envelope. The
// request made it to the server, so retrying it is pointless.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "openbeta rejected query: " + strings.Join(e.Messages, "; ")
}

// Client talks to the OpenBeta GraphQL API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
	}
}

// FetchAreaTree retrieves the nested area tree matching name.
func (c *Client) FetchAreaTree(ctx context.Context, name string) ([]AreaNode, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     areaTreeQuery,
		Variables: map[string]string{"name": name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openbeta request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openbeta returned status %d", resp.StatusCode)
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode openbeta response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &QueryError{Messages: messages}
	}

	c.logger.Debug("openbeta tree fetched", "name", name, "top_areas", len(decoded.Data.Areas))
	return decoded.Data.Areas, nil
}
