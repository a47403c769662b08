// Package mondaygql fetches boards straight from the Monday.com GraphQL API.
// It is registered as a direct acquisition source behind the route cascade,
// for deployments holding a Monday API token. Responses are re-emitted in the
// boards/items/column_values shape the monday adapter normalizes.
package mondaygql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/machinebox/graphql"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

const defaultEndpoint = "https://api.monday.com/v2"

// Client queries Monday.com boards over GraphQL.
type Client struct {
	gql   *graphql.Client
	token string
}

// New creates a client. endpoint overrides the public Monday API URL, used
// by tests.
func New(token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		gql:   graphql.NewClient(endpoint),
		token: token,
	}
}

// Name identifies this source in route attempt records.
func (c *Client) Name() string { return "monday-graphql" }

// Platform returns project.PlatformMonday.
func (c *Client) Platform() project.Platform { return project.PlatformMonday }

const boardQuery = `
	query ($ids: [ID!]) {
		boards(ids: $ids) {
			id
			name
			description
			state
			items_page(limit: 100) {
				items {
					id
					name
					created_at
					updated_at
					group {
						title
					}
					column_values {
						id
						type
						text
						column {
							title
						}
					}
				}
			}
			subscribers {
				id
				name
				email
				title
			}
		}
	}
`

type gqlColumnValue struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Text   string `json:"text"`
	Column struct {
		Title string `json:"title"`
	} `json:"column"`
}

type gqlItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Group     struct {
		Title string `json:"title"`
	} `json:"group"`
	ColumnValues []gqlColumnValue `json:"column_values"`
}

type gqlBoard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	ItemsPage   struct {
		Items []gqlItem `json:"items"`
	} `json:"items_page"`
	Subscribers []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Title string `json:"title"`
	} `json:"subscribers"`
}

// Fetch queries the board identified by projectID and returns it in the
// monday adapter's native payload shape. The connection ID is not needed;
// the token already scopes access.
func (c *Client) Fetch(ctx context.Context, _ string, projectID string) ([]byte, error) {
	req := graphql.NewRequest(boardQuery)
	req.Var("ids", []string{projectID})
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", "2024-01")

	var resp struct {
		Boards []gqlBoard `json:"boards"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("monday graphql: %w", err)
	}
	if len(resp.Boards) == 0 {
		return nil, fmt.Errorf("monday graphql: board %s not found", projectID)
	}

	return marshalNative(resp.Boards)
}

// marshalNative flattens items_page and lifts column titles so the result
// matches the integration layer's board payloads.
func marshalNative(boards []gqlBoard) ([]byte, error) {
	type nativeColumn struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Type  string `json:"type"`
		Text  string `json:"text"`
	}
	type nativeItem struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
		Group     struct {
			Title string `json:"title"`
		} `json:"group"`
		ColumnValues []nativeColumn `json:"column_values"`
	}
	type nativeBoard struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Description string       `json:"description"`
		State       string       `json:"state"`
		Items       []nativeItem `json:"items"`
		Subscribers []any        `json:"subscribers"`
	}

	out := struct {
		Boards []nativeBoard `json:"boards"`
	}{}
	for _, b := range boards {
		nb := nativeBoard{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			State:       b.State,
		}
		for _, it := range b.ItemsPage.Items {
			ni := nativeItem{
				ID:        it.ID,
				Name:      it.Name,
				CreatedAt: it.CreatedAt,
				UpdatedAt: it.UpdatedAt,
			}
			ni.Group.Title = it.Group.Title
			for _, cv := range it.ColumnValues {
				ni.ColumnValues = append(ni.ColumnValues, nativeColumn{
					ID:    cv.ID,
					Title: cv.Column.Title,
					Type:  cv.Type,
					Text:  cv.Text,
				})
			}
			nb.Items = append(nb.Items, ni)
		}
		for _, sub := range b.Subscribers {
			nb.Subscribers = append(nb.Subscribers, sub)
		}
		out.Boards = append(out.Boards, nb)
	}
	return json.Marshal(out)
}
