package nuclino

import (
	"context"
	"strconv"
	"time"
)

// Thin endpoint wrappers over the four primitives: parameter marshaling in,
// typed objects out. Paths and parameter names follow the public API
// reference; a dispatch result of an unexpected type is a ProtocolError.

// TeamListParams narrows a GetTeams call. Zero values are omitted.
type TeamListParams struct {
	Limit int    // between 1 and 100
	After string // only return teams after this team ID
}

// WorkspaceListParams narrows a GetWorkspaces call. Zero values are omitted.
type WorkspaceListParams struct {
	TeamID string
	Limit  int
	After  string
}

// ItemListParams scopes a GetItems call. Exactly one of TeamID and
// WorkspaceID must be set.
type ItemListParams struct {
	TeamID      string
	WorkspaceID string
	Limit       int
	After       string
}

// CreateItemParams describes a new item or collection. Object defaults to
// "item"; Content only applies to items.
type CreateItemParams struct {
	WorkspaceID string
	ParentID    string
	Object      string
	Title       string
	Content     string
	Index       *int
}

// UpdateItemParams carries the mutable item fields; nil means "leave as is".
type UpdateItemParams struct {
	Title   *string
	Content *string
}

// CreateCollectionParams describes a new collection.
type CreateCollectionParams struct {
	WorkspaceID string
	ParentID    string
	Title       string
	Index       *int
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	result, err := c.Get(ctx, "/users/"+userID, nil)
	if err != nil {
		return nil, err
	}
	return assertObject[*User](result)
}

// GetTeams fetches the teams available to the authenticated user.
func (c *Client) GetTeams(ctx context.Context, p *TeamListParams) ([]*Team, error) {
	params := map[string]string{}
	if p != nil {
		if p.Limit > 0 {
			params["limit"] = strconv.Itoa(p.Limit)
		}
		if p.After != "" {
			params["after"] = p.After
		}
	}
	result, err := c.Get(ctx, "/teams", params)
	if err != nil {
		return nil, err
	}
	return assertList[*Team](result)
}

// GetTeam fetches a team by ID.
func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	result, err := c.Get(ctx, "/teams/"+teamID, nil)
	if err != nil {
		return nil, err
	}
	return assertObject[*Team](result)
}

// GetWorkspaces fetches the workspaces available to the authenticated user.
func (c *Client) GetWorkspaces(ctx context.Context, p *WorkspaceListParams) ([]*Workspace, error) {
	params := map[string]string{}
	if p != nil {
		if p.TeamID != "" {
			params["teamId"] = p.TeamID
		}
		if p.Limit > 0 {
			params["limit"] = strconv.Itoa(p.Limit)
		}
		if p.After != "" {
			params["after"] = p.After
		}
	}
	result, err := c.Get(ctx, "/workspaces", params)
	if err != nil {
		return nil, err
	}
	return assertList[*Workspace](result)
}

// GetWorkspace fetches a workspace by ID.
func (c *Client) GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	result, err := c.Get(ctx, "/workspaces/"+workspaceID, nil)
	if err != nil {
		return nil, err
	}
	return assertObject[*Workspace](result)
}

// GetItems fetches items and collections from a team or a workspace. The two
// scopes are mutually exclusive and one is required; violations fail
// client-side with a ValidationError before any request is sent.
func (c *Client) GetItems(ctx context.Context, p *ItemListParams) ([]Node, error) {
	if p == nil || (p.TeamID == "" && p.WorkspaceID == "") {
		return nil, &APIError{
			Type:       ErrorTypeValidation,
			StatusCode: 400,
			Message:    "must specify either TeamID or WorkspaceID",
			Timestamp:  time.Now(),
		}
	}
	if p.TeamID != "" && p.WorkspaceID != "" {
		return nil, &APIError{
			Type:       ErrorTypeValidation,
			StatusCode: 400,
			Message:    "cannot specify both TeamID and WorkspaceID",
			Timestamp:  time.Now(),
		}
	}

	params := map[string]string{}
	if p.TeamID != "" {
		params["teamId"] = p.TeamID
	}
	if p.WorkspaceID != "" {
		params["workspaceId"] = p.WorkspaceID
	}
	if p.Limit > 0 {
		params["limit"] = strconv.Itoa(p.Limit)
	}
	if p.After != "" {
		params["after"] = p.After
	}

	result, err := c.Get(ctx, "/items", params)
	if err != nil {
		return nil, err
	}
	return assertList[Node](result)
}

// GetItem fetches an item or collection by ID.
func (c *Client) GetItem(ctx context.Context, itemID string) (Node, error) {
	result, err := c.Get(ctx, "/items/"+itemID, nil)
	if err != nil {
		return nil, err
	}
	return assertObject[Node](result)
}

// CreateItem creates an item or collection under a workspace or a parent
// collection.
func (c *Client) CreateItem(ctx context.Context, p CreateItemParams) (Node, error) {
	object := p.Object
	if object == "" {
		object = "item"
	}
	body := map[string]any{"object": object}
	if p.WorkspaceID != "" {
		body["workspaceId"] = p.WorkspaceID
	}
	if p.ParentID != "" {
		body["parentId"] = p.ParentID
	}
	if p.Title != "" {
		body["title"] = p.Title
	}
	if p.Content != "" {
		body["content"] = p.Content
	}
	if p.Index != nil {
		body["index"] = strconv.Itoa(*p.Index)
	}

	result, err := c.Post(ctx, "/items", body)
	if err != nil {
		return nil, err
	}
	return assertObject[Node](result)
}

// UpdateItem changes an item's title and/or content.
func (c *Client) UpdateItem(ctx context.Context, itemID string, p UpdateItemParams) (Node, error) {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Content != nil {
		body["content"] = *p.Content
	}

	result, err := c.Put(ctx, "/items/"+itemID, body)
	if err != nil {
		return nil, err
	}
	return assertObject[Node](result)
}

// DeleteItem moves an item or collection to trash. The acknowledgement
// {"id": ...} is returned untouched.
func (c *Client) DeleteItem(ctx context.Context, itemID string) (map[string]any, error) {
	result, err := c.Delete(ctx, "/items/"+itemID)
	if err != nil {
		return nil, err
	}
	return assertObject[map[string]any](result)
}

// GetCollection fetches a collection by ID.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	result, err := c.GetItem(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return assertObject[*Collection](result)
}

// CreateCollection creates a collection.
func (c *Client) CreateCollection(ctx context.Context, p CreateCollectionParams) (*Collection, error) {
	node, err := c.CreateItem(ctx, CreateItemParams{
		WorkspaceID: p.WorkspaceID,
		ParentID:    p.ParentID,
		Object:      "collection",
		Title:       p.Title,
		Index:       p.Index,
	})
	if err != nil {
		return nil, err
	}
	return assertObject[*Collection](node)
}

// UpdateCollection changes a collection's title.
func (c *Client) UpdateCollection(ctx context.Context, collectionID string, title *string) (*Collection, error) {
	node, err := c.UpdateItem(ctx, collectionID, UpdateItemParams{Title: title})
	if err != nil {
		return nil, err
	}
	return assertObject[*Collection](node)
}

// DeleteCollection moves a collection to trash.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) (map[string]any, error) {
	return c.DeleteItem(ctx, collectionID)
}

// GetFile fetches a file by ID.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	result, err := c.Get(ctx, "/files/"+fileID, nil)
	if err != nil {
		return nil, err
	}
	return assertObject[*File](result)
}

// assertObject narrows a dispatch result to the expected concrete type.
func assertObject[T any](v any) (T, error) {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, protocolError("unexpected response type %T", v)
	}
	return typed, nil
}

// assertList narrows a dispatched list to a slice of the expected type.
func assertList[T any](v any) ([]T, error) {
	elements, ok := v.([]any)
	if !ok {
		return nil, protocolError("expected a list response, got %T", v)
	}
	out := make([]T, 0, len(elements))
	for i, element := range elements {
		typed, ok := element.(T)
		if !ok {
			return nil, protocolError("unexpected type %T for list element %d", element, i)
		}
		out = append(out, typed)
	}
	return out, nil
}
