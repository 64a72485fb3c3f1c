package nuclino

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
)

// recordingHandler captures each request and answers from a path-keyed table
// of envelopes.
type recordingHandler struct {
	t  *testing.T
	mu sync.Mutex

	requests  []*http.Request
	bodies    []map[string]any
	responses map[string]any // keyed by "METHOD path"
}

func newRecordingHandler(t *testing.T) *recordingHandler {
	return &recordingHandler{t: t, responses: map[string]any{}}
}

func (h *recordingHandler) respond(method, path string, data any) {
	h.responses[method+" "+path] = data
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.requests = append(h.requests, r.Clone(r.Context()))
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	h.bodies = append(h.bodies, body)
	h.mu.Unlock()

	data, ok := h.responses[r.Method+" "+r.URL.Path]
	if !ok {
		writeJSON(h.t, w, 404, map[string]any{"message": "no stubbed response"})
		return
	}
	writeJSON(h.t, w, 200, map[string]any{"data": data})
}

func (h *recordingHandler) lastRequest() *http.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		return nil
	}
	return h.requests[len(h.requests)-1]
}

func (h *recordingHandler) lastBody() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.bodies) == 0 {
		return nil
	}
	return h.bodies[len(h.bodies)-1]
}

func newEndpointClient(t *testing.T) (*Client, *recordingHandler) {
	t.Helper()
	h := newRecordingHandler(t)
	c := newTestClient(t, h.ServeHTTP)
	return c, h
}

func TestGetUser(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/users/u1", map[string]any{
		"object": "user", "id": "u1", "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	})

	user, err := c.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if user.Email() != "ada@example.com" {
		t.Errorf("unexpected email %q", user.Email())
	}
}

func TestGetTeamsParams(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/teams", map[string]any{
		"object": "list",
		"results": []any{
			map[string]any{"object": "team", "id": "t1", "name": "Core"},
		},
	})

	teams, err := c.GetTeams(context.Background(), &TeamListParams{Limit: 25, After: "t0"})
	if err != nil {
		t.Fatalf("GetTeams() failed: %v", err)
	}
	if len(teams) != 1 || teams[0].Name() != "Core" {
		t.Fatalf("unexpected teams %v", teams)
	}

	query := h.lastRequest().URL.Query()
	if query.Get("limit") != "25" || query.Get("after") != "t0" {
		t.Errorf("unexpected query %v", query)
	}
}

func TestGetTeamsNilParams(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/teams", map[string]any{"object": "list", "results": []any{}})

	if _, err := c.GetTeams(context.Background(), nil); err != nil {
		t.Fatalf("GetTeams(nil) failed: %v", err)
	}
	if q := h.lastRequest().URL.RawQuery; q != "" {
		t.Errorf("Expected no query parameters, got %q", q)
	}
}

func TestGetWorkspacesTeamScope(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/workspaces", map[string]any{
		"object": "list",
		"results": []any{
			map[string]any{"object": "workspace", "id": "w1", "teamId": "t1", "name": "Docs"},
		},
	})

	workspaces, err := c.GetWorkspaces(context.Background(), &WorkspaceListParams{TeamID: "t1"})
	if err != nil {
		t.Fatalf("GetWorkspaces() failed: %v", err)
	}
	if len(workspaces) != 1 || workspaces[0].TeamID() != "t1" {
		t.Fatalf("unexpected workspaces %v", workspaces)
	}
	if got := h.lastRequest().URL.Query().Get("teamId"); got != "t1" {
		t.Errorf("Expected teamId=t1 in query, got %q", got)
	}
}

func TestGetItemsScopeValidation(t *testing.T) {
	c, h := newEndpointClient(t)

	testCases := []struct {
		name   string
		params *ItemListParams
	}{
		{"nil params", nil},
		{"neither scope", &ItemListParams{Limit: 10}},
		{"both scopes", &ItemListParams{TeamID: "t1", WorkspaceID: "w1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.GetItems(context.Background(), tc.params)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %v", err)
			}
			if apiErr.Type != ErrorTypeValidation || apiErr.StatusCode != 400 {
				t.Errorf("Expected client-side ValidationError(400), got %s(%d)", apiErr.Type, apiErr.StatusCode)
			}
		})
	}

	// Scope violations fail before any request is sent.
	if got := len(h.requests); got != 0 {
		t.Errorf("Expected no requests issued, got %d", got)
	}
}

func TestGetItemsHeterogeneous(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/items", map[string]any{
		"object": "list",
		"results": []any{
			map[string]any{"object": "item", "id": "i1", "title": "Notes"},
			map[string]any{"object": "collection", "id": "c1", "title": "Archive"},
		},
	})

	nodes, err := c.GetItems(context.Background(), &ItemListParams{WorkspaceID: "w1", Limit: 50})
	if err != nil {
		t.Fatalf("GetItems() failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if _, ok := nodes[0].(*Item); !ok {
		t.Errorf("Expected first node *Item, got %T", nodes[0])
	}
	if _, ok := nodes[1].(*Collection); !ok {
		t.Errorf("Expected second node *Collection, got %T", nodes[1])
	}

	query := h.lastRequest().URL.Query()
	if query.Get("workspaceId") != "w1" || query.Get("limit") != "50" {
		t.Errorf("unexpected query %v", query)
	}
}

func TestCreateItemBody(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("POST", "/items", map[string]any{"object": "item", "id": "i9", "title": "New"})

	index := 3
	node, err := c.CreateItem(context.Background(), CreateItemParams{
		WorkspaceID: "w1",
		Title:       "New",
		Content:     "hello",
		Index:       &index,
	})
	if err != nil {
		t.Fatalf("CreateItem() failed: %v", err)
	}
	if node.ID() != "i9" {
		t.Errorf("unexpected node %v", node)
	}

	body := h.lastBody()
	if body["object"] != "item" {
		t.Errorf("Expected object defaulted to item, got %v", body["object"])
	}
	if body["workspaceId"] != "w1" || body["title"] != "New" || body["content"] != "hello" {
		t.Errorf("unexpected body %v", body)
	}
	// The wire format carries index as a string.
	if body["index"] != "3" {
		t.Errorf("Expected index=%q, got %v", "3", body["index"])
	}
	if _, present := body["parentId"]; present {
		t.Error("Expected unset parentId to be omitted")
	}
}

func TestUpdateItemBody(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("PUT", "/items/i1", map[string]any{"object": "item", "id": "i1", "title": "Renamed"})

	node, err := c.UpdateItem(context.Background(), "i1", UpdateItemParams{Title: String("Renamed")})
	if err != nil {
		t.Fatalf("UpdateItem() failed: %v", err)
	}
	if node.Title() != "Renamed" {
		t.Errorf("unexpected title %q", node.Title())
	}

	body := h.lastBody()
	if body["title"] != "Renamed" {
		t.Errorf("unexpected body %v", body)
	}
	if _, present := body["content"]; present {
		t.Error("Expected nil content to be omitted")
	}
}

func TestDeleteItemAck(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("DELETE", "/items/i1", map[string]any{"id": "i1"})

	ack, err := c.DeleteItem(context.Background(), "i1")
	if err != nil {
		t.Fatalf("DeleteItem() failed: %v", err)
	}
	if ack["id"] != "i1" {
		t.Errorf("Expected ack id=i1, got %v", ack)
	}
	if h.lastRequest().Method != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", h.lastRequest().Method)
	}
}

func TestCreateCollection(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("POST", "/items", map[string]any{"object": "collection", "id": "c9", "title": "Archive"})

	collection, err := c.CreateCollection(context.Background(), CreateCollectionParams{
		WorkspaceID: "w1",
		Title:       "Archive",
	})
	if err != nil {
		t.Fatalf("CreateCollection() failed: %v", err)
	}
	if collection.Title() != "Archive" {
		t.Errorf("unexpected title %q", collection.Title())
	}
	if body := h.lastBody(); body["object"] != "collection" {
		t.Errorf("Expected object=collection in body, got %v", body["object"])
	}
}

func TestUpdateCollection(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("PUT", "/items/c1", map[string]any{"object": "collection", "id": "c1", "title": "Renamed"})

	collection, err := c.UpdateCollection(context.Background(), "c1", String("Renamed"))
	if err != nil {
		t.Fatalf("UpdateCollection() failed: %v", err)
	}
	if collection.Title() != "Renamed" {
		t.Errorf("unexpected title %q", collection.Title())
	}
}

func TestGetCollectionTypeMismatch(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/items/i1", map[string]any{"object": "item", "id": "i1"})

	_, err := c.GetCollection(context.Background(), "i1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeProtocol {
		t.Errorf("Expected ProtocolError for item-tagged response, got %v", err)
	}
}

func TestGetFile(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/files/f1", map[string]any{
		"object":   "file",
		"id":       "f1",
		"itemId":   "i1",
		"fileName": "diagram.png",
		"download": map[string]any{"url": "https://files.example.com/f1", "expiresAt": "soon"},
	})

	file, err := c.GetFile(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFile() failed: %v", err)
	}
	if file.FileName() != "diagram.png" || file.ItemID() != "i1" {
		t.Errorf("unexpected file %v", file)
	}
}

func TestEndpointTypeMismatch(t *testing.T) {
	c, h := newEndpointClient(t)
	h.respond("GET", "/users/u1", map[string]any{"object": "team", "id": "t1"})

	_, err := c.GetUser(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeProtocol {
		t.Errorf("Expected ProtocolError on dispatch type mismatch, got %v", err)
	}
}
