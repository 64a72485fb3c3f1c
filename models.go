package nuclino

import "context"

// Node is the closed union of the two tree-dwelling variants: *Item and
// *Collection. List endpoints return heterogeneous mixes of both, so callers
// type-switch on the concrete type when they need more than the shared set.
type Node interface {
	ID() string
	Title() string
	WorkspaceID() string
	URL() string
	Label() string
	isNode()
}

// User is a Nuclino user profile.
type User struct {
	Object
}

func (u *User) ID() string        { return u.stringProp("id") }
func (u *User) FirstName() string { return u.stringProp("firstName") }
func (u *User) LastName() string  { return u.stringProp("lastName") }
func (u *User) Email() string     { return u.stringProp("email") }
func (u *User) AvatarURL() string { return u.stringProp("avatarUrl") }

func (u *User) Label() string {
	return u.label(u.FirstName() + " " + u.LastName())
}

// Team is a Nuclino team. Workspaces belong to exactly one team.
type Team struct {
	Object
}

func (t *Team) ID() string            { return t.stringProp("id") }
func (t *Team) URL() string           { return t.stringProp("url") }
func (t *Team) Name() string          { return t.stringProp("name") }
func (t *Team) CreatedAt() string     { return t.stringProp("createdAt") }
func (t *Team) CreatedUserID() string { return t.stringProp("createdUserId") }

func (t *Team) Label() string { return t.label(t.Name()) }

// Workspaces fetches all workspaces belonging to this team.
func (t *Team) Workspaces(ctx context.Context) ([]*Workspace, error) {
	return t.client.GetWorkspaces(ctx, &WorkspaceListParams{TeamID: t.ID()})
}

// Workspace is a Nuclino workspace, the root of an item/collection tree.
type Workspace struct {
	Object
}

func (w *Workspace) ID() string            { return w.stringProp("id") }
func (w *Workspace) TeamID() string        { return w.stringProp("teamId") }
func (w *Workspace) Name() string          { return w.stringProp("name") }
func (w *Workspace) CreatedAt() string     { return w.stringProp("createdAt") }
func (w *Workspace) CreatedUserID() string { return w.stringProp("createdUserId") }
func (w *Workspace) ChildIDs() []string    { return w.stringSliceProp("childIds") }

func (w *Workspace) Label() string { return w.label(w.Name()) }

// Team fetches the team this workspace belongs to.
func (w *Workspace) Team(ctx context.Context) (*Team, error) {
	return w.client.GetTeam(ctx, w.TeamID())
}

// Children fetches the workspace's direct children, one call per child ID.
func (w *Workspace) Children(ctx context.Context) ([]Node, error) {
	return fetchNodes(ctx, w.client, w.ChildIDs())
}

// CreateItem creates an item or collection under this workspace.
func (w *Workspace) CreateItem(ctx context.Context, p CreateItemParams) (Node, error) {
	p.WorkspaceID = w.ID()
	return w.client.CreateItem(ctx, p)
}

// CreateCollection creates a collection under this workspace.
func (w *Workspace) CreateCollection(ctx context.Context, title string, index *int) (*Collection, error) {
	return w.client.CreateCollection(ctx, CreateCollectionParams{
		WorkspaceID: w.ID(),
		Title:       title,
		Index:       index,
	})
}

// Item is a Nuclino content page.
type Item struct {
	Object
}

func (i *Item) isNode() {}

func (i *Item) ID() string                { return i.stringProp("id") }
func (i *Item) WorkspaceID() string       { return i.stringProp("workspaceId") }
func (i *Item) URL() string               { return i.stringProp("url") }
func (i *Item) Title() string             { return i.stringProp("title") }
func (i *Item) CreatedAt() string         { return i.stringProp("createdAt") }
func (i *Item) CreatedUserID() string     { return i.stringProp("createdUserId") }
func (i *Item) LastUpdatedAt() string     { return i.stringProp("lastUpdatedAt") }
func (i *Item) LastUpdatedUserID() string { return i.stringProp("lastUpdatedUserId") }
func (i *Item) Content() string           { return i.stringProp("content") }

// ContentItemIDs lists the IDs of items referenced in this item's content.
func (i *Item) ContentItemIDs() []string { return metaIDs(i.mapProp("contentMeta"), "itemIds") }

// ContentFileIDs lists the IDs of files attached to this item.
func (i *Item) ContentFileIDs() []string { return metaIDs(i.mapProp("contentMeta"), "fileIds") }

func (i *Item) Label() string { return i.label(i.Title()) }

// Workspace fetches the workspace this item belongs to.
func (i *Item) Workspace(ctx context.Context) (*Workspace, error) {
	return i.client.GetWorkspace(ctx, i.WorkspaceID())
}

// Items fetches the items and collections referenced in this item's content,
// one call per referenced ID.
func (i *Item) Items(ctx context.Context) ([]Node, error) {
	return fetchNodes(ctx, i.client, i.ContentItemIDs())
}

// Files fetches the files attached to this item, one call per file ID.
func (i *Item) Files(ctx context.Context) ([]*File, error) {
	ids := i.ContentFileIDs()
	files := make([]*File, 0, len(ids))
	for _, id := range ids {
		f, err := i.client.GetFile(ctx, id)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Update changes this item's title and/or content, returning the updated node.
func (i *Item) Update(ctx context.Context, p UpdateItemParams) (Node, error) {
	return i.client.UpdateItem(ctx, i.ID(), p)
}

// Delete moves this item to trash.
func (i *Item) Delete(ctx context.Context) (map[string]any, error) {
	return i.client.DeleteItem(ctx, i.ID())
}

// Collection is a Nuclino collection, grouping items and other collections.
type Collection struct {
	Object
}

func (c *Collection) isNode() {}

func (c *Collection) ID() string            { return c.stringProp("id") }
func (c *Collection) WorkspaceID() string   { return c.stringProp("workspaceId") }
func (c *Collection) URL() string           { return c.stringProp("url") }
func (c *Collection) Title() string         { return c.stringProp("title") }
func (c *Collection) CreatedAt() string     { return c.stringProp("createdAt") }
func (c *Collection) CreatedUserID() string { return c.stringProp("createdUserId") }
func (c *Collection) ChildIDs() []string    { return c.stringSliceProp("childIds") }

func (c *Collection) Label() string { return c.label(c.Title()) }

// Children fetches this collection's direct children, one call per child ID.
func (c *Collection) Children(ctx context.Context) ([]Node, error) {
	return fetchNodes(ctx, c.client, c.ChildIDs())
}

// Workspace fetches the workspace this collection belongs to.
func (c *Collection) Workspace(ctx context.Context) (*Workspace, error) {
	return c.client.GetWorkspace(ctx, c.WorkspaceID())
}

// CreateItem creates an item or collection under this collection.
func (c *Collection) CreateItem(ctx context.Context, p CreateItemParams) (Node, error) {
	p.ParentID = c.ID()
	return c.client.CreateItem(ctx, p)
}

// CreateCollection creates another collection under this collection.
func (c *Collection) CreateCollection(ctx context.Context, title string, index *int) (*Collection, error) {
	return c.client.CreateCollection(ctx, CreateCollectionParams{
		ParentID: c.ID(),
		Title:    title,
		Index:    index,
	})
}

// Update changes this collection's title, returning the updated collection.
func (c *Collection) Update(ctx context.Context, title *string) (*Collection, error) {
	return c.client.UpdateCollection(ctx, c.ID(), title)
}

// Delete moves this collection to trash.
func (c *Collection) Delete(ctx context.Context) (map[string]any, error) {
	return c.client.DeleteCollection(ctx, c.ID())
}

// File is a file attached to an item. The download URL is short-lived; see
// DownloadExpiresAt.
type File struct {
	Object
}

func (f *File) ID() string            { return f.stringProp("id") }
func (f *File) ItemID() string        { return f.stringProp("itemId") }
func (f *File) FileName() string      { return f.stringProp("fileName") }
func (f *File) CreatedAt() string     { return f.stringProp("createdAt") }
func (f *File) CreatedUserID() string { return f.stringProp("createdUserId") }

// DownloadURL returns the temporary download URL for this file.
func (f *File) DownloadURL() string {
	download := f.mapProp("download")
	u, _ := download["url"].(string)
	return u
}

// DownloadExpiresAt returns the expiry timestamp of the download URL.
func (f *File) DownloadExpiresAt() string {
	download := f.mapProp("download")
	e, _ := download["expiresAt"].(string)
	return e
}

func (f *File) Label() string { return f.label(f.FileName()) }

// Item fetches the item this file is attached to.
func (f *File) Item(ctx context.Context) (Node, error) {
	return f.client.GetItem(ctx, f.ItemID())
}

func fetchNodes(ctx context.Context, c *Client, ids []string) ([]Node, error) {
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		n, err := c.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func metaIDs(meta map[string]any, key string) []string {
	raw, _ := meta[key].([]any)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// String returns a pointer to v, for optional request parameters.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional request parameters.
func Int(v int) *int { return &v }
