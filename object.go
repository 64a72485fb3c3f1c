package nuclino

import (
	"fmt"
	"time"
)

// Object is the read-only property snapshot embedded by every domain object
// variant. Properties keep the API's original camelCase keys; no renaming
// occurs at this layer. The client back-reference is non-owning and used only
// for navigation calls — an Object must not outlive the Client that built it.
type Object struct {
	props  map[string]any
	client *Client
}

func newObject(props map[string]any, c *Client) Object {
	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	return Object{props: copied, client: c}
}

// Get returns the property stored under key. Missing keys fail with a
// KeyNotFoundError rather than returning a zero value silently.
func (o *Object) Get(key string) (any, error) {
	v, ok := o.props[key]
	if !ok {
		return nil, &APIError{
			Type:      ErrorTypeKeyNotFound,
			Message:   fmt.Sprintf("object has no property %q", key),
			Timestamp: time.Now(),
		}
	}
	return v, nil
}

// GetOr returns the property stored under key, or def when absent.
func (o *Object) GetOr(key string, def any) any {
	if v, ok := o.props[key]; ok {
		return v
	}
	return def
}

// Props returns a copy of the underlying property map.
func (o *Object) Props() map[string]any {
	copied := make(map[string]any, len(o.props))
	for k, v := range o.props {
		copied[k] = v
	}
	return copied
}

// Tag returns the object discriminator ("user", "item", ...).
func (o *Object) Tag() string {
	tag, _ := o.props["object"].(string)
	return tag
}

func (o *Object) String() string {
	return fmt.Sprintf("%v", o.props)
}

// label renders the tag-qualified diagnostic form shared by every variant,
// e.g. `<item "Meeting notes">`.
func (o *Object) label(name string) string {
	return fmt.Sprintf("<%s %q>", o.Tag(), name)
}

// Typed property helpers. JSON numbers decode as float64 and arrays as
// []any; these narrow to the schema's known shapes without reflection.

func (o *Object) stringProp(key string) string {
	s, _ := o.props[key].(string)
	return s
}

func (o *Object) stringSliceProp(key string) []string {
	raw, _ := o.props[key].([]any)
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

func (o *Object) mapProp(key string) map[string]any {
	m, _ := o.props[key].(map[string]any)
	return m
}
