package nuclino

// Response dispatch: raw `data` payloads are classified into typed domain
// objects by their "object" discriminator. The tag set is closed — user,
// team, workspace, item, collection, file, list — and an unrecognized tag is
// a hard ProtocolError, since a tagged mapping the client cannot place means
// the API and client disagree on the protocol version.

// parse resolves a raw payload into a domain object, a slice of parsed
// results, or the payload untouched:
//
//   - mappings without an "object" key pass through unchanged (opaque data,
//     e.g. the delete acknowledgement {"id": ...})
//   - tagged mappings construct the matching variant with a back-reference
//     to this client
//   - the "list" tag extracts "results" and parses every element
//     independently; heterogeneous element tags are expected
//   - anything else passes through unchanged
//
// Recursion terminates because valid API output never nests a list inside a
// list; no artificial depth limit is imposed.
func (c *Client) parse(payload any) (any, error) {
	source, ok := payload.(map[string]any)
	if !ok {
		return payload, nil
	}
	tag, ok := source["object"].(string)
	if !ok {
		return source, nil
	}
	return c.load(tag, source)
}

func (c *Client) load(tag string, props map[string]any) (any, error) {
	switch tag {
	case "user":
		c.metrics.RecordObjectParsed(tag)
		return &User{newObject(props, c)}, nil
	case "team":
		c.metrics.RecordObjectParsed(tag)
		return &Team{newObject(props, c)}, nil
	case "workspace":
		c.metrics.RecordObjectParsed(tag)
		return &Workspace{newObject(props, c)}, nil
	case "item":
		c.metrics.RecordObjectParsed(tag)
		return &Item{newObject(props, c)}, nil
	case "collection":
		c.metrics.RecordObjectParsed(tag)
		return &Collection{newObject(props, c)}, nil
	case "file":
		c.metrics.RecordObjectParsed(tag)
		return &File{newObject(props, c)}, nil
	case "list":
		results, _ := props["results"].([]any)
		parsed := make([]any, 0, len(results))
		for _, element := range results {
			p, err := c.parse(element)
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, p)
		}
		return parsed, nil
	default:
		return nil, protocolError("unknown object type %q", tag)
	}
}
