package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TagRef points at an existing tag or describes one to be created.
type TagRef interface {
	isTagRef()
}

// ExistingTagRef references a tag row by id.
type ExistingTagRef struct {
	ID uint
}

// NewTagRef describes a tag by name; it is created on first use.
type NewTagRef struct {
	Name string `json:"name"`
}

func (ExistingTagRef) isTagRef() {}
func (NewTagRef) isTagRef()      {}

// TagRefs decodes the mixed `tag` array of a blog payload: ids become
// ExistingTagRef, `{"name": ...}` objects become NewTagRef.
type TagRefs []TagRef

// UnmarshalJSON implements json.Unmarshaler.
func (r *TagRefs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tag must be an array: %w", err)
	}

	refs := make(TagRefs, 0, len(raw))
	for idx, item := range raw {
		ref, err := decodeTagRef(item)
		if err != nil {
			return fmt.Errorf("tag[%d]: %w", idx, err)
		}
		refs = append(refs, ref)
	}
	*r = refs
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r TagRefs) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, 0, len(r))
	for _, ref := range r {
		switch v := ref.(type) {
		case ExistingTagRef:
			out = append(out, v.ID)
		case NewTagRef:
			out = append(out, v)
		}
	}
	return json.Marshal(out)
}

func decodeTagRef(item json.RawMessage) (TagRef, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty tag reference")
	}

	switch trimmed[0] {
	case '{':
		var ref NewTagRef
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return nil, err
		}
		return ref, nil
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid tag id %q", value)
		}
		return ExistingTagRef{ID: uint(id)}, nil
	default:
		var id uint64
		if err := json.Unmarshal(trimmed, &id); err != nil || id == 0 {
			return nil, fmt.Errorf("invalid tag id %s", string(trimmed))
		}
		return ExistingTagRef{ID: uint(id)}, nil
	}
}
