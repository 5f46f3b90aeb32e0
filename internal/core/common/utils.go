package common

import (
	"encoding/json"
	"fmt"

	"github.com/agenthands/supp/internal/core/model"
	"github.com/tidwall/gjson"
)

// Entry is one key and its decoded value from a keyed JSON document.
type Entry[T any] struct {
	Key   string
	Value T
}

// ParseKeyed decodes a JSON object that maps keys to records of type T,
// returning the entries in document order. normalize, when non-nil, is
// applied to every key before duplicates are checked. A repeated key is a
// model.ErrDataIntegrity error.
func ParseKeyed[T any](data []byte, normalize func(string) string) ([]Entry[T], error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", doc.Type)
	}

	var (
		entries []Entry[T]
		seen    = make(map[string]struct{})
		err     error
	)
	doc.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if normalize != nil {
			key = normalize(key)
		}
		if _, dup := seen[key]; dup {
			err = fmt.Errorf("%w: duplicate key %q", model.ErrDataIntegrity, key)
			return false
		}
		seen[key] = struct{}{}

		var value T
		if uerr := json.Unmarshal([]byte(v.Raw), &value); uerr != nil {
			err = fmt.Errorf("failed to decode %q: %w", key, uerr)
			return false
		}
		entries = append(entries, Entry[T]{Key: key, Value: value})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
