package core

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoDocument is returned by point reads and writes addressing a missing document.
	ErrNoDocument = errors.New("document not found")
)

// DuplicateError is returned by writes violating the unique index named Index.
type DuplicateError struct {
	Index string
}

func (e DuplicateError) Error() string {
	return "duplicate key violates unique index " + e.Index
}

// DuplicateIndex returns the name of the unique index violated by err, if any.
func DuplicateIndex(err error) (string, bool) {
	if dErr, ok := errors.Cause(err).(*DuplicateError); ok {
		return dErr.Index, true
	}
	return "", false
}

type (
	// Document is a stored document as returned by a Collection.
	Document interface {
		ID() string
		// DataTo decodes the document data into the struct pointed to by v.
		DataTo(v interface{}) error
	}

	// Fields is a partial update: field name -> new value.
	// A value may also be an ArrayUnion or an ArrayRemove.
	Fields map[string]interface{}

	// ArrayUnion adds Values to an array field, skipping those already present.
	ArrayUnion struct{ Values []interface{} }

	// ArrayRemove removes every occurrence of Values from an array field.
	ArrayRemove struct{ Values []interface{} }

	// UniqueIndex declares a uniqueness constraint over Fields of a collection's documents.
	// When Where is set, only documents whose fields match Where are constrained (partial index).
	UniqueIndex struct {
		Name   string
		Fields []string
		Where  map[string]interface{}
	}

	// Collection is a flat set of schemaless documents keyed by a generated identifier.
	Collection interface {
		All(ctx context.Context) ([]Document, error)
		Get(ctx context.Context, id string) (Document, error)
		// Where returns the documents whose field equals value.
		Where(ctx context.Context, field string, value interface{}) ([]Document, error)
		// Add inserts data under a generated id and returns that id.
		Add(ctx context.Context, data interface{}) (string, error)
		// Set creates or replaces the document with the given id.
		Set(ctx context.Context, id string, data interface{}) error
		Update(ctx context.Context, id string, fields Fields) error
		Delete(ctx context.Context, id string) error
		// DeleteBatch deletes every listed document; missing ones are ignored.
		DeleteBatch(ctx context.Context, ids ...string) error
	}

	DocStore interface {
		Collection(name string) Collection
		EnsureIndexes(ctx context.Context, collection string, indexes ...UniqueIndex) error
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}
)

func Union(values ...string) ArrayUnion {
	return ArrayUnion{Values: toInterfaces(values)}
}

func Remove(values ...string) ArrayRemove {
	return ArrayRemove{Values: toInterfaces(values)}
}

func toInterfaces(values []string) []interface{} {
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return vals
}

// ApplyFields applies a partial update to a JSON-like document.
// Stores holding documents as JSON use it to implement Collection.Update.
func ApplyFields(doc map[string]interface{}, fields Fields) error {
	for name, val := range fields {
		switch op := val.(type) {
		case ArrayUnion:
			arr, err := normalizedArray(doc[name])
			if err != nil {
				return errors.Wrapf(err, "field %q", name)
			}
			for _, v := range op.Values {
				nv, err := normalize(v)
				if err != nil {
					return errors.Wrapf(err, "field %q", name)
				}
				if !containsValue(arr, nv) {
					arr = append(arr, nv)
				}
			}
			doc[name] = arr
		case ArrayRemove:
			arr, err := normalizedArray(doc[name])
			if err != nil {
				return errors.Wrapf(err, "field %q", name)
			}
			kept := make([]interface{}, 0, len(arr))
			for _, item := range arr {
				removed := false
				for _, v := range op.Values {
					nv, err := normalize(v)
					if err != nil {
						return errors.Wrapf(err, "field %q", name)
					}
					if reflect.DeepEqual(item, nv) {
						removed = true
						break
					}
				}
				if !removed {
					kept = append(kept, item)
				}
			}
			doc[name] = kept
		default:
			nv, err := normalize(val)
			if err != nil {
				return errors.Wrapf(err, "field %q", name)
			}
			doc[name] = nv
		}
	}
	return nil
}

// MatchesWhere tells whether a JSON-like document matches every equality in where.
func MatchesWhere(doc map[string]interface{}, where map[string]interface{}) (bool, error) {
	for field, want := range where {
		nv, err := normalize(want)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(doc[field], nv) {
			return false, nil
		}
	}
	return true, nil
}

// IndexKey builds the comparable key of doc for the fields of a UniqueIndex.
// ok is false when one of the fields is missing, such documents are not constrained.
func IndexKey(doc map[string]interface{}, idx UniqueIndex) (key string, ok bool) {
	parts := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		v, exists := doc[f]
		if !exists || v == nil {
			return "", false
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		parts = append(parts, string(b))
	}
	return strings.Join(parts, "\x00"), true
}

// normalize converts v to its JSON representation so that values compare the same way
// whether they come from a request or from a decoded document.
func normalize(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var nv interface{}
	if err := json.Unmarshal(b, &nv); err != nil {
		return nil, err
	}
	return nv, nil
}

func normalizedArray(v interface{}) ([]interface{}, error) {
	if v == nil {
		return []interface{}{}, nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("not an array")
	}
	return arr, nil
}

func containsValue(arr []interface{}, v interface{}) bool {
	for _, item := range arr {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
