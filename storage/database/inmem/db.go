package inmemdb

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

type (
	// DB is a core.DocStore keeping JSON documents in memory.
	DB struct {
		mutex  sync.RWMutex
		tables map[string]*table
	}

	table struct {
		order   []string          // ids in insertion order
		docs    map[string][]byte // {id: JSON data}
		indexes []core.UniqueIndex
	}

	collection struct {
		db   *DB
		name string
	}

	document struct {
		id   string
		data []byte
	}
)

var (
	_ core.DocStore   = (*DB)(nil)
	_ core.Collection = (*collection)(nil)
	_ core.Document   = (*document)(nil)
)

func Open() (*DB, error) {
	return &DB{tables: make(map[string]*table)}, nil
}

func (db *DB) Collection(name string) core.Collection {
	return &collection{db: db, name: name}
}

// table returns the named table, creating it when missing. The caller must hold the write lock.
func (db *DB) table(name string) *table {
	t, ok := db.tables[name]
	if !ok {
		t = &table{docs: make(map[string][]byte)}
		db.tables[name] = t
	}
	return t
}

func (db *DB) EnsureIndexes(_ context.Context, collection string, indexes ...core.UniqueIndex) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t := db.table(collection)
	for _, idx := range indexes {
		known := false
		for _, existing := range t.indexes {
			if existing.Name == idx.Name {
				known = true
				break
			}
		}
		if !known {
			t.indexes = append(t.indexes, idx)
		}
	}
	return nil
}

func (db *DB) Ping(context.Context) error  { return nil }
func (db *DB) Close(context.Context) error { return nil }

// checkUnique reports the first unique index of t that data would violate as the document id.
func (t *table) checkUnique(id string, data map[string]interface{}) error {
	for _, idx := range t.indexes {
		if idx.Where != nil {
			if ok, err := core.MatchesWhere(data, idx.Where); err != nil || !ok {
				continue
			}
		}
		key, ok := core.IndexKey(data, idx)
		if !ok {
			continue
		}
		for otherID, raw := range t.docs {
			if otherID == id {
				continue
			}
			other, err := decode(raw)
			if err != nil {
				return err
			}
			if idx.Where != nil {
				if ok, err := core.MatchesWhere(other, idx.Where); err != nil || !ok {
					continue
				}
			}
			if otherKey, ok := core.IndexKey(other, idx); ok && otherKey == key {
				return &core.DuplicateError{Index: idx.Name}
			}
		}
	}
	return nil
}

// put validates and stores data under id, appending id to the insertion order when new.
func (t *table) put(id string, data map[string]interface{}) error {
	if err := t.checkUnique(id, data); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	if _, exists := t.docs[id]; !exists {
		t.order = append(t.order, id)
	}
	t.docs[id] = raw
	return nil
}

func (t *table) remove(id string) bool {
	if _, ok := t.docs[id]; !ok {
		return false
	}
	delete(t.docs, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection) All(context.Context) ([]core.Document, error) {
	c.db.mutex.RLock()
	defer c.db.mutex.RUnlock()

	t, ok := c.db.tables[c.name]
	if !ok {
		return []core.Document{}, nil
	}
	docs := make([]core.Document, 0, len(t.order))
	for _, id := range t.order {
		docs = append(docs, &document{id: id, data: t.docs[id]})
	}
	return docs, nil
}

func (c *collection) Get(_ context.Context, id string) (core.Document, error) {
	c.db.mutex.RLock()
	defer c.db.mutex.RUnlock()

	if t, ok := c.db.tables[c.name]; ok {
		if raw, ok := t.docs[id]; ok {
			return &document{id: id, data: raw}, nil
		}
	}
	return nil, core.ErrNoDocument
}

func (c *collection) Where(_ context.Context, field string, value interface{}) ([]core.Document, error) {
	c.db.mutex.RLock()
	defer c.db.mutex.RUnlock()

	docs := make([]core.Document, 0)
	t, ok := c.db.tables[c.name]
	if !ok {
		return docs, nil
	}
	where := map[string]interface{}{field: value}
	for _, id := range t.order {
		data, err := decode(t.docs[id])
		if err != nil {
			return nil, err
		}
		match, err := core.MatchesWhere(data, where)
		if err != nil {
			return nil, errors.Wrap(err, "matching document")
		}
		if match {
			docs = append(docs, &document{id: id, data: t.docs[id]})
		}
	}
	return docs, nil
}

func (c *collection) Add(_ context.Context, data interface{}) (string, error) {
	m, err := toMap(data)
	if err != nil {
		return "", err
	}

	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()

	id := uuid.NewString()
	if err = c.db.table(c.name).put(id, m); err != nil {
		return "", err
	}
	return id, nil
}

func (c *collection) Set(_ context.Context, id string, data interface{}) error {
	m, err := toMap(data)
	if err != nil {
		return err
	}

	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()
	return c.db.table(c.name).put(id, m)
}

func (c *collection) Update(_ context.Context, id string, fields core.Fields) error {
	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()

	t := c.db.table(c.name)
	raw, ok := t.docs[id]
	if !ok {
		return core.ErrNoDocument
	}
	data, err := decode(raw)
	if err != nil {
		return err
	}
	if err = core.ApplyFields(data, fields); err != nil {
		return errors.Wrap(err, "applying update")
	}
	return t.put(id, data)
}

func (c *collection) Delete(_ context.Context, id string) error {
	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()

	if !c.db.table(c.name).remove(id) {
		return core.ErrNoDocument
	}
	return nil
}

func (c *collection) DeleteBatch(_ context.Context, ids ...string) error {
	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()

	t := c.db.table(c.name)
	for _, id := range ids {
		t.remove(id)
	}
	return nil
}

func (d *document) ID() string { return d.id }

func (d *document) DataTo(v interface{}) error {
	return errors.Wrap(json.Unmarshal(d.data, v), "decoding document")
}

func toMap(data interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return decode(raw)
}

func decode(raw []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return m, nil
}
