package mongodb

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

type (
	// DB is a core.DocStore over one mongo database. Document ids are stored as string `_id`s.
	DB struct {
		client *mongo.Client
		db     *mongo.Database
	}

	collection struct {
		coll *mongo.Collection
	}

	document struct {
		id  string
		raw bson.Raw
	}
)

var (
	_ core.DocStore   = (*DB)(nil)
	_ core.Collection = (*collection)(nil)
	_ core.Document   = (*document)(nil)
)

func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI).SetAppName(conf.AppName))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	return &DB{client: client, db: client.Database(conf.Database.Name)}, nil
}

func (db *DB) Collection(name string) core.Collection {
	return &collection{coll: db.db.Collection(name)}
}

func (db *DB) EnsureIndexes(ctx context.Context, collection string, indexes ...core.UniqueIndex) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		keys := make(bson.D, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		opts := options.Index().SetName(idx.Name).SetUnique(true)
		if idx.Where != nil {
			opts.SetPartialFilterExpression(bson.M(idx.Where))
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: opts})
	}
	_, err := db.db.Collection(collection).Indexes().CreateMany(ctx, models)
	return errors.Wrapf(err, "creating %s indexes", collection)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (c *collection) find(ctx context.Context, filter interface{}) ([]core.Document, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "finding documents")
	}
	defer func() { _ = cur.Close(ctx) }()

	docs := make([]core.Document, 0)
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current) // Current is reused by Next
		doc, err := newDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, errors.Wrap(cur.Err(), "iterating documents")
}

func (c *collection) All(ctx context.Context) ([]core.Document, error) {
	return c.find(ctx, bson.M{})
}

func (c *collection) Get(ctx context.Context, id string) (core.Document, error) {
	raw, err := c.coll.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, core.ErrNoDocument
		}
		return nil, errors.Wrap(err, "finding document")
	}
	return newDocument(raw)
}

func (c *collection) Where(ctx context.Context, field string, value interface{}) ([]core.Document, error) {
	return c.find(ctx, bson.M{field: value})
}

func (c *collection) Add(ctx context.Context, data interface{}) (string, error) {
	id := uuid.NewString()
	doc, err := withID(id, data)
	if err != nil {
		return "", err
	}
	if _, err = c.coll.InsertOne(ctx, doc); err != nil {
		return "", mapWriteError(err, "inserting document")
	}
	return id, nil
}

func (c *collection) Set(ctx context.Context, id string, data interface{}) error {
	doc, err := withID(id, data)
	if err != nil {
		return err
	}
	_, err = c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return mapWriteError(err, "replacing document")
}

func (c *collection) Update(ctx context.Context, id string, fields core.Fields) error {
	set, addToSet, pull := bson.M{}, bson.M{}, bson.M{}
	for name, val := range fields {
		switch op := val.(type) {
		case core.ArrayUnion:
			addToSet[name] = bson.M{"$each": op.Values}
		case core.ArrayRemove:
			pull[name] = bson.M{"$in": op.Values}
		default:
			set[name] = val
		}
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	if len(update) == 0 {
		return nil
	}

	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mapWriteError(err, "updating document")
	}
	if res.MatchedCount == 0 {
		return core.ErrNoDocument
	}
	return nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if res.DeletedCount == 0 {
		return core.ErrNoDocument
	}
	return nil
}

func (c *collection) DeleteBatch(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting documents")
}

func newDocument(raw bson.Raw) (*document, error) {
	idVal, err := raw.LookupErr("_id")
	if err != nil {
		return nil, errors.Wrap(err, "reading document id")
	}
	id, ok := idVal.StringValueOK()
	if !ok {
		return nil, errors.New("document id is not a string")
	}
	return &document{id: id, raw: raw}, nil
}

func (d *document) ID() string { return d.id }

func (d *document) DataTo(v interface{}) error {
	return errors.Wrap(bson.Unmarshal(d.raw, v), "decoding document")
}

// withID encodes data as a bson document whose first element is the `_id`.
func withID(id string, data interface{}) (bson.D, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	var fields bson.D
	if err = bson.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	doc := make(bson.D, 0, len(fields)+1)
	doc = append(doc, bson.E{Key: "_id", Value: id})
	for _, f := range fields {
		if f.Key != "_id" {
			doc = append(doc, f)
		}
	}
	return doc, nil
}

// mapWriteError turns duplicate key errors into core.DuplicateError.
func mapWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &core.DuplicateError{Index: duplicateIndexName(err)}
	}
	return errors.Wrap(err, msg)
}

// duplicateIndexName extracts the index name from an E11000 message:
// "E11000 duplicate key error collection: db.coll index: <name> dup key: {...}".
func duplicateIndexName(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return ""
	}
	name := msg[i+len("index: "):]
	if j := strings.IndexByte(name, ' '); j >= 0 {
		name = name[:j]
	}
	return name
}
