package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/gabriel-goncalves1122/SGPA/core"
	appfs "github.com/gabriel-goncalves1122/SGPA/fs"
)

// uniqueViolation is the SQLSTATE of unique_violation errors.
const uniqueViolation = "23505"

type (
	// DB is a core.DocStore keeping every collection as jsonb rows of the `documents` table.
	DB struct {
		db *sqlx.DB
	}

	collection struct {
		db   *sqlx.DB
		name string
	}

	document struct {
		id   string
		data types.JSONText
	}

	row struct {
		ID   string         `db:"id"`
		Data types.JSONText `db:"data"`
	}
)

var (
	_ core.DocStore   = (*DB)(nil)
	_ core.Collection = (*collection)(nil)
	_ core.Document   = (*document)(nil)
)

// DSN builds the connection URL from the database config.
func DSN(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func Open(conf *core.Config) (*DB, error) {
	return OpenDSN(DSN(conf))
}

func OpenDSN(dsn string) (*DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres")
	}
	return &DB{db: db}, nil
}

// Migrate runs the goose command (up, down, status, ...) over the embedded migrations.
func (db *DB) Migrate(command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Run(command, db.db.DB, "migrations", args...); err != nil {
		return errors.Wrapf(err, "running migrations %s", command)
	}
	return nil
}

func (db *DB) Collection(name string) core.Collection {
	return &collection{db: db.db, name: name}
}

func (db *DB) EnsureIndexes(ctx context.Context, collection string, indexes ...core.UniqueIndex) error {
	for _, idx := range indexes {
		exprs := make([]string, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			exprs = append(exprs, fmt.Sprintf("(data->>%s)", pq.QuoteLiteral(f)))
		}
		conds := []string{"collection = " + pq.QuoteLiteral(collection)}
		keys := make([]string, 0, len(idx.Where))
		for k := range idx.Where {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			conds = append(conds, fmt.Sprintf("data->>%s = %s", pq.QuoteLiteral(k), pq.QuoteLiteral(fmt.Sprint(idx.Where[k]))))
		}

		q := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON documents (%s) WHERE %s",
			pq.QuoteIdentifier(idx.Name), strings.Join(exprs, ", "), strings.Join(conds, " AND "),
		)
		if _, err := db.db.ExecContext(ctx, q); err != nil {
			return errors.Wrapf(err, "creating index %s", idx.Name)
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close(context.Context) error {
	return db.db.Close()
}

func (c *collection) query(ctx context.Context, q string, args ...interface{}) ([]core.Document, error) {
	var rows []row
	if err := c.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting documents")
	}
	docs := make([]core.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, &document{id: r.ID, data: r.Data})
	}
	return docs, nil
}

func (c *collection) All(ctx context.Context) ([]core.Document, error) {
	return c.query(ctx, `SELECT id, data FROM documents WHERE collection = $1 ORDER BY created_at, id`, c.name)
}

func (c *collection) Get(ctx context.Context, id string) (core.Document, error) {
	var r row
	err := c.db.GetContext(ctx, &r, `SELECT id, data FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrNoDocument
		}
		return nil, errors.Wrap(err, "selecting document")
	}
	return &document{id: r.ID, data: r.Data}, nil
}

func (c *collection) Where(ctx context.Context, field string, value interface{}) ([]core.Document, error) {
	contains, err := json.Marshal(map[string]interface{}{field: value})
	if err != nil {
		return nil, errors.Wrap(err, "encoding filter")
	}
	return c.query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY created_at, id`,
		c.name, string(contains),
	)
}

func (c *collection) Add(ctx context.Context, data interface{}) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	id := uuid.NewString()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		c.name, id, string(raw),
	)
	if err != nil {
		return "", mapWriteError(err, "inserting document")
	}
	return id, nil
}

func (c *collection) Set(ctx context.Context, id string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		c.name, id, string(raw),
	)
	return mapWriteError(err, "upserting document")
}

// Update reads the document under a row lock, applies fields and writes it back.
func (c *collection) Update(ctx context.Context, id string, fields core.Fields) (err error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var raw types.JSONText
	err = tx.GetContext(ctx, &raw, `SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`, c.name, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.ErrNoDocument
		}
		return errors.Wrap(err, "selecting document")
	}
	var data map[string]interface{}
	if err = raw.Unmarshal(&data); err != nil {
		return errors.Wrap(err, "decoding document")
	}
	if err = core.ApplyFields(data, fields); err != nil {
		return errors.Wrap(err, "applying update")
	}
	updated, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
		c.name, id, string(updated),
	)
	if err != nil {
		return mapWriteError(err, "updating document")
	}
	return errors.Wrap(tx.Commit(), "committing update")
}

func (c *collection) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNoDocument
	}
	return nil
}

func (c *collection) DeleteBatch(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = ANY($2)`,
		c.name, pq.Array(ids),
	)
	return errors.Wrap(err, "deleting documents")
}

func (d *document) ID() string { return d.id }

func (d *document) DataTo(v interface{}) error {
	return errors.Wrap(d.data.Unmarshal(v), "decoding document")
}

// mapWriteError turns unique violations into core.DuplicateError.
func mapWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return &core.DuplicateError{Index: pqErr.Constraint}
	}
	return errors.Wrap(err, msg)
}
