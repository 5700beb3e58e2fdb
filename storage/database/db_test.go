package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core"
	inmemdb "github.com/gabriel-goncalves1122/SGPA/storage/database/inmem"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/mongodb"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/postgres"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

type rec struct {
	Name string   `json:"nome" bson:"nome"`
	Kind string   `json:"papel" bson:"papel"`
	Tags []string `json:"tags" bson:"tags"`
}

// stores returns the stores under test: memory always, mongo and postgres when
// SGPA_TEST_MONGO_URI or SGPA_TEST_POSTGRES_DSN point to a server.
func stores(t *testing.T) map[string]core.DocStore {
	ctx := context.Background()
	mem, err := inmemdb.Open()
	require.NoError(t, err)
	all := map[string]core.DocStore{core.EngineMemory: mem}

	if uri := os.Getenv("SGPA_TEST_MONGO_URI"); uri != "" {
		conf := core.NewTestConfig()
		conf.Database.URI = uri
		conf.Database.Name = "sgpa_test_" + uuid.NewString()[:8]
		db, err := mongodb.Open(ctx, conf)
		require.NoError(t, err)
		all[core.EngineMongo] = db
	}
	if dsn := os.Getenv("SGPA_TEST_POSTGRES_DSN"); dsn != "" {
		db, err := postgres.OpenDSN(dsn)
		require.NoError(t, err)
		require.NoError(t, db.Migrate("up"))
		all[core.EnginePostgres] = db
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close(ctx)
		}
	})
	return all
}

// uniqueName keeps runs against a shared server apart.
func uniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func TestDocStore(t *testing.T) {
	for engine, store := range stores(t) {
		store := store
		t.Run(engine, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Ping(ctx))
			coll := store.Collection(uniqueName("things"))

			t.Run("add and get", func(t *testing.T) {
				id, err := coll.Add(ctx, rec{Name: "a", Kind: "x", Tags: []string{"t1"}})
				require.NoError(t, err)
				require.NotEmpty(t, id)

				doc, err := coll.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, id, doc.ID())
				var got rec
				require.NoError(t, doc.DataTo(&got))
				assert.Equal(t, rec{Name: "a", Kind: "x", Tags: []string{"t1"}}, got)

				_, err = coll.Get(ctx, "missing")
				assert.Equal(t, core.ErrNoDocument, err)
			})

			t.Run("set, where and update", func(t *testing.T) {
				id := uuid.NewString()
				require.NoError(t, coll.Set(ctx, id, rec{Name: "b", Kind: "y", Tags: []string{}}))
				require.NoError(t, coll.Set(ctx, id, rec{Name: "b", Kind: "z", Tags: []string{}}))

				docs, err := coll.Where(ctx, "papel", "z")
				require.NoError(t, err)
				require.Len(t, docs, 1)
				assert.Equal(t, id, docs[0].ID())

				require.NoError(t, coll.Update(ctx, id, core.Fields{"nome": "c", "tags": core.Union("t1", "t2")}))
				require.NoError(t, coll.Update(ctx, id, core.Fields{"tags": core.Union("t2", "t3")}))
				require.NoError(t, coll.Update(ctx, id, core.Fields{"tags": core.Remove("t1")}))
				doc, err := coll.Get(ctx, id)
				require.NoError(t, err)
				var got rec
				require.NoError(t, doc.DataTo(&got))
				assert.Equal(t, rec{Name: "c", Kind: "z", Tags: []string{"t2", "t3"}}, got)

				assert.Equal(t, core.ErrNoDocument, coll.Update(ctx, "missing", core.Fields{"nome": "d"}))
			})

			t.Run("delete", func(t *testing.T) {
				all, err := coll.All(ctx)
				require.NoError(t, err)
				require.Len(t, all, 2)

				require.NoError(t, coll.Delete(ctx, all[0].ID()))
				assert.Equal(t, core.ErrNoDocument, coll.Delete(ctx, all[0].ID()))
				require.NoError(t, coll.DeleteBatch(ctx, all[1].ID(), "missing"))

				all, err = coll.All(ctx)
				require.NoError(t, err)
				assert.Empty(t, all)
			})

			t.Run("unique indexes", func(t *testing.T) {
				name := uniqueName("links")
				links := store.Collection(name)
				pairIdx, leaderIdx := uniqueName("uniq_pair"), uniqueName("uniq_leader")
				require.NoError(t, store.EnsureIndexes(ctx, name,
					core.UniqueIndex{Name: pairIdx, Fields: []string{"nome", "tags"}},
					core.UniqueIndex{Name: leaderIdx, Fields: []string{"nome"}, Where: map[string]interface{}{"papel": "Líder"}},
				))
				// declaring them again is a no-op
				require.NoError(t, store.EnsureIndexes(ctx, name,
					core.UniqueIndex{Name: leaderIdx, Fields: []string{"nome"}, Where: map[string]interface{}{"papel": "Líder"}},
				))

				_, err := links.Add(ctx, rec{Name: "ana", Kind: "Líder", Tags: []string{"p1"}})
				require.NoError(t, err)
				_, err = links.Add(ctx, rec{Name: "ana", Kind: "Participante", Tags: []string{"p2"}})
				require.NoError(t, err, "the partial index only covers leaders")

				_, err = links.Add(ctx, rec{Name: "ana", Kind: "Líder", Tags: []string{"p3"}})
				idx, ok := core.DuplicateIndex(err)
				require.True(t, ok, "error = %v", err)
				assert.Equal(t, leaderIdx, idx)

				id, err := links.Add(ctx, rec{Name: "bia", Kind: "Participante", Tags: []string{"p1"}})
				require.NoError(t, err)
				err = links.Update(ctx, id, core.Fields{"papel": "Líder"})
				assert.NoError(t, err)
				err = links.Update(ctx, id, core.Fields{"nome": "ana"})
				_, ok = core.DuplicateIndex(err)
				assert.True(t, ok, "error = %v", err)
			})
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)

	store, err := Open(ctx, conf, logger)
	require.NoError(t, err)
	assert.NoError(t, store.Close(ctx))

	conf.Database.Engine = "lol"
	_, err = Open(ctx, conf, logger)
	assert.EqualError(t, err, `unknown database engine "lol"`)
}

type flakyStore struct {
	core.DocStore
	failures int
}

func (s *flakyStore) Ping(context.Context) error {
	if s.failures > 0 {
		s.failures--
		return core.ErrNoDocument
	}
	return nil
}

func Test_ping(t *testing.T) {
	pingDelay = time.Millisecond
	defer func() { pingDelay = 100 * time.Millisecond }()

	assert.NoError(t, ping(context.Background(), &flakyStore{failures: 3}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ping(ctx, &flakyStore{failures: 100})
	assert.Error(t, err)
}
