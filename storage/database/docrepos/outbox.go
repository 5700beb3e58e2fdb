package docrepos

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
)

type entryRecord struct {
	Kind      string    `json:"kind" bson:"kind"`
	Ref       string    `json:"ref" bson:"ref"`
	Values    []string  `json:"values" bson:"values"`
	Status    string    `json:"status" bson:"status"`
	Attempts  int       `json:"attempts" bson:"attempts"`
	LastError string    `json:"lastError" bson:"lastError"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (r entryRecord) toEntry(id string) outbox.Entry {
	return outbox.Entry{
		ID:        id,
		Kind:      r.Kind,
		Ref:       r.Ref,
		Values:    nonNil(r.Values),
		Status:    r.Status,
		Attempts:  r.Attempts,
		LastError: r.LastError,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type outboxRepository struct {
	coll core.Collection
}

var _ outbox.Repository = (*outboxRepository)(nil)

func NewOutboxRepository(store core.DocStore) outbox.Repository {
	return &outboxRepository{coll: store.Collection(OutboxCollection)}
}

func (repo *outboxRepository) CreateEntry(ctx context.Context, e outbox.Entry) (outbox.Entry, error) {
	id, err := repo.coll.Add(ctx, entryRecord{
		Kind:      e.Kind,
		Ref:       e.Ref,
		Values:    nonNil(e.Values),
		Status:    e.Status,
		Attempts:  e.Attempts,
		LastError: e.LastError,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	})
	if err != nil {
		return outbox.Entry{}, err
	}
	e.ID = id
	return e, nil
}

func (repo *outboxRepository) GetEntryByID(ctx context.Context, id string) (outbox.Entry, error) {
	var rec entryRecord
	if err := getDoc(ctx, repo.coll, id, outbox.ErrNotFound, &rec); err != nil {
		return outbox.Entry{}, err
	}
	return rec.toEntry(id), nil
}

func (repo *outboxRepository) QueryPendingEntries(ctx context.Context, limit int) ([]outbox.Entry, error) {
	docs, err := repo.coll.Where(ctx, "status", outbox.StatusPending)
	if err != nil {
		return nil, err
	}
	entries := make([]outbox.Entry, 0, len(docs))
	for _, doc := range docs {
		var rec entryRecord
		if err = doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding outbox entry")
		}
		entries = append(entries, rec.toEntry(doc.ID()))
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (repo *outboxRepository) UpdateEntry(ctx context.Context, e outbox.Entry) (outbox.Entry, error) {
	err := repo.coll.Update(ctx, e.ID, core.Fields{
		"status":    e.Status,
		"attempts":  e.Attempts,
		"lastError": e.LastError,
		"updatedAt": e.UpdatedAt,
	})
	if err != nil {
		return outbox.Entry{}, mapNotFound(err, outbox.ErrNotFound)
	}
	return e, nil
}
