package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/delivery"
)

type deliveryRecord struct {
	TaskID      string    `json:"idTarefa" bson:"idTarefa"`
	File        string    `json:"arquivo" bson:"arquivo"`
	SubmittedAt time.Time `json:"dataEnvio" bson:"dataEnvio"`
	StudentID   string    `json:"alunoId,omitempty" bson:"alunoId,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

func (r deliveryRecord) toDelivery(id string) delivery.Delivery {
	return delivery.Delivery{
		ID:          id,
		TaskID:      r.TaskID,
		File:        r.File,
		SubmittedAt: r.SubmittedAt,
		StudentID:   r.StudentID,
		CreatedAt:   r.CreatedAt,
	}
}

type deliveryRepository struct {
	coll core.Collection
}

var _ delivery.Repository = (*deliveryRepository)(nil)

func NewDeliveryRepository(store core.DocStore) delivery.Repository {
	return &deliveryRepository{coll: store.Collection(DeliveryCollection)}
}

func (repo *deliveryRepository) decodeAll(docs []core.Document) ([]delivery.Delivery, error) {
	deliveries := make([]delivery.Delivery, 0, len(docs))
	for _, doc := range docs {
		var rec deliveryRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding delivery")
		}
		deliveries = append(deliveries, rec.toDelivery(doc.ID()))
	}
	return deliveries, nil
}

func (repo *deliveryRepository) CreateDelivery(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	id, err := repo.coll.Add(ctx, deliveryRecord{
		TaskID:      d.TaskID,
		File:        d.File,
		SubmittedAt: d.SubmittedAt,
		StudentID:   d.StudentID,
		CreatedAt:   d.CreatedAt,
	})
	if err != nil {
		return delivery.Delivery{}, err
	}
	d.ID = id
	return d, nil
}

func (repo *deliveryRepository) QueryAllDeliveries(ctx context.Context) ([]delivery.Delivery, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *deliveryRepository) QueryDeliveriesByTask(ctx context.Context, taskID string) ([]delivery.Delivery, error) {
	docs, err := repo.coll.Where(ctx, "idTarefa", taskID)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *deliveryRepository) GetDeliveryByID(ctx context.Context, id string) (delivery.Delivery, error) {
	var rec deliveryRecord
	if err := getDoc(ctx, repo.coll, id, delivery.ErrNotFound, &rec); err != nil {
		return delivery.Delivery{}, err
	}
	return rec.toDelivery(id), nil
}

func (repo *deliveryRepository) DeleteDelivery(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), delivery.ErrNotFound)
}
