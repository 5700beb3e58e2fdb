package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/user"
)

var userDuplicates = map[string]error{UserEmailIndex: user.ErrEmailExists}

type userRecord struct {
	Name         string    `json:"nome" bson:"nome"`
	Email        string    `json:"email" bson:"email"`
	Type         string    `json:"tipo" bson:"tipo"`
	PasswordHash []byte    `json:"passwordHash" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func newUserRecord(u user.User) userRecord {
	return userRecord{
		Name:         u.Name,
		Email:        u.Email,
		Type:         u.Type,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toUser(id string) user.User {
	return user.User{
		ID:           id,
		Name:         r.Name,
		Email:        r.Email,
		Type:         r.Type,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type userRepository struct {
	coll core.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(store core.DocStore) user.Repository {
	return &userRepository{coll: store.Collection(UserCollection)}
}

func (repo *userRepository) decodeAll(docs []core.Document) ([]user.User, error) {
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		var rec userRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding user")
		}
		users = append(users, rec.toUser(doc.ID()))
	}
	return users, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	id, err := repo.coll.Add(ctx, newUserRecord(usr))
	if err != nil {
		return user.User{}, mapDuplicate(err, userDuplicates)
	}
	usr.ID = id
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var rec userRecord
	if err := getDoc(ctx, repo.coll, id, user.ErrNotFound, &rec); err != nil {
		return user.User{}, err
	}
	return rec.toUser(id), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	docs, err := repo.coll.Where(ctx, "email", email)
	if err != nil {
		return user.User{}, err
	}
	users, err := repo.decodeAll(docs)
	if err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	rec := newUserRecord(usr)
	err := repo.coll.Update(ctx, usr.ID, core.Fields{
		"nome":         rec.Name,
		"email":        rec.Email,
		"tipo":         rec.Type,
		"passwordHash": rec.PasswordHash,
		"updatedAt":    rec.UpdatedAt,
	})
	if err != nil {
		return user.User{}, mapDuplicate(mapNotFound(err, user.ErrNotFound), userDuplicates)
	}
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), user.ErrNotFound)
}
