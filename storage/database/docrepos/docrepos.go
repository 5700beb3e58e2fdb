// Package docrepos implements the domain repositories over any core.DocStore.
// Each repository decodes stored documents into its record type once, then converts
// them into domain values.
package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
)

// Collections
const (
	StudentCollection   = "alunos"
	ProfessorCollection = "professores"
	ProjectCollection   = "projetos"
	TaskCollection      = "tarefas"
	LinkCollection      = "vinculos"
	DeliveryCollection  = "entregas"
	ProgressCollection  = "progresso"
	UserCollection      = "usuarios"
	OutboxCollection    = "outbox"
)

// Unique index names
const (
	ProfessorSiapeIndex = "uniq_professores_siape"
	LinkPairIndex       = "uniq_vinculos_pair"
	LinkLeaderIndex     = "uniq_vinculos_leader"
	UserEmailIndex      = "uniq_usuarios_email"
)

var indexes = map[string][]core.UniqueIndex{
	ProfessorCollection: {
		{Name: ProfessorSiapeIndex, Fields: []string{"siape"}},
	},
	LinkCollection: {
		{Name: LinkPairIndex, Fields: []string{"idAluno", "idProjeto"}},
		{Name: LinkLeaderIndex, Fields: []string{"idAluno"}, Where: map[string]interface{}{"papel": team.RoleLeader}},
	},
	UserCollection: {
		{Name: UserEmailIndex, Fields: []string{"email"}},
	},
}

// EnsureIndexes declares the unique constraints the repositories rely on.
func EnsureIndexes(ctx context.Context, store core.DocStore) error {
	for coll, idxs := range indexes {
		if err := store.EnsureIndexes(ctx, coll, idxs...); err != nil {
			return err
		}
	}
	return nil
}

// getDoc decodes the document id of coll into rec. A missing document yields notFound.
func getDoc(ctx context.Context, coll core.Collection, id string, notFound error, rec interface{}) error {
	doc, err := coll.Get(ctx, id)
	if err != nil {
		return mapNotFound(err, notFound)
	}
	return errors.Wrap(doc.DataTo(rec), "decoding "+id)
}

func mapNotFound(err, notFound error) error {
	if errors.Cause(err) == core.ErrNoDocument {
		return notFound
	}
	return err
}

// mapDuplicate replaces a unique index violation with the matching domain error.
func mapDuplicate(err error, byIndex map[string]error) error {
	if name, ok := core.DuplicateIndex(err); ok {
		if domainErr, ok := byIndex[name]; ok {
			return domainErr
		}
	}
	return err
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
