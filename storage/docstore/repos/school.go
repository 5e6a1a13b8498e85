// Package docrepos implements the domain repositories over a
// core.DocStore. Reads go through core.ReadRetry; writes never retry.
package docrepos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
)

const schoolCollection = "schools"

func schoolPath(id string) string { return fmt.Sprintf("%s/%s", schoolCollection, id) }

type SchoolRepo struct {
	store core.DocStore
}

var _ school.Repository = (*SchoolRepo)(nil)

func NewSchoolRepo(store core.DocStore) *SchoolRepo {
	return &SchoolRepo{store: store}
}

func (repo *SchoolRepo) CreateSchool(ctx context.Context, sch school.School) error {
	return repo.store.Write(ctx, schoolPath(sch.ID), sch)
}

func (repo *SchoolRepo) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var sch school.School
	err := core.ReadRetry(ctx, func() error {
		return repo.store.Read(ctx, schoolPath(id), &sch)
	})
	if errors.Cause(err) == core.ErrDocAbsent {
		return school.School{}, school.ErrNotFound
	}
	return sch, err
}

func (repo *SchoolRepo) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	schs := make([]school.School, 0)
	err := core.ReadRetry(ctx, func() error {
		return repo.store.Scan(ctx, schoolCollection, &schs)
	})
	return schs, err
}

func (repo *SchoolRepo) FilterSchoolsByStatus(ctx context.Context, status school.Status) ([]school.School, error) {
	schs := make([]school.School, 0)
	err := core.ReadRetry(ctx, func() error {
		return repo.store.ScanWhere(ctx, schoolCollection, "status", string(status), &schs)
	})
	return schs, err
}

func (repo *SchoolRepo) MergeSchool(ctx context.Context, id string, fields map[string]interface{}) error {
	return repo.store.Merge(ctx, schoolPath(id), fields)
}

func (repo *SchoolRepo) DeleteSchool(ctx context.Context, id string) error {
	return repo.store.Delete(ctx, schoolPath(id))
}
