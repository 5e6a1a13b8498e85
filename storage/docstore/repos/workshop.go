package docrepos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/workshop"
)

const requestCollection = "workshopRequests"

func requestPath(id string) string { return fmt.Sprintf("%s/%s", requestCollection, id) }

type WorkshopRepo struct {
	store core.DocStore
}

var _ workshop.Repository = (*WorkshopRepo)(nil)

func NewWorkshopRepo(store core.DocStore) *WorkshopRepo {
	return &WorkshopRepo{store: store}
}

func (repo *WorkshopRepo) CreateRequest(ctx context.Context, req workshop.Request) error {
	return repo.store.Write(ctx, requestPath(req.ID), req)
}

func (repo *WorkshopRepo) GetRequestByID(ctx context.Context, id string) (workshop.Request, error) {
	var req workshop.Request
	err := core.ReadRetry(ctx, func() error {
		return repo.store.Read(ctx, requestPath(id), &req)
	})
	if errors.Cause(err) == core.ErrDocAbsent {
		return workshop.Request{}, workshop.ErrNotFound
	}
	return req, err
}

func (repo *WorkshopRepo) FilterRequestsByStatus(ctx context.Context, status workshop.Status) ([]workshop.Request, error) {
	reqs := make([]workshop.Request, 0)
	err := core.ReadRetry(ctx, func() error {
		return repo.store.ScanWhere(ctx, requestCollection, "status", string(status), &reqs)
	})
	return reqs, err
}

func (repo *WorkshopRepo) MergeRequest(ctx context.Context, id string, fields map[string]interface{}) error {
	return repo.store.Merge(ctx, requestPath(id), fields)
}
