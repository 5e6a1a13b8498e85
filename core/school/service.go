package school

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
)

var ErrNotFound = errors.New("school not found")

type (
	Repository interface {
		CreateSchool(ctx context.Context, sch School) error
		GetSchoolByID(ctx context.Context, id string) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		FilterSchoolsByStatus(ctx context.Context, status Status) ([]School, error)
		MergeSchool(ctx context.Context, id string, fields map[string]interface{}) error
		DeleteSchool(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSchool) (School, error)
		All(ctx context.Context) ([]School, error)
		Get(ctx context.Context, id string) (School, error)
		ByStatus(ctx context.Context, status Status) ([]School, error)
		Update(ctx context.Context, id string, us UpdateSchool) error
		Activate(ctx context.Context, id string) error
		Deactivate(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate) Service {
	return &service{repo: repo, validate: validate}
}

func (svc *service) Create(ctx context.Context, ns NewSchool) (School, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return School{}, err
	}

	now := time.Now().UTC()
	sch := School{
		ID:        uuid.NewString(),
		Name:      ns.Name,
		Address:   ns.Address,
		City:      ns.City,
		State:     ns.State,
		ZipCode:   ns.ZipCode,
		Phone:     ns.Phone,
		Email:     ns.Email,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateSchool(ctx, sch); err != nil {
		return School{}, errors.Wrap(err, "creating school")
	}
	return sch, nil
}

func (svc *service) All(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *service) Get(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *service) ByStatus(ctx context.Context, status Status) ([]School, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, core.NewValidationError(
			errors.New("invalid status"),
			core.FieldError{Field: "status", Error: "must be one of: active, inactive"},
		)
	}
	return svc.repo.FilterSchoolsByStatus(ctx, status)
}

// Update merges the set fields. Like the store itself, it does not
// verify the school exists first; merging an unknown id upserts.
func (svc *service) Update(ctx context.Context, id string, us UpdateSchool) error {
	if err := us.Validate(svc.validate); err != nil {
		return err
	}

	flds := us.fields()
	if len(flds) == 0 {
		return nil
	}
	flds["updatedAt"] = time.Now().UTC()
	return errors.Wrap(svc.repo.MergeSchool(ctx, id, flds), "updating school")
}

func (svc *service) Activate(ctx context.Context, id string) error {
	return errors.Wrap(svc.setStatus(ctx, id, StatusActive), "activating school")
}

// Deactivate soft-deletes: the record stays, flagged inactive.
// Idempotent.
func (svc *service) Deactivate(ctx context.Context, id string) error {
	return errors.Wrap(svc.setStatus(ctx, id, StatusInactive), "deactivating school")
}

func (svc *service) setStatus(ctx context.Context, id string, status Status) error {
	return svc.repo.MergeSchool(ctx, id, map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
}

// Delete removes the record for good. Prefer Deactivate.
func (svc *service) Delete(ctx context.Context, id string) error {
	return errors.Wrap(svc.repo.DeleteSchool(ctx, id), "deleting school")
}
