package workshop

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
)

var (
	ErrNotFound = errors.New("workshop request not found")
	// ErrInvalidTransition is returned when a status update targets a
	// request that already left the pending state.
	ErrInvalidTransition = errors.New("workshop request is no longer pending")
)

type (
	Repository interface {
		CreateRequest(ctx context.Context, req Request) error
		GetRequestByID(ctx context.Context, id string) (Request, error)
		FilterRequestsByStatus(ctx context.Context, status Status) ([]Request, error)
		MergeRequest(ctx context.Context, id string, fields map[string]interface{}) error
	}

	// Service enforces the request state machine:
	//
	//	[*] --> pending
	//	pending --> approved : adminApprove
	//	pending --> rejected : adminReject
	//	approved --> [*]
	//	rejected --> [*]
	//
	// and drives the notification mails each transition owes.
	Service interface {
		Create(ctx context.Context, nr NewRequest) (Request, error)
		ByStatus(ctx context.Context, status Status) ([]Request, error)
		UpdateStatus(ctx context.Context, id string, status Status) (Request, error)
	}

	service struct {
		repo     Repository
		mailSvc  core.EmailService
		conf     *core.Config
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, validate *validator.Validate) Service {
	return &service{
		repo:     repo,
		mailSvc:  mailSvc,
		conf:     conf,
		validate: validate,
	}
}

// Create validates, persists with status forced to pending, then sends
// the creation notification. The notification is best effort: a send
// failure never rolls the persisted request back.
func (svc *service) Create(ctx context.Context, nr NewRequest) (Request, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Request{}, err
	}

	now := time.Now().UTC()
	req := Request{
		ID:               uuid.NewString(),
		SchoolName:       nr.SchoolName,
		Coordinator:      nr.Coordinator,
		Hours:            nr.Hours,
		Students:         nr.Students,
		WorkshopType:     nr.WorkshopType,
		OtherDescription: nr.OtherDescription,
		Materials:        nr.Materials,
		StartTime:        nr.StartTime,
		EndTime:          nr.EndTime,
		Status:           StatusPending, // regardless of what the caller supplied
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := svc.repo.CreateRequest(ctx, req); err != nil {
		return Request{}, errors.Wrap(err, "creating workshop request")
	}

	svc.sendNewRequestMail(req)
	return req, nil
}

func (svc *service) ByStatus(ctx context.Context, status Status) ([]Request, error) {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
	default:
		return nil, core.NewValidationError(
			errors.New("invalid status"),
			core.FieldError{Field: "status", Error: "must be one of: pending, approved, rejected, completed"},
		)
	}
	return svc.repo.FilterRequestsByStatus(ctx, status)
}

// UpdateStatus moves a pending request to approved or rejected. Both
// target states are terminal: a second update on the same request
// fails with ErrInvalidTransition, whatever direction it tries.
//
// The record is re-read here rather than trusting any caller-held
// copy, so the status-change notification always carries the fresh
// prior snapshot merged with the new status.
func (svc *service) UpdateStatus(ctx context.Context, id string, status Status) (Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return Request{}, core.NewValidationError(
			errors.New("invalid status"),
			core.FieldError{Field: "status", Error: "must be one of: approved, rejected"},
		)
	}

	req, err := svc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !req.IsPending() {
		return Request{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	err = svc.repo.MergeRequest(ctx, id, map[string]interface{}{
		"status":    status,
		"updatedAt": now,
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "updating workshop request status")
	}

	req.Status = status
	req.UpdatedAt = now
	svc.sendStatusUpdateMail(req)
	return req, nil
}
