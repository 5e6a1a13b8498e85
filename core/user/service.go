package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
)

var ErrNotFound = errors.New("user not found")

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) error
		GetUserByID(ctx context.Context, id string) (User, error)
	}

	// Service resolves authenticated identities to roles and owns the
	// registration flows. Registration is two sequential writes —
	// identity store, then directory — with no transaction across them.
	Service interface {
		RegisterRepresentative(ctx context.Context, nr NewRepresentative) (User, error)
		RegisterAdmin(ctx context.Context, na NewAdmin) (User, error)
		RegisterSchool(ctx context.Context, nsr NewSchoolRepresentative) (school.School, User, error)
		Login(ctx context.Context, email, password string) (User, error)
		Logout(ctx context.Context) error
		GetRole(ctx context.Context, userID string) (Role, error)
		GetSchoolFor(ctx context.Context, representativeID string) (*school.School, error)
	}

	service struct {
		repo      Repository
		schoolSvc school.Service
		idSvc     core.IdentityService
		validate  *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, schoolSvc school.Service, idSvc core.IdentityService, validate *validator.Validate) Service {
	return &service{
		repo:      repo,
		schoolSvc: schoolSvc,
		idSvc:     idSvc,
		validate:  validate,
	}
}

func (svc *service) RegisterRepresentative(ctx context.Context, nr NewRepresentative) (User, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return User{}, err
	}

	// the school must exist before anything is written
	if _, err := svc.schoolSvc.Get(ctx, nr.SchoolID); err != nil {
		return User{}, err
	}

	id, err := svc.createIdentity(ctx, nr.Email, nr.Password)
	if err != nil {
		return User{}, err
	}
	return svc.createDirectoryRecord(ctx, User{
		ID:          id,
		Email:       nr.Email,
		Role:        RoleSchoolRepresentative,
		SchoolID:    nr.SchoolID,
		DisplayName: nr.DisplayName,
	})
}

func (svc *service) RegisterAdmin(ctx context.Context, na NewAdmin) (User, error) {
	if err := na.Validate(svc.validate); err != nil {
		return User{}, err
	}

	id, err := svc.createIdentity(ctx, na.Email, na.Password)
	if err != nil {
		return User{}, err
	}
	return svc.createDirectoryRecord(ctx, User{
		ID:          id,
		Email:       na.Email,
		Role:        RoleAdmin,
		DisplayName: na.DisplayName,
	})
}

// RegisterSchool creates the School and its first representative.
// The representative write only starts after the school write
// succeeds; a failure on the second step leaves the school created
// (no compensating rollback).
func (svc *service) RegisterSchool(ctx context.Context, nsr NewSchoolRepresentative) (school.School, User, error) {
	if err := nsr.Validate(svc.validate); err != nil {
		return school.School{}, User{}, err
	}

	sch, err := svc.schoolSvc.Create(ctx, nsr.School)
	if err != nil {
		return school.School{}, User{}, err
	}

	usr, err := svc.RegisterRepresentative(ctx, NewRepresentative{
		Email:           nsr.Email,
		Password:        nsr.Password,
		PasswordConfirm: nsr.PasswordConfirm,
		SchoolID:        sch.ID,
		DisplayName:     nsr.DisplayName,
	})
	if err != nil {
		return sch, User{}, errors.Wrap(err, "registering representative for new school")
	}
	return sch, usr, nil
}

// createIdentity performs the identity-store write. When the email is
// already registered, the identity may be an orphan of a previously
// interrupted registration: it is recoverable iff the supplied
// credentials match it and no directory record exists for it yet.
func (svc *service) createIdentity(ctx context.Context, email, password string) (string, error) {
	id, err := svc.idSvc.CreateIdentity(ctx, email, password)
	if err == nil {
		return id, nil
	}
	if errors.Cause(err) != core.ErrEmailInUse {
		return "", errors.Wrap(err, "creating identity")
	}

	emailInUse := core.NewValidationError(
		core.ErrEmailInUse,
		core.FieldError{Field: "email", Error: core.ErrEmailInUse.Error()},
	)
	id, err = svc.idSvc.Authenticate(ctx, email, password)
	if err != nil {
		return "", emailInUse
	}
	if _, err = svc.repo.GetUserByID(ctx, id); err == nil {
		return "", emailInUse
	} else if errors.Cause(err) != ErrNotFound {
		return "", errors.Wrap(err, "checking directory record")
	}
	return id, nil
}

func (svc *service) createDirectoryRecord(ctx context.Context, usr User) (User, error) {
	now := time.Now().UTC()
	usr.CreatedAt = now
	usr.UpdatedAt = now
	if err := svc.repo.CreateUser(ctx, usr); err != nil {
		return User{}, errors.Wrap(err, "creating directory record")
	}
	return usr, nil
}

func (svc *service) Login(ctx context.Context, email, password string) (User, error) {
	id, err := svc.idSvc.Authenticate(ctx, core.CleanString(email, true /* lower */), password)
	if err != nil {
		if errors.Cause(err) == core.ErrInvalidCredentials {
			return User{}, err
		}
		return User{}, errors.Wrap(err, "authenticating")
	}

	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		// the identity exists but has no directory record
		return User{}, err
	}
	return usr, nil
}

// Logout invalidates the current session with the identity provider.
// Idempotent.
func (svc *service) Logout(ctx context.Context) error {
	return errors.Wrap(svc.idSvc.SignOut(ctx), "signing out")
}

// GetRole returns the empty Role, not an error, when no directory
// record exists.
func (svc *service) GetRole(ctx context.Context, userID string) (Role, error) {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return usr.Role, nil
}

// GetSchoolFor returns nil, not an error, when the user is absent, is
// not a representative, or their school no longer exists.
func (svc *service) GetSchoolFor(ctx context.Context, representativeID string) (*school.School, error) {
	usr, err := svc.repo.GetUserByID(ctx, representativeID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if usr.SchoolID == "" {
		return nil, nil
	}

	sch, err := svc.schoolSvc.Get(ctx, usr.SchoolID)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sch, nil
}
