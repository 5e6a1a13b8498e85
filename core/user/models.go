package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
)

type Role string

const (
	RoleAdmin                Role = "admin"
	RoleSchoolRepresentative Role = "school_representative"
)

// User is a directory record mapping an identity to a role. The ID is
// the identity provider's id; credentials never live here.
type User struct {
	ID          string    `json:"uid"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	SchoolID    string    `json:"schoolId,omitempty"` // set iff Role == RoleSchoolRepresentative
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
	UpdatedAt   time.Time `json:"updatedAt"` // UTC
}

func (u User) IsAdmin() bool          { return u.Role == RoleAdmin }
func (u User) IsRepresentative() bool { return u.Role == RoleSchoolRepresentative }

// NewRepresentative contains information needed to register a
// school-representative User.
type NewRepresentative struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	SchoolID        string `json:"schoolId" validate:"required"`
	DisplayName     string `json:"displayName" validate:"required"`
}

func (nr *NewRepresentative) Validate(validate *validator.Validate) error {
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.SchoolID = core.CleanString(nr.SchoolID)
	nr.DisplayName = core.CleanString(nr.DisplayName)
	return validate.Struct(nr)
}

// NewAdmin contains information needed to register an administrator.
type NewAdmin struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	DisplayName     string `json:"displayName" validate:"required"`
}

func (na *NewAdmin) Validate(validate *validator.Validate) error {
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.DisplayName = core.CleanString(na.DisplayName)
	return validate.Struct(na)
}

// NewSchoolRepresentative registers a School together with its first
// representative in one logical flow (school first, then user).
type NewSchoolRepresentative struct {
	School          school.NewSchool `json:"school"`
	Email           string           `json:"email" validate:"required,email"`
	Password        string           `json:"password" validate:"required"`
	PasswordConfirm string           `json:"password_confirm" validate:"required,eqfield=Password"`
	DisplayName     string           `json:"displayName" validate:"required"`
}

func (nsr *NewSchoolRepresentative) Validate(validate *validator.Validate) error {
	nsr.Email = core.CleanString(nsr.Email, true /* lower */)
	nsr.DisplayName = core.CleanString(nsr.DisplayName)
	return validate.Struct(nsr)
}
