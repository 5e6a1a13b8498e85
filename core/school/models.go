package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tspagiari/oficinas/core"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// School field names on the wire follow the frontend's document shape.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"schoolName"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// NewSchool contains information needed to register a new School.
// Names are not unique: two schools may share one.
type NewSchool struct {
	Name    string `json:"schoolName" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

func (ns *NewSchool) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Address = core.CleanString(ns.Address)
	ns.City = core.CleanString(ns.City)
	ns.State = core.CleanString(ns.State)
	ns.ZipCode = core.CleanString(ns.ZipCode)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}

// UpdateSchool defines what information may be provided to modify an
// existing School. Empty fields are left untouched; status changes go
// through Activate/Deactivate, never through here.
type UpdateSchool struct {
	Name    string `json:"schoolName"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

func (us *UpdateSchool) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Address = core.CleanString(us.Address)
	us.City = core.CleanString(us.City)
	us.State = core.CleanString(us.State)
	us.ZipCode = core.CleanString(us.ZipCode)
	us.Phone = core.CleanString(us.Phone)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return validate.Struct(us)
}

// fields maps the set fields for a shallow store merge.
func (us *UpdateSchool) fields() map[string]interface{} {
	flds := make(map[string]interface{})
	if us.Name != "" {
		flds["schoolName"] = us.Name
	}
	if us.Address != "" {
		flds["address"] = us.Address
	}
	if us.City != "" {
		flds["city"] = us.City
	}
	if us.State != "" {
		flds["state"] = us.State
	}
	if us.ZipCode != "" {
		flds["zipCode"] = us.ZipCode
	}
	if us.Phone != "" {
		flds["phone"] = us.Phone
	}
	if us.Email != "" {
		flds["email"] = us.Email
	}
	return flds
}
