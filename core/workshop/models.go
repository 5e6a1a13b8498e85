package workshop

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tspagiari/oficinas/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusCompleted is reserved for the feedback-collection flow.
	// No transition reaches it yet.
	StatusCompleted Status = "completed"
)

// workshop type categories offered on the request form
const (
	TypeRobotics    = "robotics"
	TypeProgramming = "programming"
	TypeElectronics = "electronics"
	TypeAI          = "ai"
	TypeOther       = "other"
)

// timeOfDayLayout is the "HH:MM" form the request form submits.
const timeOfDayLayout = "15:04"

// Request is a workshop request submitted by a school. The school is
// referenced by display name, not id; requests are never deleted and
// only change through the status state machine.
type Request struct {
	ID               string    `json:"id"`
	SchoolName       string    `json:"schoolName"`
	Coordinator      string    `json:"coordinator"`
	Hours            int       `json:"hours"`
	Students         int       `json:"students"`
	WorkshopType     string    `json:"workshopType"`
	OtherDescription string    `json:"otherDescription,omitempty"`
	Materials        string    `json:"materials"`
	StartTime        string    `json:"startTime"` // HH:MM
	EndTime          string    `json:"endTime"`   // HH:MM
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"` // UTC
	UpdatedAt        time.Time `json:"updatedAt"` // UTC
}

func (r Request) IsPending() bool { return r.Status == StatusPending }

// NewRequest contains information needed to submit a workshop request.
// Any Status supplied by the caller is ignored: requests always start
// pending.
type NewRequest struct {
	SchoolName       string `json:"schoolName" validate:"required"`
	Coordinator      string `json:"coordinator" validate:"required"`
	Hours            int    `json:"hours" validate:"required,gt=0"`
	Students         int    `json:"students" validate:"required,gt=0"`
	WorkshopType     string `json:"workshopType" validate:"required,oneof=robotics programming electronics ai other"`
	OtherDescription string `json:"otherDescription"`
	Materials        string `json:"materials"`
	StartTime        string `json:"startTime" validate:"required"`
	EndTime          string `json:"endTime" validate:"required"`
	Status           string `json:"status"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.SchoolName = core.CleanString(nr.SchoolName)
	nr.Coordinator = core.CleanString(nr.Coordinator)
	nr.WorkshopType = core.CleanString(nr.WorkshopType, true /* lower */)
	nr.OtherDescription = core.CleanString(nr.OtherDescription)
	nr.Materials = core.CleanString(nr.Materials)
	nr.StartTime = core.CleanString(nr.StartTime)
	nr.EndTime = core.CleanString(nr.EndTime)
	return validate.Struct(nr)
}

var (
	otherDescriptionTag  = "otherdescription"
	otherDescriptionText = "a description is required for \"other\" workshops"

	timeOfDayTag  = "timeofday"
	timeOfDayText = "must be a time of day (HH:MM)"

	timeWindowTag  = "timewindow"
	timeWindowText = "start time must be before end time"
)

// InitValidators registers the workshop struct validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newRequestStructValidation, NewRequest{})
	core.RegisterCustomTranslation(validate, translator, otherDescriptionTag, otherDescriptionText)
	core.RegisterCustomTranslation(validate, translator, timeOfDayTag, timeOfDayText)
	core.RegisterCustomTranslation(validate, translator, timeWindowTag, timeWindowText)
}

// newRequestStructValidation enforces the cross-field rules: "other"
// workshops need a description, and the requested window must be a
// valid HH:MM pair with start < end.
func newRequestStructValidation(sl validator.StructLevel) {
	nr := sl.Current().Interface().(NewRequest)

	if nr.WorkshopType == TypeOther && nr.OtherDescription == "" {
		sl.ReportError(nr.OtherDescription, "otherDescription", "OtherDescription", otherDescriptionTag, "")
	}

	var start, end time.Time
	var err error
	ok := true
	if nr.StartTime != "" {
		if start, err = time.Parse(timeOfDayLayout, nr.StartTime); err != nil {
			sl.ReportError(nr.StartTime, "startTime", "StartTime", timeOfDayTag, "")
			ok = false
		}
	}
	if nr.EndTime != "" {
		if end, err = time.Parse(timeOfDayLayout, nr.EndTime); err != nil {
			sl.ReportError(nr.EndTime, "endTime", "EndTime", timeOfDayTag, "")
			ok = false
		}
	}
	if ok && nr.StartTime != "" && nr.EndTime != "" && !start.Before(end) {
		sl.ReportError(nr.StartTime, "startTime", "StartTime", timeWindowTag, "")
	}
}
