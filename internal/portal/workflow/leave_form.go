// Package workflow is the client side of leave requests and the HR
// resolution queues.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var ErrInvalidForm = errors.New("invalid leave request")

var validate = validator.New()

// LeaveForm is what the user fills in to apply for leave.
type LeaveForm struct {
	LeaveType string `validate:"required"`
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	Days      int    `validate:"required,gt=0"`
	Reason    string `validate:"required"`
}

// FormError lists the fields that block submission.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range formFieldOrder {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, "; "))
}

func (e *FormError) Unwrap() error { return ErrInvalidForm }

var formFieldOrder = []string{"type", "start_date", "end_date", "days", "reason"}

var formFieldNames = map[string]string{
	"LeaveType": "type",
	"StartDate": "start_date",
	"EndDate":   "end_date",
	"Days":      "days",
	"Reason":    "reason",
}

// Validate trims the form and reports every missing or malformed field.
func (f *LeaveForm) Validate() error {
	f.LeaveType = strings.TrimSpace(f.LeaveType)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.Reason = strings.TrimSpace(f.Reason)

	fields := map[string]string{}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			name := formFieldNames[fe.StructField()]
			switch fe.Tag() {
			case "required":
				fields[name] = "is required"
			case "datetime":
				fields[name] = "must be YYYY-MM-DD"
			default:
				fields[name] = "must be greater than zero"
			}
		}
	}

	if _, ok := fields["type"]; !ok {
		lt, err := domain.ParseLeaveType(f.LeaveType)
		if err != nil {
			fields["type"] = "must be Casual, Sick or Privilege"
		} else {
			f.LeaveType = lt.String()
		}
	}

	_, startBad := fields["start_date"]
	_, endBad := fields["end_date"]
	if f.EndDate != "" && !startBad && !endBad {
		start, _ := time.Parse(dateLayout, f.StartDate)
		end, _ := time.Parse(dateLayout, f.EndDate)
		_, daysBad := fields["days"]
		switch {
		case end.Before(start):
			fields["end_date"] = "must not be before start_date"
		case !daysBad && int(end.Sub(start).Hours()/24)+1 != f.Days:
			fields["days"] = "must match the number of days from start_date to end_date"
		}
	}

	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

type LeaveSubmitter interface {
	CreateLeave(ctx context.Context, l gateway.NewLeave) (gateway.Leave, error)
}

// SubmitLeave sends the form only when it validates.
func SubmitLeave(ctx context.Context, gw LeaveSubmitter, form LeaveForm) (gateway.Leave, error) {
	if err := form.Validate(); err != nil {
		return gateway.Leave{}, err
	}
	return gw.CreateLeave(ctx, gateway.NewLeave{
		LeaveType: form.LeaveType,
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		Days:      form.Days,
		Reason:    form.Reason,
	})
}
