// Package records implements the patient record domain: the record model with
// its derived health metrics, the snapshot store contract with its pluggable
// backends, and Echo HTTP handlers for create, read, update, delete, and
// sorted views.
package records

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Gender values accepted for a patient record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Fields holds the stored attributes of a patient record. Height is in
// meters, weight in kilograms. BMI and Verdict are derived from height and
// weight; they are persisted alongside the inputs but recomputed whenever a
// record is rebuilt, so stale values on disk are never served for a single
// record.
type Fields struct {
	Name    string  `json:"name" validate:"required"`
	City    string  `json:"city" validate:"required"`
	Age     int     `json:"age" validate:"required,gt=0,lt=120"`
	Gender  string  `json:"gender" validate:"required,oneof=Male Female Other"`
	Height  float64 `json:"height" validate:"required,gt=0"`
	Weight  float64 `json:"weight" validate:"required,gt=0"`
	BMI     float64 `json:"bmi"`
	Verdict string  `json:"verdict"`
}

// Record is a full patient record: the store key plus its fields.
type Record struct {
	ID string `json:"id" validate:"required"`
	Fields
}

// NewRecord validates id and fields and returns a Record with BMI and Verdict
// freshly computed. Caller-supplied values for the derived fields are
// discarded.
func NewRecord(id string, f Fields) (*Record, error) {
	r := &Record{ID: id, Fields: f}
	if err := validate.Struct(r); err != nil {
		return nil, invalidField(err)
	}
	r.BMI = ComputeBMI(r.Height, r.Weight)
	r.Verdict = VerdictFor(r.BMI)
	return r, nil
}

// rebuild attaches an id to stored fields and refreshes the derived values
// without validating, so read paths stay total even over hand-edited
// snapshots.
func rebuild(id string, f Fields) Record {
	f.BMI = ComputeBMI(f.Height, f.Weight)
	f.Verdict = VerdictFor(f.BMI)
	return Record{ID: id, Fields: f}
}

// ComputeBMI returns weight/height² rounded to two decimal places. A
// non-positive height yields 0 instead of dividing by zero.
func ComputeBMI(height, weight float64) float64 {
	if height <= 0 {
		return 0
	}
	return math.Round(weight/(height*height)*100) / 100
}

// VerdictFor classifies a BMI value: Underweight below 18.5, Normal weight
// below 24.9, Overweight from 25 up to (not including) 29.9, Obese otherwise.
// Values in [24.9, 25) land in Obese.
func VerdictFor(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 24.9:
		return "Normal weight"
	case bmi >= 25 && bmi < 29.9:
		return "Overweight"
	default:
		return "Obese"
	}
}

// InvalidFieldError reports the first record field that failed validation.
type InvalidFieldError struct {
	Field      string
	Constraint string
}

func (e *InvalidFieldError) Error() string {
	return e.Field + " " + e.Constraint
}

// invalidField converts a validator error into an InvalidFieldError for the
// first offending field. Non-validator errors pass through unchanged.
func invalidField(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &InvalidFieldError{
		Field:      strings.ToLower(fe.Field()),
		Constraint: constraintMessage(fe),
	}
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}
