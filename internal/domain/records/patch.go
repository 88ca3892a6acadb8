package records

import (
	"github.com/goccy/go-json"
)

// Optional field wrappers used by Patch. Each records whether the payload
// contained the field at all (Set) and whether it was an explicit JSON null
// (Null), so a merge can tell "leave untouched" apart from "supplied null".

type OptString struct {
	Value string
	Set   bool
	Null  bool
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

type OptInt struct {
	Value int
	Set   bool
	Null  bool
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

type OptFloat struct {
	Value float64
	Set   bool
	Null  bool
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Patch is a partial record update. Absent fields leave the stored value
// untouched; the merged result is always revalidated as a whole record, so a
// patch can never persist invalid data.
type Patch struct {
	Name   OptString `json:"name"`
	City   OptString `json:"city"`
	Age    OptInt    `json:"age"`
	Gender OptString `json:"gender"`
	Height OptFloat  `json:"height"`
	Weight OptFloat  `json:"weight"`
}

// Apply overlays the supplied fields onto f and returns the merged fields.
// An explicit null is rejected: no record field is clearable.
func (p Patch) Apply(f Fields) (Fields, error) {
	if p.Name.Set {
		if p.Name.Null {
			return Fields{}, &InvalidFieldError{Field: "name", Constraint: "must not be null"}
		}
		f.Name = p.Name.Value
	}
	if p.City.Set {
		if p.City.Null {
			return Fields{}, &InvalidFieldError{Field: "city", Constraint: "must not be null"}
		}
		f.City = p.City.Value
	}
	if p.Age.Set {
		if p.Age.Null {
			return Fields{}, &InvalidFieldError{Field: "age", Constraint: "must not be null"}
		}
		f.Age = p.Age.Value
	}
	if p.Gender.Set {
		if p.Gender.Null {
			return Fields{}, &InvalidFieldError{Field: "gender", Constraint: "must not be null"}
		}
		f.Gender = p.Gender.Value
	}
	if p.Height.Set {
		if p.Height.Null {
			return Fields{}, &InvalidFieldError{Field: "height", Constraint: "must not be null"}
		}
		f.Height = p.Height.Value
	}
	if p.Weight.Set {
		if p.Weight.Null {
			return Fields{}, &InvalidFieldError{Field: "weight", Constraint: "must not be null"}
		}
		f.Weight = p.Weight.Value
	}
	return f, nil
}
