package records

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPatch_Unmarshal_TracksPresence(t *testing.T) {
	raw := `{"name":"Sita Karki","age":null}`

	var p Patch
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.Name.Set || p.Name.Null {
		t.Errorf("Name = %+v, want set non-null", p.Name)
	}
	if p.Name.Value != "Sita Karki" {
		t.Errorf("Name.Value = %q, want Sita Karki", p.Name.Value)
	}
	if !p.Age.Set || !p.Age.Null {
		t.Errorf("Age = %+v, want set null", p.Age)
	}
	if p.City.Set {
		t.Errorf("City = %+v, want unset", p.City)
	}
}

func TestPatch_Apply(t *testing.T) {
	var p Patch
	if err := json.Unmarshal([]byte(`{"age":45,"weight":80.5}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := p.Apply(testFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Age != 45 {
		t.Errorf("Age = %d, want 45", merged.Age)
	}
	if merged.Weight != 80.5 {
		t.Errorf("Weight = %v, want 80.5", merged.Weight)
	}
	if merged.Name != "Ramesh Shrestha" || merged.City != "Kathmandu" {
		t.Errorf("untouched fields changed: %+v", merged)
	}
	if merged.Height != 1.72 {
		t.Errorf("Height = %v, want 1.72", merged.Height)
	}
}

func TestPatch_Apply_Empty(t *testing.T) {
	var p Patch

	merged, err := p.Apply(testFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged != testFields() {
		t.Errorf("empty patch changed fields: %+v", merged)
	}
}

func TestPatch_Apply_NullRejected(t *testing.T) {
	var p Patch
	if err := json.Unmarshal([]byte(`{"gender":null}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := p.Apply(testFields())
	if err == nil {
		t.Fatal("expected error for null field")
	}
	var fieldErr *InvalidFieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected InvalidFieldError, got %T: %v", err, err)
	}
	if fieldErr.Field != "gender" {
		t.Errorf("Field = %q, want gender", fieldErr.Field)
	}
	if fieldErr.Constraint != "must not be null" {
		t.Errorf("Constraint = %q, want must not be null", fieldErr.Constraint)
	}
}
