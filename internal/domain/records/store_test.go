package records

import (
	"context"
	"testing"
)

func TestSnapshot_Records_SortedByID(t *testing.T) {
	snap := Snapshot{
		"P003": {Name: "C", City: "Pokhara", Age: 25, Gender: GenderOther, Height: 1.6, Weight: 55},
		"P001": {Name: "A", City: "Kathmandu", Age: 30, Gender: GenderMale, Height: 1.72, Weight: 68},
		"P002": {Name: "B", City: "Lalitpur", Age: 20, Gender: GenderFemale, Height: 1.75, Weight: 70},
	}

	recs := snap.Records()
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []string{"P001", "P002", "P003"} {
		if recs[i].ID != want {
			t.Errorf("recs[%d].ID = %q, want %q", i, recs[i].ID, want)
		}
	}
}

func TestSnapshot_Records_RefreshesDerived(t *testing.T) {
	snap := Snapshot{
		"P001": {Name: "A", City: "Kathmandu", Age: 30, Gender: GenderMale, Height: 1.72, Weight: 68, BMI: 99, Verdict: "stale"},
	}

	recs := snap.Records()
	if recs[0].BMI != 22.99 {
		t.Errorf("BMI = %v, want 22.99", recs[0].BMI)
	}
	if recs[0].Verdict != "Normal weight" {
		t.Errorf("Verdict = %q, want Normal weight", recs[0].Verdict)
	}
}

func TestSnapshot_Records_MissingFieldsZero(t *testing.T) {
	// A hand-edited snapshot entry may lack fields entirely; materialization
	// must not reject it.
	snap := Snapshot{
		"P001": {Name: "A"},
	}

	recs := snap.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Age != 0 {
		t.Errorf("Age = %d, want 0", recs[0].Age)
	}
	if recs[0].BMI != 0 {
		t.Errorf("BMI = %v, want 0", recs[0].BMI)
	}
}

func TestMemoryStore_LoadEmpty(t *testing.T) {
	store := NewMemoryStore()

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %d entries", len(snap))
	}
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	store := NewMemoryStore()

	in := Snapshot{"P001": testFields()}
	if err := store.Save(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out["P001"] != testFields() {
		t.Errorf("P001 = %+v, want %+v", out["P001"], testFields())
	}
}

func TestMemoryStore_LoadCopies(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), Snapshot{"P001": testFields()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := store.Load(context.Background())
	delete(first, "P001")

	second, _ := store.Load(context.Background())
	if _, ok := second["P001"]; !ok {
		t.Error("mutating a loaded snapshot leaked into the store")
	}
}

func TestMemoryStore_SaveCopies(t *testing.T) {
	store := NewMemoryStore()
	in := Snapshot{"P001": testFields()}
	if err := store.Save(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in["P002"] = testFields()

	out, _ := store.Load(context.Background())
	if len(out) != 1 {
		t.Errorf("mutating a saved snapshot leaked into the store: %d entries", len(out))
	}
}
