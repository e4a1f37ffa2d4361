package models

import (
	"math"
	"testing"

	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/iau"
)

func TestEntryRowRoundTrip(t *testing.T) {
	converter := iau.Conventions2010.NutationCorrectionConverter()
	entry := eop.NewEntryFromEquinox(converter, 51544, 0.3554, 0.0009, 2.4e-7, 1.5e-6, -2.5e-7, -1.9e-8)

	row := FromEntry(42, entry)
	if row.DatasetID != 42 {
		t.Errorf("DatasetID = %v, want 42", row.DatasetID)
	}
	if row.MJD != entry.MJD || row.DUT1 != entry.DUT1 || row.LOD != entry.LOD {
		t.Errorf("scalar fields not carried over: %+v", row)
	}
	if row.DX == 0 || row.DY == 0 {
		t.Error("derived corrections should be stored")
	}

	back := row.ToEntry()
	if back.MJD != entry.MJD {
		t.Errorf("MJD = %v, want %v", back.MJD, entry.MJD)
	}
	if back.Date.Compare(entry.Date) != 0 {
		t.Errorf("Date = %v, want %v", back.Date, entry.Date)
	}
	if back.DDPsi != entry.DDPsi || back.DX != entry.DX {
		t.Error("correction bases should survive the round trip")
	}
}

func TestEntryRowValidate(t *testing.T) {
	valid := EOPEntryRow{MJD: 51544, DUT1: 0.35, LOD: 0.0009, PoleX: 1.5e-6, PoleY: 2.0e-6}

	tests := []struct {
		name      string
		mutate    func(*EOPEntryRow)
		wantField string
	}{
		{
			name:   "valid row",
			mutate: func(r *EOPEntryRow) {},
		},
		{
			name:      "zero MJD",
			mutate:    func(r *EOPEntryRow) { r.MJD = 0 },
			wantField: "mjd",
		},
		{
			name:      "NaN MJD",
			mutate:    func(r *EOPEntryRow) { r.MJD = math.NaN() },
			wantField: "mjd",
		},
		{
			name:      "UT1 offset above a second",
			mutate:    func(r *EOPEntryRow) { r.DUT1 = 1.5 },
			wantField: "dut1",
		},
		{
			name:      "implausible LOD",
			mutate:    func(r *EOPEntryRow) { r.LOD = -0.5 },
			wantField: "lod",
		},
		{
			name:      "pole coordinate off the chart",
			mutate:    func(r *EOPEntryRow) { r.PoleY = 1e-3 },
			wantField: "pole",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := valid
			tt.mutate(&row)
			err := row.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() returned %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %v, want %v", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "mjd",
		Value:   "-3",
		Message: "MJD must be a positive finite day number",
	}

	if err.Error() != "MJD must be a positive finite day number" {
		t.Errorf("Error() = %v", err.Error())
	}
	if err.IsTransient() {
		t.Error("ValidationError should not be transient")
	}
}
