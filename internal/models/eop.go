package models

import (
	"math"
	"time"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
)

// Dataset formats recognized by the ingestion pipeline.
const (
	DatasetFormatC04     = "c04"
	DatasetFormatColumns = "columns"
)

// EOPDataset represents one ingested Earth orientation product.
type EOPDataset struct {
	ID         int64     `json:"id" db:"id"`
	Convention string    `json:"convention" db:"convention"`
	Source     string    `json:"source" db:"source"`
	Format     string    `json:"format" db:"format"`
	StartMJD   float64   `json:"start_mjd" db:"start_mjd"`
	EndMJD     float64   `json:"end_mjd" db:"end_mjd"`
	EntryCount int       `json:"entry_count" db:"entry_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EOPEntryRow is one stored Earth orientation tabulation point. Angles are
// radians and offsets seconds; both correction bases are persisted so reads
// never need a converter.
type EOPEntryRow struct {
	ID        int64     `json:"id" db:"id"`
	DatasetID int64     `json:"dataset_id" db:"dataset_id"`
	MJD       float64   `json:"mjd" db:"mjd"`
	DUT1      float64   `json:"dut1" db:"dut1"`
	LOD       float64   `json:"lod" db:"lod"`
	PoleX     float64   `json:"pole_x" db:"pole_x"`
	PoleY     float64   `json:"pole_y" db:"pole_y"`
	DDPsi     float64   `json:"ddpsi" db:"ddpsi"`
	DDEps     float64   `json:"ddeps" db:"ddeps"`
	DX        float64   `json:"dx" db:"dx"`
	DY        float64   `json:"dy" db:"dy"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FromEntry builds a storable row from a history entry.
func FromEntry(datasetID int64, e eop.Entry) EOPEntryRow {
	return EOPEntryRow{
		DatasetID: datasetID,
		MJD:       e.MJD,
		DUT1:      e.DUT1,
		LOD:       e.LOD,
		PoleX:     e.X,
		PoleY:     e.Y,
		DDPsi:     e.DDPsi,
		DDEps:     e.DDEps,
		DX:        e.DX,
		DY:        e.DY,
		CreatedAt: time.Now().UTC(),
	}
}

// ToEntry converts the row back into a history entry.
func (r EOPEntryRow) ToEntry() eop.Entry {
	return eop.Entry{
		MJD:   r.MJD,
		Date:  astrotime.FromMJDUTC(r.MJD),
		DUT1:  r.DUT1,
		LOD:   r.LOD,
		X:     r.PoleX,
		Y:     r.PoleY,
		DDPsi: r.DDPsi,
		DDEps: r.DDEps,
		DX:    r.DX,
		DY:    r.DY,
	}
}

// Physical plausibility bounds for stored values. UT1-UTC stays under a
// second by leap second management, the excess length of day under 10 ms,
// and polar motion under an arcsecond historically; the bounds leave an
// order of magnitude of slack to reject corrupt rows, not unusual geophysics.
const (
	maxAbsDUT1    = 1.0
	maxAbsLOD     = 0.1
	maxAbsPoleRad = 5e-5
)

// Validate rejects rows that cannot be real Earth orientation values.
func (r EOPEntryRow) Validate() error {
	if math.IsNaN(r.MJD) || math.IsInf(r.MJD, 0) || r.MJD <= 0 {
		return &ValidationError{Field: "mjd", Message: "MJD must be a positive finite day number"}
	}
	if math.Abs(r.DUT1) > maxAbsDUT1 {
		return &ValidationError{Field: "dut1", Message: "UT1-UTC outside plausible range"}
	}
	if math.Abs(r.LOD) > maxAbsLOD {
		return &ValidationError{Field: "lod", Message: "length of day offset outside plausible range"}
	}
	if math.Abs(r.PoleX) > maxAbsPoleRad || math.Abs(r.PoleY) > maxAbsPoleRad {
		return &ValidationError{Field: "pole", Message: "polar motion outside plausible range"}
	}
	return nil
}

// CoverageSummary describes the stored span for one convention.
type CoverageSummary struct {
	Convention     string  `json:"convention" db:"convention"`
	StartMJD       float64 `json:"start_mjd" db:"start_mjd"`
	EndMJD         float64 `json:"end_mjd" db:"end_mjd"`
	EntryCount     int     `json:"entry_count" db:"entry_count"`
	LargestGapDays float64 `json:"largest_gap_days" db:"largest_gap_days"`
	// Continuous reports whether the largest hole stays within the
	// configured interpolation tolerance.
	Continuous bool `json:"continuous"`
}

// FrameInfo describes one frame of the public vocabulary.
type FrameInfo struct {
	Key            string `json:"key"`
	Parent         string `json:"parent,omitempty"`
	Depth          int    `json:"depth"`
	PseudoInertial bool   `json:"pseudo_inertial"`
}

// TransformRequest asks for the transform between two frames at a date.
// Position and velocity, when given, are mapped through the result.
type TransformRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Date is RFC 3339 UTC.
	Date string `json:"date"`
	// Raw bypasses the interpolation caches.
	Raw      bool        `json:"raw,omitempty"`
	Position *[3]float64 `json:"position_m,omitempty"`
	Velocity *[3]float64 `json:"velocity_mps,omitempty"`
}

// TransformResponse carries a transform in wire form. The quaternion is
// scalar-first and maps source coordinates into the destination frame.
type TransformResponse struct {
	From         string      `json:"from"`
	To           string      `json:"to"`
	Date         string      `json:"date"`
	Interpolated bool        `json:"interpolated"`
	Translation  [3]float64  `json:"translation_m"`
	Velocity     [3]float64  `json:"velocity_mps"`
	Rotation     [4]float64  `json:"rotation"`
	RotationRate [3]float64  `json:"rotation_rate_radps"`
	Position     *[3]float64 `json:"position_m,omitempty"`
	PVVelocity   *[3]float64 `json:"pv_velocity_mps,omitempty"`
}

// EOPValues carries interpolated Earth orientation values at a date.
type EOPValues struct {
	Convention string  `json:"convention"`
	Date       string  `json:"date"`
	MJD        float64 `json:"mjd"`
	DUT1       float64 `json:"dut1_s"`
	LOD        float64 `json:"lod_s"`
	PoleX      float64 `json:"pole_x_rad"`
	PoleY      float64 `json:"pole_y_rad"`
	DDPsi      float64 `json:"ddpsi_rad"`
	DDEps      float64 `json:"ddeps_rad"`
	DX         float64 `json:"dx_rad"`
	DY         float64 `json:"dy_rad"`
}

// ValidationError represents a data validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}
