// Package astrotime provides the instant type shared by the frame and EOP
// packages, with the time scale conversions they need: TT for precession and
// nutation arguments, UTC for EOP table lookups, UT1 for Earth rotation
// angles.
package astrotime

import (
	"math"
	"time"
)

const (
	// SecondsPerDay is the number of SI seconds in a Julian day.
	SecondsPerDay = 86400.0
	// JulianYear is a Julian year in seconds.
	JulianYear = 365.25 * SecondsPerDay
	// JulianCentury is a Julian century in seconds.
	JulianCentury = 36525 * SecondsPerDay

	// TT runs ahead of TAI by a constant offset.
	ttMinusTAI = 32.184

	// MJD of the J2000 epoch expressed in UTC (2000-01-01T11:58:55.816Z).
	mjdJ2000UTC = 51544.0 + 43135.816/SecondsPerDay

	// TAI-UTC at the J2000 epoch.
	taiMinusUTCJ2000 = 32.0
)

// j2000UnixSec is the POSIX timestamp of the J2000 epoch (UTC label
// 2000-01-01T11:58:55.816Z).
var j2000UnixSec = float64(time.Date(2000, 1, 1, 11, 58, 55, 816000000, time.UTC).UnixNano()) / 1e9

// Date is an instant stored as TT seconds since J2000. The zero value is the
// J2000 epoch. Resolution is microsecond class over a few centuries around
// the epoch, well below the accuracy of the frame models built on it.
type Date struct {
	tt float64
}

// J2000 is the reference epoch 2000-01-01T12:00:00 TT.
var J2000 = Date{}

// PastInfinity sorts before every finite date.
var PastInfinity = Date{tt: math.Inf(-1)}

// FutureInfinity sorts after every finite date.
var FutureInfinity = Date{tt: math.Inf(1)}

// NewDateTT builds a date from TT seconds elapsed since J2000.
func NewDateTT(sec float64) Date {
	return Date{tt: sec}
}

// FromTime converts a wall-clock instant. The UTC to TT offset uses the
// embedded leap second table.
func FromTime(t time.Time) Date {
	u := float64(t.UnixNano())/1e9 - j2000UnixSec
	mjd := mjdJ2000UTC + u/SecondsPerDay
	return Date{tt: u + taiMinusUTC(mjd) - taiMinusUTCJ2000}
}

// FromMJDUTC builds a date from a modified Julian day number in the UTC
// scale, the convention EOP tables are published in.
func FromMJDUTC(mjd float64) Date {
	u := (mjd - mjdJ2000UTC) * SecondsPerDay
	return Date{tt: u + taiMinusUTC(mjd) - taiMinusUTCJ2000}
}

// TT returns TT seconds elapsed since J2000.
func (d Date) TT() float64 {
	return d.tt
}

// Shift returns the date advanced by dt seconds.
func (d Date) Shift(dt float64) Date {
	return Date{tt: d.tt + dt}
}

// DurationFrom returns d - o in seconds.
func (d Date) DurationFrom(o Date) float64 {
	return d.tt - o.tt
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.tt < o.tt
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.tt > o.tt
}

// Compare returns -1, 0 or +1 ordering d against o.
func (d Date) Compare(o Date) int {
	switch {
	case d.tt < o.tt:
		return -1
	case d.tt > o.tt:
		return 1
	default:
		return 0
	}
}

// JulianCenturiesTT returns TT Julian centuries elapsed since J2000, the
// argument of precession and nutation developments.
func (d Date) JulianCenturiesTT() float64 {
	return d.tt / JulianCentury
}

// utcSecondsSinceJ2000 converts back to elapsed POSIX-style UTC seconds.
// Leap offset lookup needs the UTC day, so the conversion runs twice when
// the first guess lands on the other side of a leap step.
func (d Date) utcSecondsSinceJ2000() float64 {
	mjd := mjdJ2000UTC + d.tt/SecondsPerDay
	u := d.tt - (taiMinusUTC(mjd) - taiMinusUTCJ2000)
	again := mjdJ2000UTC + u/SecondsPerDay
	if taiMinusUTC(again) != taiMinusUTC(mjd) {
		u = d.tt - (taiMinusUTC(again) - taiMinusUTCJ2000)
	}
	return u
}

// MJDUTC returns the modified Julian day number of d in the UTC scale.
func (d Date) MJDUTC() float64 {
	return mjdJ2000UTC + d.utcSecondsSinceJ2000()/SecondsPerDay
}

// UT1DaysSinceJ2000 returns elapsed UT1 days since J2000 given the UT1-UTC
// offset in seconds, the argument of the Earth rotation angle and of
// Greenwich sidereal time models.
func (d Date) UT1DaysSinceJ2000(dut1 float64) float64 {
	return d.MJDUTC() + dut1/SecondsPerDay - 51544.5
}

// ToTime converts to a wall clock instant, truncated to nanoseconds.
func (d Date) ToTime() time.Time {
	ns := (d.utcSecondsSinceJ2000() + j2000UnixSec) * 1e9
	return time.Unix(0, int64(ns)).UTC()
}

// IsFinite reports whether d is neither PastInfinity nor FutureInfinity.
func (d Date) IsFinite() bool {
	return !math.IsInf(d.tt, 0)
}

func (d Date) String() string {
	switch {
	case math.IsInf(d.tt, -1):
		return "past infinity"
	case math.IsInf(d.tt, 1):
		return "future infinity"
	default:
		return d.ToTime().Format("2006-01-02T15:04:05.000Z07:00")
	}
}
