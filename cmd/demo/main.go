package main

import (
	"fmt"
	"math"
	"os"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/frames"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
)

const arcsecRad = math.Pi / (180.0 * 3600.0)

// sampleEntries tabulates three weeks of Earth orientation data around
// J2000, close to the published C04 values for early 2000.
func sampleEntries(conv iau.Convention) []eop.Entry {
	converter := conv.NutationCorrectionConverter()
	entries := make([]eop.Entry, 0, 21)
	for d := 0; d < 21; d++ {
		entries = append(entries, eop.NewEntryFromEquinox(converter, 51534.0+float64(d),
			0.3555-0.0007*float64(d), 0.0008,
			(0.0434+0.0005*float64(d))*arcsecRad,
			(0.3775-0.0004*float64(d))*arcsecRad,
			-0.0508*arcsecRad, -0.0055*arcsecRad))
	}
	return entries
}

// main demonstrates the frame machinery without database or server
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("ASTRODYNAMICS PLATFORM - FRAME TRANSFORM DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	// Quiet logger, the demo narrates through stdout itself
	logger := logging.NewStructuredLogger("demo", "1.0.0", logging.WarnLevel)

	registry := frames.NewRegistry(frames.Options{Logger: logger})
	for _, conv := range iau.Conventions {
		registry.AddEOPLoaders(conv, eop.StaticLoader{Entries: sampleEntries(conv)})
	}

	// 2000-01-08T12:00:00 UTC, one week past J2000
	date := astrotime.FromMJDUTC(51551.5)

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Frame vocabulary")
	fmt.Println("─────────────────────────────────────────────────────────────")

	keys := frames.AllKeys()
	depthCounts := map[int]int{}
	maxDepth := 0
	for _, key := range keys {
		desc, err := frames.Describe(key)
		if err != nil {
			fmt.Printf("describe %s: %v\n", key, err)
			os.Exit(1)
		}
		depthCounts[desc.Depth]++
		if desc.Depth > maxDepth {
			maxDepth = desc.Depth
		}
	}
	fmt.Printf("Predefined frames: %d\n", len(keys))
	for depth := 0; depth <= maxDepth; depth++ {
		fmt.Printf("  depth %d: %d frames\n", depth, depthCounts[depth])
	}

	fmt.Println("\nEarth-fixed branch (IERS 2010):")
	for _, key := range []frames.Key{
		frames.KeyGCRF,
		frames.CIRFKey(iau.Conventions2010, false),
		frames.TIRFKey(iau.Conventions2010, false),
		frames.ITRFKey(iau.Conventions2010, false),
	} {
		desc, err := frames.Describe(key)
		if err != nil {
			fmt.Printf("describe %s: %v\n", key, err)
			os.Exit(1)
		}
		fmt.Printf("  %-26s depth %d  pseudo-inertial=%v\n", key, desc.Depth, desc.PseudoInertial)
	}
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Printf("Classical equinox chain at %s\n", date)
	fmt.Println("─────────────────────────────────────────────────────────────")

	hops := []struct {
		from, to frames.Key
	}{
		{frames.KeyGCRF, frames.KeyEME2000},
		{frames.KeyEME2000, frames.MODKey(iau.Conventions1996)},
		{frames.MODKey(iau.Conventions1996), frames.TODKey(iau.Conventions1996, false)},
		{frames.TODKey(iau.Conventions1996, false), frames.GTODKey(iau.Conventions1996, false)},
	}

	for _, hop := range hops {
		tr, err := registry.Transform(hop.from, hop.to, date)
		if err != nil {
			fmt.Printf("transform %s to %s: %v\n", hop.from, hop.to, err)
			os.Exit(1)
		}
		fmt.Printf("  %-26s → %-26s rotation %s\n", hop.from, hop.to, formatAngle(tr.Rotation().Angle()))
	}
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Mapping an orbital state into the Earth-fixed frame")
	fmt.Println("─────────────────────────────────────────────────────────────")

	state := frames.PV{
		Position: geom.Vector3{X: 7000e3},
		Velocity: geom.Vector3{Y: 7.546e3},
	}

	toITRF, err := registry.Transform(frames.KeyGCRF, frames.ITRFKey(iau.Conventions2010, false), date)
	if err != nil {
		fmt.Printf("transform to ITRF: %v\n", err)
		os.Exit(1)
	}
	mapped := toITRF.TransformPV(state)

	fmt.Printf("  GCRF position:  (%12.3f, %12.3f, %12.3f) km\n",
		state.Position.X/1e3, state.Position.Y/1e3, state.Position.Z/1e3)
	fmt.Printf("  ITRF position:  (%12.3f, %12.3f, %12.3f) km\n",
		mapped.Position.X/1e3, mapped.Position.Y/1e3, mapped.Position.Z/1e3)
	fmt.Printf("  ITRF velocity:  (%12.3f, %12.3f, %12.3f) m/s\n",
		mapped.Velocity.X, mapped.Velocity.Y, mapped.Velocity.Z)
	fmt.Printf("  radius before:  %.3f km\n", state.Position.Norm()/1e3)
	fmt.Printf("  radius after:   %.3f km\n", mapped.Position.Norm()/1e3)
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Interpolated vs direct evaluation (TOD/2010)")
	fmt.Println("─────────────────────────────────────────────────────────────")

	tod := frames.TODKey(iau.Conventions2010, false)
	for hour := 0; hour <= 6; hour += 2 {
		at := date.Shift(float64(hour) * 3600.0)

		interp, err := registry.Transform(frames.KeyGCRF, tod, at)
		if err != nil {
			fmt.Printf("interpolated transform: %v\n", err)
			os.Exit(1)
		}
		direct, err := registry.NonInterpolatingTransform(frames.KeyGCRF, tod, at)
		if err != nil {
			fmt.Printf("direct transform: %v\n", err)
			os.Exit(1)
		}

		residual := frames.Compose(interp, direct.Inverse()).Rotation().Angle()
		fmt.Printf("  +%dh: interpolation residual %8.3f microarcsec\n", hour, residual/arcsecRad*1e6)
	}
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Earth orientation readout (IERS 2010)")
	fmt.Println("─────────────────────────────────────────────────────────────")

	history, err := registry.EOPHistory(iau.Conventions2010, false)
	if err != nil {
		fmt.Printf("history: %v\n", err)
		os.Exit(1)
	}

	x, y := history.PoleCorrection(date)
	fmt.Printf("  span:    %s to %s (%d entries)\n", history.StartDate(), history.EndDate(), history.Size())
	fmt.Printf("  UT1-UTC: %+.4f s\n", history.UT1MinusUTC(date))
	fmt.Printf("  LOD:     %+.4f s\n", history.LOD(date))
	fmt.Printf("  pole:    x=%+.4f\" y=%+.4f\"\n", x/arcsecRad, y/arcsecRad)
	fmt.Println()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ FRAME TRANSFORM DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("The system successfully:")
	fmt.Println("  ✓ Tabulated Earth orientation data without a database")
	fmt.Println("  ✓ Described the predefined frame tree")
	fmt.Println("  ✓ Composed transforms along the classical equinox chain")
	fmt.Println("  ✓ Mapped an orbital state into the Earth-fixed frame")
	fmt.Println("  ✓ Quantified the interpolation residual of cached transforms")
	fmt.Println()
	fmt.Println("With a database, this would:")
	fmt.Println("  • Store ingested IERS products in eop_datasets and eop_entries")
	fmt.Println("  • Feed frame histories from the newest stored datasets")
	fmt.Println("  • Serve transforms and coverage via REST API endpoints")
	fmt.Println("  • Provide real-time metrics and monitoring")
	fmt.Println()
}

func formatAngle(rad float64) string {
	if rad < 1e-3 {
		return fmt.Sprintf("%12.4f arcsec", rad/arcsecRad)
	}
	return fmt.Sprintf("%12.4f deg", rad*180.0/math.Pi)
}
