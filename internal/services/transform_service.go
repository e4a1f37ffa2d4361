package services

import (
	"context"
	"time"

	"astrodyn-platform/internal/models"
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/frames"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

// TransformService exposes the frame registry to the API layer.
type TransformService struct {
	registry *frames.Registry
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewTransformService creates a new transform service.
func NewTransformService(registry *frames.Registry, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *TransformService {
	return &TransformService{
		registry: registry,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// ListFrames describes the full predefined frame vocabulary without
// triggering any frame build.
func (s *TransformService) ListFrames(ctx context.Context) ([]models.FrameInfo, error) {
	keys := frames.AllKeys()
	infos := make([]models.FrameInfo, 0, len(keys))
	for _, key := range keys {
		desc, err := frames.Describe(key)
		if err != nil {
			return nil, err
		}
		infos = append(infos, models.FrameInfo{
			Key:            desc.Key.String(),
			Parent:         desc.Parent.String(),
			Depth:          desc.Depth,
			PseudoInertial: desc.PseudoInertial,
		})
	}
	return infos, nil
}

// Transform computes the transform between two named frames at a date and
// optionally maps a state through it.
func (s *TransformService) Transform(ctx context.Context, req models.TransformRequest) (*models.TransformResponse, error) {
	fromKey, err := frames.ParseKey(req.From)
	if err != nil {
		return nil, err
	}
	toKey, err := frames.ParseKey(req.To)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var tr frames.Transform
	if req.Raw {
		tr, err = s.registry.NonInterpolatingTransform(fromKey, toKey, date)
	} else {
		tr, err = s.registry.Transform(fromKey, toKey, date)
	}
	if err != nil {
		return nil, err
	}

	q0, q1, q2, q3 := tr.Rotation().Quaternion()
	resp := &models.TransformResponse{
		From:         fromKey.String(),
		To:           toKey.String(),
		Date:         req.Date,
		Interpolated: !req.Raw,
		Translation:  vectorToArray(tr.Translation()),
		Velocity:     vectorToArray(tr.Velocity()),
		Rotation:     [4]float64{q0, q1, q2, q3},
		RotationRate: vectorToArray(tr.RotationRate()),
	}

	switch {
	case req.Position != nil && req.Velocity != nil:
		pv := tr.TransformPV(frames.PV{
			Position: arrayToVector(*req.Position),
			Velocity: arrayToVector(*req.Velocity),
		})
		p := vectorToArray(pv.Position)
		v := vectorToArray(pv.Velocity)
		resp.Position = &p
		resp.PVVelocity = &v
	case req.Position != nil:
		p := vectorToArray(tr.TransformPosition(arrayToVector(*req.Position)))
		resp.Position = &p
	case req.Velocity != nil:
		return nil, errors.NewInvalidRequestError("velocity requires a position")
	}

	s.logger.Debug(ctx, "[TRANSFORM] Transform computed", logging.Fields{
		"from": fromKey.String(),
		"to":   toKey.String(),
		"date": req.Date,
		"raw":  req.Raw,
	})

	return resp, nil
}

// EOPValuesAt returns the interpolated Earth orientation values for a
// convention at a date. Dates outside the stored span yield zeros, matching
// the history contract.
func (s *TransformService) EOPValuesAt(ctx context.Context, convention, dateValue string, simpleEOP bool) (*models.EOPValues, error) {
	conv, err := iau.ParseConvention(convention)
	if err != nil {
		return nil, errors.NewInvalidRequestError("unknown IERS convention %q", convention)
	}
	date, err := parseDate(dateValue)
	if err != nil {
		return nil, err
	}

	history, err := s.registry.EOPHistory(conv, simpleEOP)
	if err != nil {
		return nil, err
	}

	x, y := history.PoleCorrection(date)
	ddpsi, ddeps := history.EquinoxNutationCorrection(date)
	dx, dy := history.NonRotatingNutationCorrection(date)

	return &models.EOPValues{
		Convention: conv.String(),
		Date:       dateValue,
		MJD:        date.MJDUTC(),
		DUT1:       history.UT1MinusUTC(date),
		LOD:        history.LOD(date),
		PoleX:      x,
		PoleY:      y,
		DDPsi:      ddpsi,
		DDEps:      ddeps,
		DX:         dx,
		DY:         dy,
	}, nil
}

// parseDate parses an RFC 3339 timestamp into an astrotime date.
func parseDate(value string) (astrotime.Date, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return astrotime.Date{}, errors.NewInvalidRequestError("invalid date %q: expect RFC 3339", value)
	}
	return astrotime.FromTime(t), nil
}

func vectorToArray(v geom.Vector3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func arrayToVector(a [3]float64) geom.Vector3 {
	return geom.Vector3{X: a[0], Y: a[1], Z: a[2]}
}
