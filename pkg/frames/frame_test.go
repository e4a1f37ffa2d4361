package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/geom"
)

// buildTestTree assembles a small tree:
//
//	root
//	+- A (translation +10x)
//	|  +- C (rotation 0.3 about z, spinning)
//	+- B (translation -5y)
func buildTestTree(t *testing.T) (root, a, b, c *Frame) {
	t.Helper()
	root = newRootFrame("root")

	var err error
	a, err = NewFrame(root, NewFixedProvider(NewTranslationTransform(astrotime.J2000,
		geom.Vector3{X: 10}, geom.Vector3{})), "A", true)
	require.NoError(t, err)
	b, err = NewFrame(root, NewFixedProvider(NewTranslationTransform(astrotime.J2000,
		geom.Vector3{Y: -5}, geom.Vector3{})), "B", true)
	require.NoError(t, err)
	c, err = NewFrame(a, NewFixedProvider(NewRotationRateTransform(astrotime.J2000,
		geom.NewRotation(geom.AxisZ, 0.3), geom.Vector3{Z: 1e-4})), "C", false)
	require.NoError(t, err)
	return root, a, b, c
}

func TestNewFrameValidation(t *testing.T) {
	root := newRootFrame("root")
	provider := NewFixedProvider(IdentityTransform(astrotime.J2000))

	_, err := NewFrame(nil, provider, "orphan", false)
	assert.Error(t, err)
	_, err = NewFrame(root, nil, "unbound", false)
	assert.Error(t, err)

	f, err := NewFrame(root, provider, "ok", true)
	require.NoError(t, err)
	assert.Equal(t, "ok", f.Name())
	assert.Equal(t, "ok", f.String())
	assert.True(t, f.IsPseudoInertial())
	assert.Same(t, root, f.Parent())
}

func TestFrameDepthAndAncestor(t *testing.T) {
	root, a, _, c := buildTestTree(t)

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 1, a.Depth())
	assert.Equal(t, 2, c.Depth())

	self, err := c.Ancestor(0)
	require.NoError(t, err)
	assert.Same(t, c, self)

	up, err := c.Ancestor(1)
	require.NoError(t, err)
	assert.Same(t, a, up)

	top, err := c.Ancestor(2)
	require.NoError(t, err)
	assert.Same(t, root, top)

	_, err = c.Ancestor(3)
	assert.Error(t, err)

	assert.Same(t, root, c.Root())
	assert.Same(t, root, root.Root())
}

func TestTransformToSelfIsIdentity(t *testing.T) {
	_, _, _, c := buildTestTree(t)
	date := astrotime.NewDateTT(1000)

	tr, err := c.TransformTo(c, date)
	require.NoError(t, err)
	assert.Equal(t, date, tr.Date())
	assert.InDelta(t, 0, tr.Rotation().Angle(), 1e-15)
	assert.InDelta(t, 0, tr.Translation().Norm(), 1e-15)
}

func TestTransformToWalksThroughCommonAncestor(t *testing.T) {
	root, a, b, c := buildTestTree(t)
	date := astrotime.J2000
	pv := PV{Position: geom.Vector3{X: 1, Y: 2, Z: 3}, Velocity: geom.Vector3{X: 0.1}}

	rootToA, err := a.provider.Transform(date)
	require.NoError(t, err)
	rootToB, err := b.provider.Transform(date)
	require.NoError(t, err)
	aToC, err := c.provider.Transform(date)
	require.NoError(t, err)
	rootToC := Compose(rootToA, aToC)

	t.Run("descendant to ancestor", func(t *testing.T) {
		tr, err := c.TransformTo(root, date)
		require.NoError(t, err)
		got := tr.TransformPV(pv)
		want := rootToC.Inverse().TransformPV(pv)
		assert.InDelta(t, 0, got.Position.Distance(want.Position), 1e-12)
		assert.InDelta(t, 0, got.Velocity.Distance(want.Velocity), 1e-12)
	})

	t.Run("across branches", func(t *testing.T) {
		tr, err := c.TransformTo(b, date)
		require.NoError(t, err)
		got := tr.TransformPV(pv)
		want := Compose(rootToC.Inverse(), rootToB).TransformPV(pv)
		assert.InDelta(t, 0, got.Position.Distance(want.Position), 1e-12)
		assert.InDelta(t, 0, got.Velocity.Distance(want.Velocity), 1e-12)
	})

	t.Run("round trip", func(t *testing.T) {
		fwd, err := c.TransformTo(b, date)
		require.NoError(t, err)
		back, err := b.TransformTo(c, date)
		require.NoError(t, err)
		ident := Compose(fwd, back)
		assert.InDelta(t, 0, ident.Rotation().Angle(), 1e-13)
		assert.InDelta(t, 0, ident.Translation().Norm(), 1e-12)
	})
}

func TestTransformToDisjointTreesFails(t *testing.T) {
	rootA := newRootFrame("rootA")
	rootB := newRootFrame("rootB")
	childA, err := NewFrame(rootA, NewFixedProvider(IdentityTransform(astrotime.J2000)), "childA", false)
	require.NoError(t, err)

	_, err = childA.TransformTo(rootB, astrotime.J2000)
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestTransformToResolverBypassesInterpolation(t *testing.T) {
	root := newRootFrame("root")
	counter := &countingProvider{inner: spinProvider{rate: 1e-6, withRate: true}}
	interp := NewInterpolatingProvider(counter, DefaultInterpolationConfig(6, 60))
	f, err := NewFrame(root, interp, "spinning", false)
	require.NoError(t, err)

	date := astrotime.NewDateTT(100)
	_, err = f.transformTo(root, date, rawResolver)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counter.calls.Load(), "raw path evaluates the provider once")

	_, err = f.TransformTo(root, date)
	require.NoError(t, err)
	assert.EqualValues(t, 7, counter.calls.Load(), "interpolated path fills the sample window")
}
