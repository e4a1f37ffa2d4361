package frames

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
)

// Frame is a node of the reference frame tree. Each non-root frame holds the
// provider producing the transform from its parent to itself. Frames are
// immutable once built, so walking the tree needs no locking.
type Frame struct {
	name           string
	parent         *Frame
	provider       Provider
	pseudoInertial bool
	depth          int
}

// newRootFrame builds a tree root. Roots have no parent and no provider.
func newRootFrame(name string) *Frame {
	return &Frame{name: name, pseudoInertial: true}
}

// NewFrame attaches a child frame to parent. The provider produces the
// transform from parent to the new frame.
func NewFrame(parent *Frame, provider Provider, name string, pseudoInertial bool) (*Frame, error) {
	if parent == nil {
		return nil, errors.Newf("frame %q needs a parent", name)
	}
	if provider == nil {
		return nil, errors.Newf("frame %q needs a transform provider", name)
	}
	return &Frame{
		name:           name,
		parent:         parent,
		provider:       provider,
		pseudoInertial: pseudoInertial,
		depth:          parent.depth + 1,
	}, nil
}

// Name returns the frame name.
func (f *Frame) Name() string {
	return f.name
}

func (f *Frame) String() string {
	return f.name
}

// Parent returns the parent frame, nil for a root.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Provider returns the provider for the parent-to-frame transform, nil for
// a root.
func (f *Frame) Provider() Provider {
	return f.provider
}

// IsPseudoInertial reports whether the frame is suitable as a reference for
// orbit propagation. Earth-fixed and intermediate frames rotate too fast to
// qualify.
func (f *Frame) IsPseudoInertial() bool {
	return f.pseudoInertial
}

// Depth returns the number of edges between the frame and its root.
func (f *Frame) Depth() int {
	return f.depth
}

// Ancestor returns the ancestor n levels above the frame. Zero returns the
// frame itself.
func (f *Frame) Ancestor(n int) (*Frame, error) {
	if n > f.depth {
		return nil, errors.Newf("frame %s has depth %d, cannot reach ancestor %d levels up", f.name, f.depth, n)
	}
	node := f
	for i := 0; i < n; i++ {
		node = node.parent
	}
	return node, nil
}

// Root returns the root of the tree the frame belongs to.
func (f *Frame) Root() *Frame {
	node := f
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// TransformTo returns the transform from the frame to dest at date. The two
// frames must belong to the same tree.
func (f *Frame) TransformTo(dest *Frame, date astrotime.Date) (Transform, error) {
	return f.transformTo(dest, date, func(p Provider) Provider { return p })
}

// transformTo walks both branches up to the closest common ancestor and
// composes the edge transforms. resolve lets callers substitute providers
// along the way, e.g. to bypass interpolation.
func (f *Frame) transformTo(dest *Frame, date astrotime.Date, resolve func(Provider) Provider) (Transform, error) {
	if f == dest {
		return IdentityTransform(date), nil
	}

	common, err := closestCommonAncestor(f, dest)
	if err != nil {
		return Transform{}, err
	}

	commonToFrom, err := pathTransform(common, f, date, resolve)
	if err != nil {
		return Transform{}, err
	}
	commonToDest, err := pathTransform(common, dest, date, resolve)
	if err != nil {
		return Transform{}, err
	}
	return Compose(commonToFrom.Inverse(), commonToDest), nil
}

// pathTransform composes the edges from ancestor down to frame, yielding
// the ancestor-to-frame transform.
func pathTransform(ancestor, frame *Frame, date astrotime.Date, resolve func(Provider) Provider) (Transform, error) {
	acc := IdentityTransform(date)
	for node := frame; node != ancestor; node = node.parent {
		edge, err := resolve(node.provider).Transform(date)
		if err != nil {
			return Transform{}, errors.Wrapf(err, "transform %s to %s", node.parent.name, node.name)
		}
		acc = Compose(edge, acc)
	}
	return acc, nil
}

// closestCommonAncestor finds the deepest frame both a and b descend from.
func closestCommonAncestor(a, b *Frame) (*Frame, error) {
	from, to := a, b
	for from.depth > to.depth {
		from = from.parent
	}
	for to.depth > from.depth {
		to = to.parent
	}
	for from != to {
		if from.parent == nil || to.parent == nil {
			return nil, errors.AssertionFailedf("frames %s and %s share no common ancestor", a.name, b.name)
		}
		from, to = from.parent, to.parent
	}
	return from, nil
}
