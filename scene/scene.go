// Package scene aggregates the spatial core: the root set, the
// origin-shift context, the traversal driver and the host binding. One
// scene owns what the engine would otherwise keep as process-wide state,
// with an explicit Reset at teardown.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mirage3d/geocore/config"
	"github.com/mirage3d/geocore/geodetic"
	"github.com/mirage3d/geocore/host"
	"github.com/mirage3d/geocore/host/hostmem"
	"github.com/mirage3d/geocore/mathd"
	"github.com/mirage3d/geocore/originshift"
	"github.com/mirage3d/geocore/transform"
	"github.com/mirage3d/geocore/traversal"
)

type Scene struct {
	Name string

	cfg     config.Settings
	roots   []*transform.Node
	shift   *originshift.Context
	driver  *traversal.Driver
	newHost host.Factory

	origin mgl64.Vec3
	frame  uint64
}

func New(name string, cfg config.Settings) *Scene {
	mathd.SetInfinityClamp(cfg.InfinityClamp)
	return &Scene{
		Name:    name,
		cfg:     cfg,
		shift:   originshift.NewContext(cfg.OriginShiftEnabled),
		driver:  &traversal.Driver{},
		newHost: hostmem.New,
	}
}

// SetHostFactory replaces the in-memory host driver with the real
// engine binding.
func (s *Scene) SetHostFactory(f host.Factory) {
	s.newHost = f
}

func (s *Scene) Roots() []*transform.Node {
	out := make([]*transform.Node, len(s.roots))
	copy(out, s.roots)
	return out
}

func (s *Scene) OriginShift() *originshift.Context { return s.shift }
func (s *Scene) Driver() *traversal.Driver         { return s.driver }
func (s *Scene) Frame() uint64                     { return s.frame }
func (s *Scene) Origin() mgl64.Vec3                { return s.origin }

// NewRoot creates a scene root node with a host binding.
func (s *Scene) NewRoot(name string) *transform.Node {
	n := transform.NewNode(name)
	n.BindHost(s.newHost(n.Name()))
	s.shift.Track(n)
	s.roots = append(s.roots, n)
	s.shift.SubscribeRoots(s.roots)
	return n
}

// NewNode creates a node under parent, wiring the host transform into
// the matching host-side hierarchy.
func (s *Scene) NewNode(name string, parent *transform.Node) (*transform.Node, error) {
	if parent == nil {
		return nil, errors.Errorf("NewNode requires a parent; use NewRoot for roots")
	}
	n := transform.NewNode(name)
	h := s.newHost(n.Name())
	if ph := parent.Host(); ph != nil {
		h.SetParent(ph)
	}
	n.BindHost(h)
	s.shift.Track(n)
	if err := n.SetParent(parent, false); err != nil {
		return nil, err
	}
	return n, nil
}

// SetGeoreference makes root a georeferenced anchor for body.
func (s *Scene) SetGeoreference(root *transform.Node, body geodetic.Body) {
	root.SetGeoreference(body)
}

// Find returns the live node with the given id, or nil.
func (s *Scene) Find(id uint32) *transform.Node {
	var found *transform.Node
	for _, r := range s.roots {
		walk(r, func(n *transform.Node) {
			if n.ID() == id {
				found = n
			}
		})
	}
	return found
}

func walk(n *transform.Node, fn func(*transform.Node)) {
	if !n.Alive() {
		return
	}
	fn(n)
	for _, c := range n.Children() {
		walk(c, fn)
	}
}

// Walk visits every live node depth-first.
func (s *Scene) Walk(fn func(*transform.Node)) {
	for _, r := range s.roots {
		walk(r, fn)
	}
}

// SetViewerPosition re-centers the floating origin once the viewer
// drifts beyond the configured rebase distance.
func (s *Scene) SetViewerPosition(p mgl64.Vec3) {
	if p.Sub(s.origin).Len() >= s.cfg.OriginRebaseDistance {
		s.origin = p
	}
}

// SetOrigin forces the origin directly; the shift lands on the next
// Update or ApplyOriginShifting call.
func (s *Scene) SetOrigin(o mgl64.Vec3) {
	s.origin = o
}

// Update runs one full cycle: the four traversal passes, then origin
// shifting against the current origin.
func (s *Scene) Update(dt float64) {
	s.frame++
	s.driver.RunCycle(s.roots, dt)
	s.shift.Apply(s.roots, s.origin, s.shift.ForceSelected())
}

// ApplyOriginShifting is the explicit coordinator entry point.
func (s *Scene) ApplyOriginShifting(roots []*transform.Node, origin mgl64.Vec3, forceSelected bool) {
	if roots == nil {
		roots = s.roots
	}
	s.origin = origin
	s.shift.Apply(roots, origin, forceSelected)
}

// Reset tears the scene down: every node is disposed and the
// origin-shift context returns to its initial state.
func (s *Scene) Reset() {
	var all []*transform.Node
	s.Walk(func(n *transform.Node) { all = append(all, n) })
	// dispose leaves first so parents never see dead children mid-walk
	for i := len(all) - 1; i >= 0; i-- {
		all[i].Dispose()
	}
	s.roots = nil
	s.origin = mgl64.Vec3{}
	s.frame = 0
	s.shift.Reset()
}
