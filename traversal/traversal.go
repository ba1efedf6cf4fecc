// Package traversal drives the ordered tree-wide passes of an update
// cycle: Activate, PreUpdate, Update, PostUpdate. Each pass is a full
// depth-first walk; within a pass a parent is always resolved before its
// children. Callbacks may edit or even tear down parts of the tree
// mid-walk: a node found dead is a silent early return for its subtree
// and siblings continue.
package traversal

import (
	"log"

	"github.com/mirage3d/geocore/transform"
)

type Pass int

const (
	PassActivate Pass = iota
	PassPreUpdate
	PassUpdate
	PassPostUpdate
)

func (p Pass) String() string {
	switch p {
	case PassActivate:
		return "Activate"
	case PassPreUpdate:
		return "PreUpdate"
	case PassUpdate:
		return "Update"
	case PassPostUpdate:
		return "PostUpdate"
	}
	return "Unknown"
}

// Optional behavior interfaces, probed per node. The "After" variants
// run after the node's children were visited.

type Activator interface {
	Activate(n *transform.Node)
}

type PreUpdater interface {
	PreUpdate(n *transform.Node)
}

type AfterPreUpdater interface {
	AfterPreUpdate(n *transform.Node)
}

type Updater interface {
	Update(n *transform.Node, dt float64)
}

type AfterUpdater interface {
	AfterUpdate(n *transform.Node, dt float64)
}

type PostUpdater interface {
	PostUpdate(n *transform.Node)
}

type AfterPostUpdater interface {
	AfterPostUpdate(n *transform.Node)
}

type Driver struct{}

// RunCycle runs the four passes in their fixed order over roots.
func (d *Driver) RunCycle(roots []*transform.Node, dt float64) {
	for _, pass := range []Pass{PassActivate, PassPreUpdate, PassUpdate, PassPostUpdate} {
		for _, r := range roots {
			d.visit(r, pass, dt)
		}
	}
}

func (d *Driver) visit(n *transform.Node, pass Pass, dt float64) {
	if !n.Alive() {
		log.Printf("[traversal] skipping dead subtree during %v pass", pass)
		return
	}

	switch pass {
	case PassActivate:
		d.activate(n)
	case PassPreUpdate:
		// resolve pending hierarchy edits before descending so children
		// see their final parent chain
		if err := n.ResolvePendingParent(); err != nil {
			log.Printf("[traversal] pending reparent of %q failed: %v", n.Name(), err)
		}
		if !n.Alive() {
			return
		}
		for _, b := range n.Behaviors() {
			if u, ok := b.(PreUpdater); ok {
				u.PreUpdate(n)
				if !n.Alive() {
					return
				}
			}
		}
	case PassUpdate:
		for _, b := range n.Behaviors() {
			if u, ok := b.(Updater); ok {
				u.Update(n, dt)
				if !n.Alive() {
					return
				}
			}
		}
	case PassPostUpdate:
		for _, b := range n.Behaviors() {
			if u, ok := b.(PostUpdater); ok {
				u.PostUpdate(n)
				if !n.Alive() {
					return
				}
			}
		}
	}

	for _, c := range n.Children() {
		d.visit(c, pass, dt)
	}

	if !n.Alive() {
		return
	}
	switch pass {
	case PassPreUpdate:
		for _, b := range n.Behaviors() {
			if u, ok := b.(AfterPreUpdater); ok {
				u.AfterPreUpdate(n)
			}
		}
	case PassUpdate:
		for _, b := range n.Behaviors() {
			if u, ok := b.(AfterUpdater); ok {
				u.AfterUpdate(n, dt)
			}
		}
	case PassPostUpdate:
		for _, b := range n.Behaviors() {
			if u, ok := b.(AfterPostUpdater); ok {
				u.AfterPostUpdate(n)
			}
		}
		n.ClearFrameMarkers()
	}
}

// activate force-activates a never-activated node so its one-time setup
// runs, then restores the prior activation state.
func (d *Driver) activate(n *transform.Node) {
	if n.ActivatedOnce() {
		return
	}
	prev := n.Active()
	n.SetActive(true)
	for _, b := range n.Behaviors() {
		if a, ok := b.(Activator); ok {
			a.Activate(n)
			if !n.Alive() {
				return
			}
		}
	}
	n.MarkActivated()
	n.SetActive(prev)
}
