package traversal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirage3d/geocore/transform"
)

// recorder logs every hook invocation as "Hook:node".
type recorder struct {
	log *[]string
}

func (r recorder) Activate(n *transform.Node)             { r.append("Activate", n) }
func (r recorder) PreUpdate(n *transform.Node)            { r.append("PreUpdate", n) }
func (r recorder) AfterPreUpdate(n *transform.Node)       { r.append("AfterPreUpdate", n) }
func (r recorder) Update(n *transform.Node, _ float64)    { r.append("Update", n) }
func (r recorder) AfterUpdate(n *transform.Node, _ float64) {
	r.append("AfterUpdate", n)
}
func (r recorder) PostUpdate(n *transform.Node)      { r.append("PostUpdate", n) }
func (r recorder) AfterPostUpdate(n *transform.Node) { r.append("AfterPostUpdate", n) }

func (r recorder) append(hook string, n *transform.Node) {
	*r.log = append(*r.log, hook+":"+n.Name())
}

func newRecorded(log *[]string, name string, parent *transform.Node) *transform.Node {
	n := transform.NewNode(name)
	n.AddBehavior(recorder{log: log})
	if parent != nil {
		if err := n.SetParent(parent, false); err != nil {
			panic(err)
		}
	}
	return n
}

func TestRunCyclePassOrder(t *testing.T) {
	var log []string
	root := newRecorded(&log, "root", nil)
	child := newRecorded(&log, "child", root)
	_ = child

	d := &Driver{}
	d.RunCycle([]*transform.Node{root}, 0.016)

	want := []string{
		"Activate:root", "Activate:child",
		"PreUpdate:root", "PreUpdate:child",
		"AfterPreUpdate:child", "AfterPreUpdate:root",
		"Update:root", "Update:child",
		"AfterUpdate:child", "AfterUpdate:root",
		"PostUpdate:root", "PostUpdate:child",
		"AfterPostUpdate:child", "AfterPostUpdate:root",
	}
	if len(log) != len(want) {
		t.Fatalf("log = %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log[%d] = %q, want %q (full: %v)", i, log[i], want[i], log)
		}
	}
}

func TestActivateRunsOnce(t *testing.T) {
	var log []string
	root := newRecorded(&log, "root", nil)
	root.SetActive(false)

	d := &Driver{}
	d.RunCycle([]*transform.Node{root}, 0)
	d.RunCycle([]*transform.Node{root}, 0)

	activations := 0
	for _, entry := range log {
		if entry == "Activate:root" {
			activations++
		}
	}
	if activations != 1 {
		t.Errorf("Activate ran %d times", activations)
	}
	if root.Active() {
		t.Error("activation did not restore the inactive state")
	}
	if !root.ActivatedOnce() {
		t.Error("activation marker not set")
	}
}

type activateObserver struct {
	sawActive *bool
}

func (a activateObserver) Activate(n *transform.Node) {
	*a.sawActive = n.Active()
}

func TestActivateForcesActiveDuringHook(t *testing.T) {
	n := transform.NewNode("n")
	n.SetActive(false)
	var saw bool
	n.AddBehavior(activateObserver{sawActive: &saw})

	(&Driver{}).RunCycle([]*transform.Node{n}, 0)
	if !saw {
		t.Error("node not forced active inside its Activate hook")
	}
}

type reaper struct {
	target *transform.Node
}

func (r reaper) Update(n *transform.Node, _ float64) {
	r.target.Dispose()
}

func TestDeadSubtreeSkippedSiblingsSurvive(t *testing.T) {
	var log []string
	root := transform.NewNode("root")
	doomed := newRecorded(&log, "doomed", root)
	survivor := newRecorded(&log, "survivor", root)
	newRecorded(&log, "doomedChild", doomed)

	// root kills "doomed" during its own Update, before the walk
	// descends into it
	root.AddBehavior(reaper{target: doomed})

	(&Driver{}).RunCycle([]*transform.Node{root}, 0)

	for _, entry := range log {
		switch entry {
		case "Update:doomed", "Update:doomedChild":
			t.Fatalf("dead subtree was updated: %v", log)
		}
	}
	if !survivor.Alive() {
		t.Fatal("sibling of dead subtree was torn down")
	}
	found := false
	for _, entry := range log {
		if entry == "Update:survivor" {
			found = true
		}
	}
	if !found {
		t.Errorf("sibling of dead subtree not updated: %v", log)
	}
}

func TestDeadNodeSkipLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	root := transform.NewNode("root")
	a := transform.NewNode("a")
	b := transform.NewNode("b")
	if err := a.SetParent(root, false); err != nil {
		t.Fatal(err)
	}
	if err := b.SetParent(root, false); err != nil {
		t.Fatal(err)
	}
	// a kills b after root already snapshotted its children, so the
	// walk still reaches the dead node
	a.AddBehavior(reaper{target: b})

	(&Driver{}).RunCycle([]*transform.Node{root}, 0)

	if !strings.Contains(buf.String(), "skipping dead subtree") {
		t.Errorf("dead-node skip not logged: %q", buf.String())
	}
}

type selfReaper struct{}

func (selfReaper) PreUpdate(n *transform.Node) { n.Dispose() }

func TestSelfDisposeStopsOwnSubtree(t *testing.T) {
	var log []string
	root := transform.NewNode("root")
	root.AddBehavior(selfReaper{})
	newRecorded(&log, "child", root)

	(&Driver{}).RunCycle([]*transform.Node{root}, 0)

	for _, entry := range log {
		if entry == "PreUpdate:child" {
			t.Fatalf("children of self-disposed node were visited: %v", log)
		}
	}
}

func TestPendingReparentResolvedInPreUpdate(t *testing.T) {
	var log []string
	root := transform.NewNode("root")
	p1 := newRecorded(&log, "p1", root)
	p2 := newRecorded(&log, "p2", root)
	mover := newRecorded(&log, "mover", p1)
	mover.SetLocalPosition(mgl64.Vec3{1, 0, 0})

	mover.RequestParent(p2, true)
	(&Driver{}).RunCycle([]*transform.Node{root}, 0)

	if mover.Parent() != p2 {
		t.Fatal("pending reparent not resolved during the cycle")
	}
	if mover.HasPendingParent() {
		t.Error("pending flag survived the cycle")
	}

	// the mover must have been pre-updated under its final parent: its
	// PreUpdate entry comes after p2's
	moverAt, p2At := -1, -1
	for i, entry := range log {
		switch entry {
		case "PreUpdate:mover":
			moverAt = i
		case "PreUpdate:p2":
			p2At = i
		}
	}
	if moverAt < 0 || p2At < 0 || moverAt < p2At {
		t.Errorf("pre-update order wrong: %v", log)
	}
}

type frameMarkerProbe struct {
	seen *transform.Components
}

func (p frameMarkerProbe) PostUpdate(n *transform.Node) {
	*p.seen = n.FrameCaptured()
}

func TestFrameMarkersClearedAfterPostUpdate(t *testing.T) {
	n := transform.NewNode("n")
	var seen transform.Components
	n.AddBehavior(frameMarkerProbe{seen: &seen})

	n.SetLocalPositionCaptured(mgl64.Vec3{4, 0, 0})
	(&Driver{}).RunCycle([]*transform.Node{n}, 0)

	if !seen.Has(transform.ComponentLocalPosition) {
		t.Errorf("captured marker invisible during PostUpdate: %v", seen)
	}
	if n.FrameCaptured() != 0 {
		t.Errorf("frame markers survived the cycle: %v", n.FrameCaptured())
	}
}

func TestPassString(t *testing.T) {
	if PassPreUpdate.String() != "PreUpdate" || Pass(42).String() != "Unknown" {
		t.Error("pass names wrong")
	}
}
