package transform

// Observer receives changed-component notifications from a node.
// changed lists which values differ from before the mutation (by value
// comparison); captured marks the subset caused by an externally
// captured (user-driven) edit rather than a programmatic one.
type Observer func(n *Node, changed, captured Components)

type observerEntry struct {
	id int
	fn Observer
}

// Subscribe registers an observer and returns its id for Unsubscribe.
func (n *Node) Subscribe(fn Observer) int {
	n.nextObserver++
	n.observers = append(n.observers, observerEntry{id: n.nextObserver, fn: fn})
	return n.nextObserver
}

func (n *Node) Unsubscribe(id int) {
	for i, e := range n.observers {
		if e.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *Node) emit(changed, captured Components) {
	for _, e := range n.observers {
		e.fn(n, changed, captured)
	}
}
