package flick

// nodeIDCounter is a plain counter (no atomic, flick is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is an element of the retained UI tree that gestures are delivered to.
// It carries only what gesture recognition and scrolling need: hierarchy,
// a local translation, a size for hit testing and scroll measurement, and
// metadata.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// X and Y translate the node relative to its parent. A scroller writes
	// its offset here.
	X, Y float64
	// Width and Height are the node's extent in local coordinates. They are
	// used for hit testing when HitShape is nil and for scroll bounds.
	Width, Height float64

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Hit testing
	HitShape HitShape

	disposed bool
}

// NewNode creates a visible, interactable node of the given size.
func NewNode(name string, width, height float64) *Node {
	return &Node{
		ID:           nextNodeID(),
		Name:         name,
		Width:        width,
		Height:       height,
		Visible:      true,
		Interactable: true,
	}
}

// NewContainer creates a zero-sized node used only to group children.
// Containers without a HitShape are never hit themselves but still
// receive bubbled gestures from their descendants.
func NewContainer(name string) *Node {
	return NewNode(name, 0, 0)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("flick: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("flick: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("flick: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Listener registrations are
// owned by the recognizer; call Recognizer.RemoveAllListeners first.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.HitShape = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// WorldPosition returns the node's origin in root coordinates.
func (n *Node) WorldPosition() (x, y float64) {
	for p := n; p != nil; p = p.Parent {
		x += p.X
		y += p.Y
	}
	return x, y
}

// WorldToLocal converts root coordinates to this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	ox, oy := n.WorldPosition()
	return wx - ox, wy - oy
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
