package flick

import "sort"

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	var positive, negative bool
	for i := 0; i < n; i++ {
		x1, y1 := p.Points[i].X, p.Points[i].Y
		j := (i + 1) % n
		x2, y2 := p.Points[j].X, p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's Width and Height.
// Zero-sized nodes without a HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending hit-testable nodes to buf. Skips Visible=false or
// Interactable=false subtrees.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Width != 0 || n.Height != 0 {
		buf = append(buf, n)
	}
	children := n.children
	if len(children) > 1 && !sort.SliceIsSorted(children, func(i, j int) bool {
		return children[i].ZIndex < children[j].ZIndex
	}) {
		children = append([]*Node(nil), children...)
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].ZIndex < children[j].ZIndex
		})
	}
	for _, child := range children {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// HitTest finds the topmost interactable node under root at (worldX, worldY).
// Returns nil if nothing is hit.
func HitTest(root *Node, worldX, worldY float64) *Node {
	return hitTestBuf(root, worldX, worldY, nil)
}

func hitTestBuf(root *Node, worldX, worldY float64, buf []*Node) *Node {
	if root == nil {
		return nil
	}
	buf = collectInteractable(root, buf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(buf) - 1; i >= 0; i-- {
		n := buf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}
