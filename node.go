package loom

// HitShape is a custom hit-testing region in a node's local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerEvent carries the data for one pointer interaction.
type PointerEvent struct {
	Node      *Node
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	UserData  any
}

// nodeIDCounter is a plain counter (no atomic — loom is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental display-list element. A single flat struct is
// used for all node types to avoid interface dispatch on the hot path.
// Child order is draw order: the first child renders at the bottom.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
	PivotX, PivotY float64

	// Computed during traversal
	world      Matrix
	worldAlpha float64
	dirty      bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// Sprite fields (NodeTypeSprite)
	Region TextureRegion
	Color  Color
	Sheet  *SheetAnimation // optional raster animation driving Region

	// Movie fields (NodeTypeMovie)
	Movie *Movie
	Rate  float64 // timeline frames per second, usually Library.FrameRate

	// Hit testing
	HitShape HitShape

	// Metadata
	UserData any

	// Per-node pointer callbacks (nil by default; zero cost when unused)
	OnPointerDown  func(PointerEvent)
	OnPointerUp    func(PointerEvent)
	OnPointerMove  func(PointerEvent)
	OnClick        func(PointerEvent)
	OnPointerEnter func(PointerEvent)
	OnPointerLeave func(PointerEvent)

	disposed bool
}

// nodeDefaults sets the common default field values shared by constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.dirty = true
	n.world = Identity()
	n.worldAlpha = 1
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that renders a texture region.
func NewSprite(name string, region TextureRegion) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Region: region}
	nodeDefaults(n)
	return n
}

// NewAnimatedSprite creates a sprite node whose region is driven by a
// sheet animation, advanced by the Stage each update.
func NewAnimatedSprite(name string, anim *SheetAnimation) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Sheet: anim, Region: anim.Region()}
	nodeDefaults(n)
	return n
}

// NewMovieNode creates a node that renders a Flump movie. rate is the
// movie's timeline rate in frames per second; the Stage converts its tick
// delta accordingly.
func NewMovieNode(name string, movie *Movie, rate float64) *Node {
	n := &Node{Name: name, Type: NodeTypeMovie, Movie: movie, Rate: rate}
	nodeDefaults(n)
	return n
}

// --- Transform setters ---

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.dirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.dirty = true
}

// SetRotation sets the node's rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.dirty = true
}

// SetSkew sets the node's SkewX and SkewY and marks it dirty.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX = sx
	n.SkewY = sy
	n.dirty = true
}

// SetPivot sets the node's PivotX and PivotY and marks it dirty.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.dirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.dirty = true
}

// Invalidate marks the node's transform as dirty, forcing recomputation on
// the next update. Useful after bulk-setting fields directly.
func (n *Node) Invalidate() {
	n.dirty = true
}

// --- World transform ---

// updateWorldTransform recomputes a node's world matrix and alpha.
// parentRecomputed forces recomputation even when this node is clean.
func updateWorldTransform(n *Node, parent Matrix, parentAlpha float64, parentRecomputed bool) {
	recompute := n.dirty || parentRecomputed
	if recompute {
		n.world = parent.Mul(localMatrix(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.dirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.world, n.worldAlpha, recompute)
	}
}

// WorldTransform returns the node's world matrix as of the last update.
func (n *Node) WorldTransform() Matrix {
	return n.world
}

// WorldAlpha returns the node's composited alpha as of the last update.
func (n *Node) WorldAlpha() float64 {
	return n.worldAlpha
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.world.Invert().Apply(wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.world.Apply(lx, ly)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children (topmost draw position).
// If child already has a parent it is removed from it first. Panics if
// child is nil or an ancestor of this node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("loom: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("loom: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// AddChildAt inserts child at the given draw position. Same reparenting
// and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("loom: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("loom: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("loom: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node. Panics if child's parent is
// not this node.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("loom: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("loom: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	markSubtreeDirty(child)
	return child
}

// RemoveFromParent detaches this node from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children. Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
}

// Children returns the child list in draw order. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants.
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
	n.Movie = nil
	n.Sheet = nil
	n.HitShape = nil
	n.UserData = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnPointerMove = nil
	n.OnClick = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
}

// IsDisposed reports whether this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
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

// markSubtreeDirty sets the dirty flag on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.dirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
