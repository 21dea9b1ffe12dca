package loom

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Built-in HitShape types ---

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

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node // last hovered node, for enter/leave
	button    MouseButton
}

// --- Stage-level handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

type handlerRegistry struct {
	byEvent [EventPointerLeave + 1][]pointerHandler
	nextID  uint32
}

// Handle allows removing a registered stage-level callback.
type Handle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h Handle) Remove() {
	if h.reg == nil {
		return
	}
	list := h.reg.byEvent[h.event]
	for i := range list {
		if list[i].id == h.id {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = pointerHandler{}
			h.reg.byEvent[h.event] = list[:len(list)-1]
			return
		}
	}
}

func (s *Stage) on(event EventType, fn func(PointerEvent)) Handle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.byEvent[event] = append(s.handlers.byEvent[event], pointerHandler{id: id, fn: fn})
	return Handle{id: id, reg: &s.handlers, event: event}
}

// OnPointerDown registers a stage-level callback for pointer down events.
func (s *Stage) OnPointerDown(fn func(PointerEvent)) Handle { return s.on(EventPointerDown, fn) }

// OnPointerUp registers a stage-level callback for pointer up events.
func (s *Stage) OnPointerUp(fn func(PointerEvent)) Handle { return s.on(EventPointerUp, fn) }

// OnPointerMove registers a stage-level callback for hover move events.
func (s *Stage) OnPointerMove(fn func(PointerEvent)) Handle { return s.on(EventPointerMove, fn) }

// OnClick registers a stage-level callback for click events (press then
// release over the same node).
func (s *Stage) OnClick(fn func(PointerEvent)) Handle { return s.on(EventClick, fn) }

// OnPointerEnter registers a stage-level callback fired when the pointer
// moves over a new node.
func (s *Stage) OnPointerEnter(fn func(PointerEvent)) Handle { return s.on(EventPointerEnter, fn) }

// OnPointerLeave registers a stage-level callback fired when the pointer
// leaves a node.
func (s *Stage) OnPointerLeave(fn func(PointerEvent)) Handle { return s.on(EventPointerLeave, fn) }

// CapturePointer routes all events for pointerID to the given node until
// released (or until the pointer goes up, which auto-releases).
func (s *Stage) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Stage) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit
// region. Uses HitShape if set; sprites fall back to their authored region
// size. Containers and movie nodes are hit-testable only via HitShape.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type != NodeTypeSprite {
		return false
	}
	w := float64(n.Region.OriginalW)
	h := float64(n.Region.OriginalH)
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order, appending
// hit-testable nodes. Invisible or non-interactable subtrees are skipped.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type == NodeTypeSprite {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (x, y) in stage space.
func (s *Stage) hitTest(x, y float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])
	// Reverse painter order: topmost visual node wins.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(x, y)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processPointers reads mouse and touch state and runs the per-pointer
// state machine. Called from Stage.Update after world transforms are
// refreshed.
func (s *Stage) processPointers() {
	s.processMouse()
	s.processTouches()
}

func (s *Stage) processMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}

	s.processPointer(0, x, y, pressed, button)
}

func (s *Stage) processTouches() {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])

	var active [maxPointers]bool
	for _, tid := range s.touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Release slots whose touch has ended.
	for i := 1; i < maxPointers; i++ {
		if s.touchUse[i] && !active[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			s.touchUse[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9), allocating a
// free slot for new touches. Returns -1 when all slots are in use.
func (s *Stage) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUse[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUse[i] {
			s.touchUse[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the state machine for a single pointer.
func (s *Stage) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	var target *Node
	if s.captured[pointerID] != nil {
		target = s.captured[pointerID]
	} else {
		target = s.hitTest(x, y)
	}

	// Hover enter/leave when the hovered node changes.
	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.fire(EventPointerLeave, ps.hoverNode, pointerID, x, y, button)
		}
		if target != nil {
			s.fire(EventPointerEnter, target, pointerID, x, y, button)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
		s.fire(EventPointerDown, target, pointerID, x, y, button)
	case !pressed && ps.down:
		if ps.hitNode != nil && ps.hitNode == target {
			s.fire(EventClick, target, pointerID, x, y, ps.button)
		}
		s.fire(EventPointerUp, target, pointerID, x, y, ps.button)
		s.captured[pointerID] = nil // auto-release capture
		ps.down = false
		ps.hitNode = nil
	case !pressed && !ps.down:
		if x != ps.lastX || y != ps.lastY {
			s.fire(EventPointerMove, target, pointerID, x, y, button)
		}
	}
	ps.lastX = x
	ps.lastY = y
}

// fire dispatches one event to stage-level handlers and then the node's
// own callback.
func (s *Stage) fire(event EventType, node *Node, pointerID int, x, y float64, button MouseButton) {
	ev := PointerEvent{
		Node:      node,
		GlobalX:   x,
		GlobalY:   y,
		Button:    button,
		PointerID: pointerID,
	}
	if node != nil {
		ev.LocalX, ev.LocalY = node.WorldToLocal(x, y)
		ev.UserData = node.UserData
	}
	for _, h := range s.handlers.byEvent[event] {
		h.fn(ev)
	}
	if node == nil {
		return
	}
	switch event {
	case EventPointerDown:
		if node.OnPointerDown != nil {
			node.OnPointerDown(ev)
		}
	case EventPointerUp:
		if node.OnPointerUp != nil {
			node.OnPointerUp(ev)
		}
	case EventPointerMove:
		if node.OnPointerMove != nil {
			node.OnPointerMove(ev)
		}
	case EventClick:
		if node.OnClick != nil {
			node.OnClick(ev)
		}
	case EventPointerEnter:
		if node.OnPointerEnter != nil {
			node.OnPointerEnter(ev)
		}
	case EventPointerLeave:
		if node.OnPointerLeave != nil {
			node.OnPointerLeave(ev)
		}
	}
}
