package verdant

// elementIDCounter is a plain counter; verdant is single-threaded.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// disposeHook runs once when its element is disposed.
type disposeHook struct {
	id uint32
	fn func()
}

// Element is a laid-out box on the page. Left and Top are relative to the
// parent; the root's children are positioned in document space (measured from
// the top of the document, not the viewport). Layout fields are written by
// the page. Transform fields are written by the Choreographer and tweens, and
// read when drawing.
//
// Children inherit their parent's position, translation and alpha.
type Element struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout (relative to Parent)
	Left, Top     float64
	Width, Height float64
	// ScrollWidth is the full content width. For a horizontally panned
	// section it exceeds Width; zero means "same as Width".
	ScrollWidth float64

	// Transform (output)
	TranslateX float64
	TranslateY float64
	Alpha      float64
	// Fill is the filled fraction of a progress indicator, in [0, 1].
	Fill float64

	// Appearance
	Color       Color
	Visible     bool
	Interactive bool
	// Text is printed at the top-left of the box.
	Text string
	// Bar marks a progress indicator: only the leading Fill fraction of the
	// width is drawn in Color, over a faint track.
	Bar bool
	// Fixed positions the element (and its subtree) in screen space; it does
	// not move with the scroll offset and takes no room in flow layout.
	Fixed bool

	// Metadata
	UserData any

	disposed bool
	hooks    []disposeHook
	nextHook uint32
}

// NewElement creates an element with no geometry.
func NewElement(name string) *Element {
	return &Element{
		ID:      nextElementID(),
		Name:    name,
		Alpha:   1,
		Color:   ColorWhite,
		Visible: true,
	}
}

// NewBox creates an element with the given layout, relative to its future parent.
func NewBox(name string, left, top, width, height float64) *Element {
	e := NewElement(name)
	e.Left, e.Top = left, top
	e.Width, e.Height = width, height
	return e
}

// AddChild appends child to e, detaching it from any previous parent.
func (e *Element) AddChild(child *Element) {
	if globalDebug {
		debugCheckDisposed(e, "AddChild")
		debugCheckDisposed(child, "AddChild")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
}

// RemoveChild detaches child from e. It is not disposed.
func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			child.Parent = nil
			return
		}
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (e *Element) Children() []*Element {
	return e.children
}

// HasGeometry reports whether the element has been laid out with a non-zero
// size.
func (e *Element) HasGeometry() bool {
	return e.Width > 0 && e.Height > 0
}

// ContentWidth returns ScrollWidth, or Width when ScrollWidth is unset.
func (e *Element) ContentWidth() float64 {
	if e.ScrollWidth > 0 {
		return e.ScrollWidth
	}
	return e.Width
}

// DocumentRect returns the untransformed layout rectangle in document space.
func (e *Element) DocumentRect() Rect {
	r := Rect{Width: e.Width, Height: e.Height}
	for n := e; n != nil; n = n.Parent {
		r.X += n.Left
		r.Y += n.Top
	}
	return r
}

// WorldOffset returns the translation accumulated from e and its ancestors.
func (e *Element) WorldOffset() Vec2 {
	var v Vec2
	for n := e; n != nil; n = n.Parent {
		v.X += n.TranslateX
		v.Y += n.TranslateY
	}
	return v
}

// WorldAlpha returns Alpha multiplied by every ancestor's Alpha.
func (e *Element) WorldAlpha() float64 {
	a := 1.0
	for n := e; n != nil; n = n.Parent {
		a *= n.Alpha
	}
	return a
}

// ScreenRect returns where the element is drawn for the given scroll offset.
func (e *Element) ScreenRect(scroll float64) Rect {
	r := e.DocumentRect()
	off := e.WorldOffset()
	r.X += off.X
	r.Y += off.Y
	if !e.IsFixed() {
		r.Y -= scroll
	}
	return r
}

// IsFixed reports whether e or an ancestor is Fixed.
func (e *Element) IsFixed() bool {
	for n := e; n != nil; n = n.Parent {
		if n.Fixed {
			return true
		}
	}
	return false
}

// onDispose registers fn to run when e is disposed and returns an id for
// removeDisposeHook.
func (e *Element) onDispose(fn func()) uint32 {
	e.nextHook++
	e.hooks = append(e.hooks, disposeHook{id: e.nextHook, fn: fn})
	return e.nextHook
}

func (e *Element) removeDisposeHook(id uint32) {
	for i := range e.hooks {
		if e.hooks[i].id == id {
			copy(e.hooks[i:], e.hooks[i+1:])
			e.hooks[len(e.hooks)-1] = disposeHook{}
			e.hooks = e.hooks[:len(e.hooks)-1]
			return
		}
	}
}

// Dispose removes e from its parent, disposes its children and runs dispose
// hooks, which unregister every choreography registration bound to e.
// Disposing twice is a no-op.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	if e.Parent != nil {
		e.Parent.RemoveChild(e)
	}
	for len(e.children) > 0 {
		e.children[len(e.children)-1].Dispose()
	}
	e.disposed = true
	hooks := e.hooks
	e.hooks = nil
	for _, h := range hooks {
		h.fn()
	}
}

// IsDisposed reports whether Dispose has been called.
func (e *Element) IsDisposed() bool {
	return e.disposed
}
