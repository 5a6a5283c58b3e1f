// Package slot implements polymorphic rendering for leaf components: a slot
// renders its built-in element, a caller-supplied element cloned with merged
// props, or the result of a caller-supplied render function. The three
// shapes are explicit variants, not runtime probing, and every branch binds
// the caller's Ref to the concrete node that was produced.
package slot

import "errors"

// ErrNilElement reports an Element variant built around a nil node.
var ErrNilElement = errors.New("slot: nil element")

// ErrNilRender reports a render function that produced no node.
var ErrNilRender = errors.New("slot: render function returned nil")

// Props is an element's attribute set.
type Props map[string]string

// Node is a minimal element tree: a tag, its props, optional text body and
// children.
type Node struct {
	Tag      string
	Props    Props
	Body     string
	Children []*Node
}

// Clone returns a copy of the node with its own props map. Children are
// shared; a render never mutates a child in place.
func (n *Node) Clone() *Node {
	props := make(Props, len(n.Props))
	for k, v := range n.Props {
		props[k] = v
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	return &Node{Tag: n.Tag, Props: props, Body: n.Body, Children: children}
}

// Ref is the handle to the rendered node. Whatever customization path a
// render takes, the Ref ends up bound to the node that was actually produced.
type Ref struct {
	node *Node
}

// Node returns the bound node, nil before the first render.
func (r *Ref) Node() *Node {
	if r == nil {
		return nil
	}
	return r.node
}

func (r *Ref) bind(n *Node) {
	if r != nil {
		r.node = n
	}
}

// Content selects one of the three render shapes. Exactly one variant
// applies per render.
type Content interface {
	isContent()
}

type defaultContent struct{}

type elementContent struct {
	node *Node
}

type renderFuncContent struct {
	fn func(Props, *Ref) *Node
}

func (defaultContent) isContent()    {}
func (elementContent) isContent()    {}
func (renderFuncContent) isContent() {}

// Default renders the slot's built-in element.
func Default() Content {
	return defaultContent{}
}

// Element renders a clone of the caller's node with injected props merged in.
func Element(n *Node) Content {
	return elementContent{node: n}
}

// RenderFunc hands full control to the caller: fn is invoked exactly once
// per render with the injected props and the ref.
func RenderFunc(fn func(Props, *Ref) *Node) Content {
	return renderFuncContent{fn: fn}
}

// Slot describes the built-in element used by the Default variant.
type Slot struct {
	// DefaultTag is the tag rendered by Default. Empty means "div".
	DefaultTag string

	// DefaultProps are the built-in element's own props. On the Default
	// branch they win over injected props, same as an element's own props
	// do on the Element branch.
	DefaultProps Props
}

// Render produces the final node for content.
//
// Merge precedence is uniform across branches: props the target element
// already defines win over injected props; injected props only fill gaps.
// This preserves caller intent when a caller passes its own element.
func (s Slot) Render(content Content, injected Props, body string, ref *Ref) (*Node, error) {
	switch c := content.(type) {
	case defaultContent:
		n := &Node{
			Tag:   s.DefaultTag,
			Props: mergeProps(s.DefaultProps, injected),
			Body:  body,
		}
		if n.Tag == "" {
			n.Tag = "div"
		}
		ref.bind(n)
		return n, nil

	case elementContent:
		if c.node == nil {
			return nil, ErrNilElement
		}
		n := c.node.Clone()
		n.Props = mergeProps(n.Props, injected)
		if n.Body == "" {
			n.Body = body
		}
		ref.bind(n)
		return n, nil

	case renderFuncContent:
		// A binding left over from an earlier render is not authoritative;
		// only a binding the function makes during this render is kept.
		prev := ref.Node()
		n := c.fn(cloneProps(injected), ref)
		if n == nil {
			return nil, ErrNilRender
		}
		if ref.Node() == prev {
			ref.bind(n)
		}
		return n, nil

	default:
		// Content is a closed set; a foreign implementation is a bug.
		return nil, errors.New("slot: unknown content variant")
	}
}

// mergeProps keeps every own prop and fills gaps from injected.
func mergeProps(own, injected Props) Props {
	merged := make(Props, len(own)+len(injected))
	for k, v := range injected {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return merged
}

func cloneProps(p Props) Props {
	cp := make(Props, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
