package domain

// AllNodes enumerates every node reachable from root, root included.
// Product and derived nodes are expanded on demand; the walk terminates
// because only finitely many distinct mnemonics are produced.
func AllNodes(root Node) []Node {
	var out []Node
	visited := make(map[string]struct{})
	pending := []Node{root}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := visited[n.Mnemonic()]; ok {
			continue
		}
		visited[n.Mnemonic()] = struct{}{}
		out = append(out, n)
		for _, edge := range n.Edges() {
			pending = append(pending, edge.Target)
		}
	}
	return out
}

// Matches reports whether node is covered by pattern.
// Placeholders match anything, including inside product and derived nodes.
func Matches(pattern, node Node) bool {
	if IsPlaceholder(pattern) || IsPlaceholder(node) {
		return true
	}
	if SameNode(pattern, node) {
		return true
	}
	switch p := pattern.(type) {
	case *ProductNode:
		n, ok := node.(*ProductNode)
		if !ok || p.Arity() != n.Arity() {
			return false
		}
		for i := range p.components {
			if !Matches(p.components[i], n.components[i]) {
				return false
			}
		}
		return true
	case *DerivedNode:
		n, ok := node.(*DerivedNode)
		if !ok || p.Prefix() != n.Prefix() {
			return false
		}
		return Matches(p.base, n.base)
	}
	return false
}

// Generalize returns the most specific pattern matching both a and b.
// Differing product components become placeholders; when nothing is shared
// the result is the placeholder itself.
func Generalize(a, b Node) Node {
	if SameNode(a, b) {
		return a
	}
	switch x := a.(type) {
	case *DerivedNode:
		y, ok := b.(*DerivedNode)
		if !ok || x.Prefix() != y.Prefix() {
			return Placeholder()
		}
		base := Generalize(x.base, y.base)
		if IsPlaceholder(base) {
			return Placeholder()
		}
		return x.Rebase(base)
	case *ProductNode:
		y, ok := b.(*ProductNode)
		if !ok || x.Arity() != y.Arity() {
			return Placeholder()
		}
		components := make([]Node, x.Arity())
		shared := false
		for i := range components {
			components[i] = Generalize(x.components[i], y.components[i])
			if !IsPlaceholder(components[i]) {
				shared = true
			}
		}
		if !shared {
			return Placeholder()
		}
		return NewProductNode(x.empty, components...)
	}
	return Placeholder()
}
