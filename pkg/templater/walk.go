package templater

import (
	"reflect"

	"github.com/deicod/gojinja/nodes"
)

var nodeInterface = reflect.TypeOf((*nodes.Node)(nil)).Elem()

// walkNodes visits every node reachable from root, in document order,
// using an explicit stack rather than recursion. The whole tree is in
// memory, so the traversal is finite and collected eagerly by callers.
func walkNodes(root nodes.Node, visit func(nodes.Node)) {
	if root == nil {
		return
	}
	stack := []nodes.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		visit(n)

		// Children push in reverse so they pop in document order.
		children := childNodes(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// childNodes collects the direct children of n by scanning its exported
// struct fields for values implementing nodes.Node, including slices of
// nodes and intermediate non-node structs (e.g. elif branches). Working
// over the reflected shape rather than a per-type switch means node
// kinds added to the engine are traversed without changes here.
func childNodes(n nodes.Node) []nodes.Node {
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var children []nodes.Node
	var collect func(fv reflect.Value)
	collect = func(fv reflect.Value) {
		switch fv.Kind() {
		case reflect.Interface:
			if fv.IsNil() {
				return
			}
			if child, ok := fv.Interface().(nodes.Node); ok {
				children = append(children, child)
			}
		case reflect.Pointer:
			if fv.IsNil() {
				return
			}
			if fv.Type().Implements(nodeInterface) {
				children = append(children, fv.Interface().(nodes.Node))
				return
			}
			collect(fv.Elem())
		case reflect.Slice, reflect.Array:
			for i := 0; i < fv.Len(); i++ {
				collect(fv.Index(i))
			}
		case reflect.Struct:
			if fv.CanAddr() && reflect.PointerTo(fv.Type()).Implements(nodeInterface) {
				children = append(children, fv.Addr().Interface().(nodes.Node))
				return
			}
			t := fv.Type()
			for i := 0; i < fv.NumField(); i++ {
				if t.Field(i).IsExported() {
					collect(fv.Field(i))
				}
			}
		}
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).IsExported() {
			collect(v.Field(i))
		}
	}
	return children
}
