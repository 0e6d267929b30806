// Package dispatch turns a component tree into a platform view tree.
//
// A Registry maps component type tags to Renderers and is built once from the
// full set of renderers a platform provides; registering the same type twice
// is an error rather than a silent overwrite. A Dispatcher walks the tree in
// declaration order, renders each node through its Renderer and attaches the
// rendered children to the rendered parent. Nodes whose type has no renderer
// are skipped together with their subtree, so one unknown component never
// aborts the rest of the screen.
package dispatch
