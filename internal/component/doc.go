// Package component is the tree model of a scenario: every node carries an
// id, a type tag, a style, declared properties, static data and an ordered
// list of children it exclusively owns.
//
// Trees are built bottom-up from a decoded JSON document by Build. Each
// finished subtree is attached to its parent through AddChild, which walks
// the new child's subtree before attaching it and refuses the edge when a
// node in that subtree carries the parent's id. A cyclic tree is therefore
// never observable. Once Build returns, the whole tree is frozen and safe to
// read from any number of goroutines.
package component
