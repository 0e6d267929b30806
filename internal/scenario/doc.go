// Package scenario reads and writes scenario documents: the JSON envelope
// carrying a main component tree, named fragments, a semantic version, a
// build number and free-form metadata.
//
// Parse validates the envelope against an embedded JSON Schema and then
// builds every component tree. Envelope problems surface as ValidationError;
// problems inside a tree surface as the component package's structural and
// cycle errors, with paths rooted at the document.
package scenario
