// Package platform names the built-in component types and the properties
// their renderers read. Every platform registers a renderer per type.
package platform

// Built-in component types.
const (
	TypeView   = "view"
	TypeText   = "text"
	TypeButton = "button"
	TypeImage  = "image"
	TypeInput  = "input"
)

// Types lists the built-in component types.
var Types = []string{TypeView, TypeText, TypeButton, TypeImage, TypeInput}

// Property keys read by the built-in renderers.
const (
	PropText        = "text"
	PropTitle       = "title"
	PropEnabled     = "enabled"
	PropURL         = "url"
	PropAlt         = "alt"
	PropPlaceholder = "placeholder"
	PropValue       = "value"
	PropColor       = "color"
	PropFontSize    = "fontSize"
)

// Render target names.
const (
	Web      = "web"
	Snapshot = "snapshot"
)

// Names lists the available render targets.
var Names = []string{Snapshot, Web}

// Valid reports whether name is a known render target.
func Valid(name string) bool {
	return name == Web || name == Snapshot
}
