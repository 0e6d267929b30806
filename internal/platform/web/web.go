// Package web renders component trees into HTML element trees styled with
// flex-box CSS.
package web

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/sduigo/internal/dispatch"
	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/resolve"
	"github.com/vk/sduigo/internal/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes carried by every rendered element.
const (
	AttrID   = "data-sdui-id"
	AttrType = "data-sdui-type"
)

// Renderers returns one renderer per built-in component type.
func Renderers() []dispatch.Renderer[*html.Node] {
	return []dispatch.Renderer[*html.Node]{
		dispatch.Func(platform.TypeView, renderView, appendChild),
		dispatch.Func(platform.TypeText, renderText, nil),
		dispatch.Func(platform.TypeButton, renderButton, nil),
		dispatch.Func(platform.TypeImage, renderImage, nil),
		dispatch.Func(platform.TypeInput, renderInput, nil),
	}
}

// NewRegistry returns the registry of built-in web renderers.
func NewRegistry() *dispatch.Registry[*html.Node] {
	return dispatch.MustNewRegistry(Renderers()...)
}

func appendChild(parent, child *html.Node) *html.Node {
	parent.AppendChild(child)
	return parent
}

func element(a atom.Atom, b *resolve.Binding, css string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	n.Attr = append(n.Attr,
		html.Attribute{Key: AttrID, Val: b.ID()},
		html.Attribute{Key: AttrType, Val: b.Type()},
	)
	if css != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func renderView(_ context.Context, b *resolve.Binding) (*html.Node, bool) {
	st := b.Style()
	decls := []string{"display:flex", "flex-direction:" + string(st.Direction())}
	if j, ok := st.JustifyContent(); ok {
		decls = append(decls, "justify-content:"+string(j))
	}
	if a, ok := st.AlignItems(); ok {
		decls = append(decls, "align-items:"+string(a))
	}
	return element(atom.Div, b, join(decls, CSS(st))), true
}

func renderText(_ context.Context, b *resolve.Binding) (*html.Node, bool) {
	var decls []string
	if c, ok := b.String(platform.PropColor); ok && safeValue(c) {
		decls = append(decls, "color:"+c)
	}
	if size, ok := b.Number(platform.PropFontSize); ok {
		decls = append(decls, "font-size:"+style.Points(size).CSS())
	}
	n := element(atom.Span, b, join(CSS(b.Style()), decls))
	if s, ok := b.String(platform.PropText); ok {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
	return n, true
}

func renderButton(_ context.Context, b *resolve.Binding) (*html.Node, bool) {
	n := element(atom.Button, b, join(CSS(b.Style())))
	setAttr(n, "type", "button")
	if enabled, ok := b.Bool(platform.PropEnabled); ok && !enabled {
		setAttr(n, "disabled", "")
	}
	if s, ok := b.String(platform.PropTitle); ok {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
	return n, true
}

func renderImage(_ context.Context, b *resolve.Binding) (*html.Node, bool) {
	url, ok := b.String(platform.PropURL)
	if !ok {
		return nil, false
	}
	n := element(atom.Img, b, join(CSS(b.Style())))
	setAttr(n, "src", url)
	alt, _ := b.String(platform.PropAlt)
	setAttr(n, "alt", alt)
	return n, true
}

func renderInput(_ context.Context, b *resolve.Binding) (*html.Node, bool) {
	n := element(atom.Input, b, join(CSS(b.Style())))
	setAttr(n, "type", "text")
	if s, ok := b.String(platform.PropPlaceholder); ok {
		setAttr(n, "placeholder", s)
	}
	if s, ok := b.String(platform.PropValue); ok {
		setAttr(n, "value", s)
	}
	if enabled, ok := b.Bool(platform.PropEnabled); ok && !enabled {
		setAttr(n, "disabled", "")
	}
	return n, true
}

// CSS renders the view props shared by every node as inline CSS
// declarations in a fixed order.
func CSS(st style.Style) []string {
	decls := []string{"position:" + string(st.Position())}
	for _, d := range []struct {
		prop string
		get  func() (style.Dimension, bool)
	}{
		{"top", st.Top},
		{"right", st.Right},
		{"bottom", st.Bottom},
		{"left", st.Left},
		{"width", st.Width},
		{"height", st.Height},
		{"min-width", st.MinWidth},
		{"min-height", st.MinHeight},
		{"max-width", st.MaxWidth},
		{"max-height", st.MaxHeight},
	} {
		if v, ok := d.get(); ok {
			decls = append(decls, d.prop+":"+v.CSS())
		}
	}

	if p := st.Padding(); !p.IsZero() {
		decls = append(decls, "padding:"+insets(p))
	}
	if m := st.Margin(); !m.IsZero() {
		decls = append(decls, "margin:"+insets(m))
	}
	if f, ok := st.Flex(); ok {
		decls = append(decls, "flex:"+number(f))
	}
	if c, ok := st.BackgroundColor(); ok && safeValue(c) {
		decls = append(decls, "background-color:"+c)
	}
	if r, ok := st.CornerRadius(); ok {
		decls = append(decls, "border-radius:"+style.Points(r).CSS())
	}
	if w, ok := st.BorderWidth(); ok {
		decls = append(decls, "border-width:"+style.Points(w).CSS(), "border-style:solid")
	}
	if c, ok := st.BorderColor(); ok && safeValue(c) {
		decls = append(decls, "border-color:"+c)
	}
	if o, ok := st.Opacity(); ok {
		decls = append(decls, "opacity:"+number(o))
	}
	return decls
}

// safeValue reports whether s can be used as a single CSS value without
// ending the declaration or opening a block.
func safeValue(s string) bool {
	return s != "" && !strings.ContainsAny(s, ";{}\\<>\"")
}

func insets(i style.Insets) string {
	return strings.Join([]string{i.Top.CSS(), i.Right.CSS(), i.Bottom.CSS(), i.Left.CSS()}, " ")
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func join(groups ...[]string) string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return strings.Join(all, ";")
}

// Render serialises n as an HTML fragment.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Page wraps body content into a complete HTML document.
func Page(title string, content *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
	head := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	meta := &html.Node{Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta",
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}}}
	titleNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(meta)
	head.AppendChild(titleNode)

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	if content != nil {
		body.AppendChild(content)
	}
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc
}
