// Package dsl is the authoring side of sduigo: a small set of layout
// primitives and leaf components that compile into the portable scenario
// JSON understood by every platform.
//
// Row and Column become "view" nodes carrying a flex direction. Stack
// becomes a relatively positioned "view" whose direct children are forced
// to absolute positioning so they layer on top of each other. ViewProps
// apply to every node and compile to like-named style keys.
//
//	doc := dsl.Document{
//		Name:    "home",
//		Version: "1.0.0",
//		Main: dsl.Column(dsl.FlexProps{JustifyContent: style.JustifyCenter}, dsl.ViewProps{Padding: dsl.Px(16)},
//			dsl.Text(dsl.Prop("label"), dsl.ViewProps{}),
//		),
//	}
//	out, err := doc.Compile()
package dsl
