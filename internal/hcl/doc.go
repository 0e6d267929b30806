// Package hcl is the HCL authoring front-end. It reads scenario blocks from
// .hcl files and translates them into dsl documents:
//
//	scenario "home" {
//	  version      = "1.0.0"
//	  build_number = 3
//
//	  column {
//	    padding = 16
//	    text {
//	      properties = { text = prop("label") }
//	    }
//	  }
//
//	  fragment "card" {
//	    row { button { properties = { title = "Go" } } }
//	  }
//	}
//
// row, column and stack are layout blocks. Any other block inside a tree is
// a leaf whose component type is the block type; component "<type>" is the
// explicit form. Attributes other than id, properties and data are view
// props, written in snake_case.
package hcl
