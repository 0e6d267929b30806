package hcl

import (
	"fmt"

	"github.com/vk/sduigo/internal/dsl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// propFunc is prop() or prop(key): a runtime prop binding.
var propFunc = function.New(&function.Spec{
	VarParam: &function.Parameter{Name: "key", Type: cty.String},
	Type: func(args []cty.Value) (cty.Type, error) {
		switch len(args) {
		case 0:
			return dsl.SelfProp().Type(), nil
		case 1:
			return dsl.Prop("").Type(), nil
		}
		return cty.NilType, fmt.Errorf("prop takes at most one argument, got %d", len(args))
	},
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if len(args) == 0 {
			return dsl.SelfProp(), nil
		}
		key := args[0].AsString()
		if key == "" {
			return cty.NilVal, function.NewArgErrorf(0, "prop key must not be empty")
		}
		return dsl.Prop(key), nil
	},
})

// percentFunc is percent(n): a parent-relative length.
var percentFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.Number}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		f, _ := args[0].AsBigFloat().Float64()
		return dsl.Pct(f), nil
	},
})

// Functions available in authoring files.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"prop":    propFunc,
		"percent": percentFunc,
	}
}
