package config

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Get decodes the value stored under key into T. Besides the scalar and
// struct types understood by gocty, T may be Config, cty.Value or any.
// A missing key or a value that does not decode cleanly yields false.
func Get[T any](c Config, key string) (T, bool) {
	v, ok := c.Lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	return Decode[T](v)
}

// Decode converts v into T following the rules of Get.
func Decode[T any](v cty.Value) (T, bool) {
	var zero, out T
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return zero, false
	}
	switch p := any(&out).(type) {
	case *Config:
		sub, err := New(v)
		if err != nil {
			return zero, false
		}
		*p = sub
		return out, true
	case *cty.Value:
		*p = v
		return out, true
	case *any:
		*p = ToGo(v)
		return out, true
	}
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return zero, false
	}
	return out, true
}

// TypeOf returns the cty type a value must have to decode into T. Config maps
// to an object-like map type and cty.Value or any to cty.DynamicPseudoType.
func TypeOf[T any]() cty.Type {
	var out T
	switch any(&out).(type) {
	case *Config:
		return cty.Map(cty.DynamicPseudoType)
	case *cty.Value, *any:
		return cty.DynamicPseudoType
	}
	ty, err := gocty.ImpliedType(out)
	if err != nil {
		return cty.DynamicPseudoType
	}
	return ty
}

// Matches reports whether v is a usable value of type ty. Matching is strict
// (a number never matches cty.String); cty.DynamicPseudoType accepts any
// non-null value. Because JSON arrays and objects decode to tuples and
// objects, list, set and map requests accept those when every element
// matches the requested element type.
func Matches(v cty.Value, ty cty.Type) bool {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return false
	}
	if ty.Equals(cty.DynamicPseudoType) {
		return true
	}
	vt := v.Type()
	if vt.Equals(ty) {
		return true
	}
	switch {
	case ty.IsListType() || ty.IsSetType():
		if !vt.IsTupleType() && !vt.IsListType() && !vt.IsSetType() {
			return false
		}
		for _, e := range v.AsValueSlice() {
			if !matchesElem(e, ty.ElementType()) {
				return false
			}
		}
		return true
	case ty.IsMapType():
		if !vt.IsObjectType() && !vt.IsMapType() {
			return false
		}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if !matchesElem(ev, ty.ElementType()) {
				return false
			}
		}
		return true
	}
	return false
}

// matchesElem lets collections carry null members, as JSON arrays and
// objects may.
func matchesElem(v cty.Value, ty cty.Type) bool {
	if v.IsKnown() && v.IsNull() {
		return true
	}
	return Matches(v, ty)
}
