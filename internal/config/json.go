package config

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromJSON decodes a JSON object into a Config. Any other JSON shape at the
// root is an error.
func FromJSON(data []byte) (Config, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return Config{}, err
	}
	return New(v)
}

// DecodeJSON decodes arbitrary JSON into a cty.Value using the type implied
// by the document itself. Arrays become tuples, objects become objects.
func DecodeJSON(data []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("decode json: %w", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// FromMap converts a JSON-compatible Go map into a Config.
func FromMap(m map[string]any) (Config, error) {
	if m == nil {
		return Empty(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encode map: %w", err)
	}
	return FromJSON(data)
}

// MarshalJSON implements json.Marshaler.
func (c Config) MarshalJSON() ([]byte, error) {
	return EncodeJSON(c.Value())
}

// EncodeJSON serialises a cty.Value as JSON.
func EncodeJSON(v cty.Value) ([]byte, error) {
	return ctyjson.Marshal(v, v.Type())
}

// ToMap returns the config as plain Go values.
func (c Config) ToMap() map[string]any {
	m, _ := ToGo(c.Value()).(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

// ToGo converts a cty.Value into JSON-compatible Go values: string, int64 or
// float64, bool, []any, map[string]any or nil.
func ToGo(v cty.Value) any {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Bool):
		return v.True()
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = ToGo(ev)
		}
		return out
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		elems := v.AsValueSlice()
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			out = append(out, ToGo(e))
		}
		return out
	}
	return nil
}
