package config

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Config is an immutable key/value mapping with typed accessors. The zero
// value is a valid, empty Config.
type Config struct {
	val cty.Value
	set bool
}

// Empty returns a Config without any keys.
func Empty() Config {
	return Config{}
}

// New wraps an object- or map-typed value. Null, unknown and non-object
// values are rejected.
func New(v cty.Value) (Config, error) {
	if v == cty.NilVal {
		return Config{}, fmt.Errorf("config: value is nil")
	}
	if !v.IsKnown() {
		return Config{}, fmt.Errorf("config: value is unknown")
	}
	if v.IsNull() {
		return Config{}, fmt.Errorf("config: value is null")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return Config{}, fmt.Errorf("config: expected an object, got %s", ty.FriendlyName())
	}
	return Config{val: v, set: true}, nil
}

// MustNew is like New but panics on error. It is meant for literals in tests
// and static tables.
func MustNew(v cty.Value) Config {
	c, err := New(v)
	if err != nil {
		panic(err)
	}
	return c
}

// Value returns the underlying object value.
func (c Config) Value() cty.Value {
	if !c.set {
		return cty.EmptyObjectVal
	}
	return c.val
}

// Lookup returns the raw value stored under key. Null and unknown values are
// reported as absent.
func (c Config) Lookup(key string) (cty.Value, bool) {
	if !c.set {
		return cty.NilVal, false
	}
	var v cty.Value
	ty := c.val.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(key) {
			return cty.NilVal, false
		}
		v = c.val.GetAttr(key)
	case ty.IsMapType():
		k := cty.StringVal(key)
		if !c.val.HasIndex(k).True() {
			return cty.NilVal, false
		}
		v = c.val.Index(k)
	default:
		return cty.NilVal, false
	}
	if !v.IsKnown() || v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}

// Has reports whether key holds a non-null value.
func (c Config) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Keys returns the keys holding non-null values, sorted.
func (c Config) Keys() []string {
	if !c.set {
		return nil
	}
	var keys []string
	ty := c.val.Type()
	switch {
	case ty.IsObjectType():
		for name := range ty.AttributeTypes() {
			if c.Has(name) {
				keys = append(keys, name)
			}
		}
	case ty.IsMapType():
		for it := c.val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			if v.IsKnown() && !v.IsNull() {
				keys = append(keys, k.AsString())
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of non-null keys.
func (c Config) Len() int {
	return len(c.Keys())
}

// GetString returns the string stored under key.
func (c Config) GetString(key string) (string, bool) {
	v, ok := c.Lookup(key)
	if !ok || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// GetNumber returns the number stored under key as a float64.
func (c Config) GetNumber(key string) (float64, bool) {
	v, ok := c.Lookup(key)
	if !ok || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// GetInt returns the number stored under key when it is a whole number that
// fits in an int.
func (c Config) GetInt(key string) (int, bool) {
	v, ok := c.Lookup(key)
	if !ok || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return 0, false
	}
	i, acc := bf.Int64()
	if acc != big.Exact || int64(int(i)) != i {
		return 0, false
	}
	return int(i), true
}

// GetBool returns the boolean stored under key.
func (c Config) GetBool(key string) (bool, bool) {
	v, ok := c.Lookup(key)
	if !ok || !v.Type().Equals(cty.Bool) {
		return false, false
	}
	return v.True(), true
}

// GetConfig returns the object stored under key as a new Config.
func (c Config) GetConfig(key string) (Config, bool) {
	v, ok := c.Lookup(key)
	if !ok {
		return Config{}, false
	}
	sub, err := New(v)
	if err != nil {
		return Config{}, false
	}
	return sub, true
}

// GetConfigArray returns the array stored under key when every element is an
// object. An empty array yields an empty, non-nil slice.
func (c Config) GetConfigArray(key string) ([]Config, bool) {
	v, ok := c.Lookup(key)
	if !ok {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, false
	}
	elems := v.AsValueSlice()
	out := make([]Config, 0, len(elems))
	for _, e := range elems {
		sub, err := New(e)
		if err != nil {
			return nil, false
		}
		out = append(out, sub)
	}
	return out, true
}

// Equal reports whether both configs hold the same keys and values.
func (c Config) Equal(other Config) bool {
	return c.Value().RawEquals(other.Value())
}

// String renders the config as JSON, for logs and test failures.
func (c Config) String() string {
	b, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(b)
}
