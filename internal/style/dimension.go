package style

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Unit qualifies a Dimension.
type Unit int

const (
	// UnitPoints is density-independent pixels.
	UnitPoints Unit = iota
	// UnitPercent is relative to the parent's size on the same axis.
	UnitPercent
)

// Dimension is a length in points or percent.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Points returns a dp dimension.
func Points(v float64) Dimension { return Dimension{Value: v, Unit: UnitPoints} }

// Percent returns a parent-relative dimension.
func Percent(v float64) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// IsZero reports a zero-length dimension.
func (d Dimension) IsZero() bool { return d.Value == 0 }

// String renders the dimension the way it appears in JSON for percentages,
// and as a bare number for points.
func (d Dimension) String() string {
	s := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Unit == UnitPercent {
		return s + "%"
	}
	return s
}

// CSS renders the dimension as a CSS length.
func (d Dimension) CSS() string {
	s := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Unit == UnitPercent {
		return s + "%"
	}
	return s + "px"
}

// ParseDimension parses "12", "12.5" or "50%".
func ParseDimension(s string) (Dimension, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}, false
	}
	unit := UnitPoints
	if strings.HasSuffix(s, "%") {
		unit = UnitPercent
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Dimension{}, false
	}
	return Dimension{Value: v, Unit: unit}, true
}

// DimensionFromValue accepts a number (points) or a percentage string.
func DimensionFromValue(v cty.Value) (Dimension, bool) {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return Dimension{}, false
	}
	switch {
	case v.Type().Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		if math.IsInf(f, 0) {
			return Dimension{}, false
		}
		return Points(f), true
	case v.Type().Equals(cty.String):
		d, ok := ParseDimension(v.AsString())
		if !ok || d.Unit != UnitPercent {
			return Dimension{}, false
		}
		return d, true
	}
	return Dimension{}, false
}

// CtyValue converts the dimension back into its wire form.
func (d Dimension) CtyValue() cty.Value {
	if d.Unit == UnitPercent {
		return cty.StringVal(d.String())
	}
	return cty.NumberVal(big.NewFloat(d.Value))
}

// Insets holds per-side lengths.
type Insets struct {
	Top, Right, Bottom, Left Dimension
}

// IsZero reports all-zero insets.
func (i Insets) IsZero() bool {
	return i.Top.IsZero() && i.Right.IsZero() && i.Bottom.IsZero() && i.Left.IsZero()
}
