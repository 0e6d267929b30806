package style

// Direction is the main axis of a flex container.
type Direction string

const (
	DirectionRow    Direction = "row"
	DirectionColumn Direction = "column"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case DirectionRow, DirectionColumn:
		return d, true
	}
	return "", false
}

// Justify is flex-box main-axis alignment.
type Justify string

const (
	JustifyStart        Justify = "flex-start"
	JustifyCenter       Justify = "center"
	JustifyEnd          Justify = "flex-end"
	JustifySpaceBetween Justify = "space-between"
	JustifySpaceAround  Justify = "space-around"
	JustifySpaceEvenly  Justify = "space-evenly"
)

// ParseJustify validates a justifyContent value.
func ParseJustify(s string) (Justify, bool) {
	switch j := Justify(s); j {
	case JustifyStart, JustifyCenter, JustifyEnd, JustifySpaceBetween, JustifySpaceAround, JustifySpaceEvenly:
		return j, true
	}
	return "", false
}

// Align is flex-box cross-axis alignment.
type Align string

const (
	AlignStart    Align = "flex-start"
	AlignCenter   Align = "center"
	AlignEnd      Align = "flex-end"
	AlignStretch  Align = "stretch"
	AlignBaseline Align = "baseline"
)

// ParseAlign validates an alignItems value.
func ParseAlign(s string) (Align, bool) {
	switch a := Align(s); a {
	case AlignStart, AlignCenter, AlignEnd, AlignStretch, AlignBaseline:
		return a, true
	}
	return "", false
}

// Position selects the positioning scheme.
type Position string

const (
	PositionRelative Position = "relative"
	PositionAbsolute Position = "absolute"
)

// ParsePosition validates a position value.
func ParsePosition(s string) (Position, bool) {
	switch p := Position(s); p {
	case PositionRelative, PositionAbsolute:
		return p, true
	}
	return "", false
}
