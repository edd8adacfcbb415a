package variable

import (
	"math"
	"strconv"
	"strings"
)

// Cell is the tri-representation scalar backing a Variable.
type Cell struct {
	String string
	Int    int
	Float  float64
}

// Equal reports whether all three representations match.
func (c Cell) Equal(o Cell) bool {
	return c.String == o.String && c.Int == o.Int && c.Float == o.Float
}

// parseCell derives a cell from its string representation. Numeric fields are
// zero for non-numeric types and for strings that do not parse.
func parseCell(t Type, s string) Cell {
	c := Cell{String: s}
	if !t.IsNumeric() {
		return c
	}
	if t == Integer {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0); err == nil {
			c.Int = int(i)
			c.Float = float64(i)
			return c
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return c
	}
	c.Float = f
	c.Int = truncInt(f)
	return c
}

func intCell(i int) Cell {
	return Cell{String: strconv.Itoa(i), Int: i, Float: float64(i)}
}

func floatCell(f float64) Cell {
	return Cell{String: formatFloat(f), Int: truncInt(f), Float: f}
}

func boolCell(b bool) Cell {
	if b {
		return Cell{String: "1", Int: 1, Float: 1}
	}
	return Cell{String: "0"}
}

// truncInt truncates f toward zero, saturating at the int range. NaN is 0.
func truncInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= -float64(math.MinInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(math.Trunc(f))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
