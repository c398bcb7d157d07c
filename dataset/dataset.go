package dataset

// Severity is the crash outcome category shown on the grid rows
type Severity string

const (
	PropertyDamage Severity = "property damage crash"
	Injury         Severity = "injury crash"
	Fatal          Severity = "fatal crash"
)

// Lighting is the ambient lighting classification shown on the grid columns
type Lighting string

const (
	DarkLighted    Lighting = "dark-lighted"
	DarkNotLighted Lighting = "dark-not lighted"
	DarkUnknown    Lighting = "dark-unknown lighting"
	Dawn           Lighting = "dawn"
	Daylight       Lighting = "daylight"
	Dusk           Lighting = "dusk"
	Unknown        Lighting = "unknown"
)

// DataPoint is one (severity, lighting, frequency) triple
type DataPoint struct {
	Severity  Severity `json:"severity" yaml:"severity"`
	Lighting  Lighting `json:"lighting" yaml:"lighting"`
	Frequency int      `json:"frequency" yaml:"frequency"`
}

// Row order top to bottom, column order left to right.
var (
	rowLabels = []Severity{PropertyDamage, Injury, Fatal}
	colLabels = []Lighting{DarkLighted, DarkNotLighted, DarkUnknown, Dawn, Daylight, Dusk, Unknown}
)

var points = []DataPoint{
	{Fatal, DarkLighted, 185},
	{Injury, DarkLighted, 14983},
	{PropertyDamage, DarkLighted, 27812},
	{Fatal, DarkNotLighted, 44},
	{Injury, DarkNotLighted, 1885},
	{PropertyDamage, DarkNotLighted, 3597},
	{Fatal, DarkUnknown, 15},
	{Injury, DarkUnknown, 429},
	{PropertyDamage, DarkUnknown, 1236},
	{Fatal, Dawn, 11},
	{Injury, Dawn, 1267},
	{PropertyDamage, Dawn, 2370},
	{Fatal, Daylight, 200},
	{Injury, Daylight, 46945},
	{PropertyDamage, Daylight, 80386},
	{Fatal, Dusk, 19},
	{Injury, Dusk, 1459},
	{PropertyDamage, Dusk, 2664},
	{Fatal, Unknown, 0},
	{Injury, Unknown, 167},
	{PropertyDamage, Unknown, 971},
}

// key is the exact-label lookup key; built once, the table never changes
type key struct {
	row string
	col string
}

var index = func() map[key]DataPoint {
	m := make(map[key]DataPoint, len(points))
	for _, p := range points {
		m[key{string(p.Severity), string(p.Lighting)}] = p
	}
	return m
}()

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	_, ok := RowIndex(string(s))
	return ok
}

// Valid reports whether l is one of the known lighting conditions
func (l Lighting) Valid() bool {
	_, ok := ColumnIndex(string(l))
	return ok
}

// Points returns a copy of the full dataset in its original order
func Points() []DataPoint {
	out := make([]DataPoint, len(points))
	copy(out, points)
	return out
}

// Len returns the number of data points
func Len() int {
	return len(points)
}

// RowLabels returns the ordered row labels
func RowLabels() []string {
	out := make([]string, len(rowLabels))
	for i, s := range rowLabels {
		out[i] = string(s)
	}
	return out
}

// ColumnLabels returns the ordered column labels
func ColumnLabels() []string {
	out := make([]string, len(colLabels))
	for i, l := range colLabels {
		out[i] = string(l)
	}
	return out
}

// RowIndex returns the grid row of a severity label
func RowIndex(label string) (int, bool) {
	for i, s := range rowLabels {
		if string(s) == label {
			return i, true
		}
	}
	return 0, false
}

// ColumnIndex returns the grid column of a lighting label
func ColumnIndex(label string) (int, bool) {
	for i, l := range colLabels {
		if string(l) == label {
			return i, true
		}
	}
	return 0, false
}

// Lookup finds the data point matching both labels exactly.
// A miss is not an error; callers drop the combination.
func Lookup(row, col string) (DataPoint, bool) {
	p, ok := index[key{row, col}]
	return p, ok
}

// Max returns the largest frequency in the dataset
func Max() int {
	var m int
	for _, p := range points {
		if p.Frequency > m {
			m = p.Frequency
		}
	}
	return m
}

// Total returns the sum of all frequencies
func Total() int {
	var t int
	for _, p := range points {
		t += p.Frequency
	}
	return t
}
