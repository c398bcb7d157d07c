package colorscale

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultMin   = 0
	DefaultMax   = 80000
	DefaultLight = "lightblue"
	DefaultDark  = "darkblue"
)

// Scale maps a frequency onto the light→dark colour ramp.
// Values outside [Min, Max] clamp to the nearest end.
type Scale struct {
	Min   float64
	Max   float64
	Light colorful.Color
	Dark  colorful.Color
}

// Default returns the [0, 80000] lightblue→darkblue scale
func Default() Scale {
	s, err := New(DefaultMin, DefaultMax, DefaultLight, DefaultDark)
	if err != nil {
		// both colour names are compiled in
		panic(err)
	}
	return s
}

// New builds a scale from a domain and two colour specs
func New(min, max float64, light, dark string) (Scale, error) {
	if !(max > min) {
		return Scale{}, fmt.Errorf("scale max (%v) must be greater than min (%v)", max, min)
	}
	lc, err := ParseColor(light)
	if err != nil {
		return Scale{}, fmt.Errorf("light color: %w", err)
	}
	dc, err := ParseColor(dark)
	if err != nil {
		return Scale{}, fmt.Errorf("dark color: %w", err)
	}
	return Scale{Min: min, Max: max, Light: lc, Dark: dc}, nil
}

// ParseColor accepts "#rrggbb" or a CSS/X11 colour name such as "darkblue"
func ParseColor(spec string) (colorful.Color, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return colorful.Color{}, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", spec, err)
		}
		return c, nil
	}
	named, ok := tcell.ColorNames[strings.ToLower(spec)]
	if !ok {
		return colorful.Color{}, fmt.Errorf("unknown color name %q", spec)
	}
	r, g, b := named.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// Normalize returns the clamped position of v within the domain, in [0, 1]
func (s Scale) Normalize(v float64) float64 {
	if s.Max <= s.Min || math.IsNaN(v) {
		return 0
	}
	t := (v - s.Min) / (s.Max - s.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Color interpolates linearly in RGB between Light and Dark
func (s Scale) Color(v float64) colorful.Color {
	return s.Light.BlendRgb(s.Dark, s.Normalize(v))
}

// Hex is Color formatted as "#rrggbb"
func (s Scale) Hex(v float64) string {
	return s.Color(v).Clamped().Hex()
}

// Tick is one labelled axis position
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Ticks returns roughly count evenly spaced round values covering the domain
func (s Scale) Ticks(count int) []Tick {
	values := niceTicks(s.Min, s.Max, count)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Label: fmt.Sprintf("%.0f", v)}
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// niceTicks picks steps of 1, 2 or 5 times a power of ten
func niceTicks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	if stop < start {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, float64(count))
	if i2 < i1 {
		return nil
	}

	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	return out
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && count >= 0.5 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}
