package pools

import (
	"strings"
	"testing"
)

func TestBuilderPoolResets(t *testing.T) {
	pool := NewBuilderPool(32)

	b := GetBuilderFromPool(pool)
	b.WriteString("<svg>")
	ReturnBuilderToPool(pool, b)

	again := GetBuilderFromPool(pool)
	if again.Len() != 0 {
		t.Errorf("builder from pool has %d bytes, want 0", again.Len())
	}
}

func TestReturnBuilderDropsOversized(t *testing.T) {
	pool := NewBuilderPool(0)
	big := &strings.Builder{}
	big.Grow(maxPooledBuilder * 2)

	// must not panic and must not hand the big builder back out
	ReturnBuilderToPool(pool, big)
	if got := GetBuilderFromPool(pool); got == big {
		t.Error("oversized builder was pooled")
	}
}

func TestGlobalPoolsStringSlice(t *testing.T) {
	s := Pools.GetStringSlice()
	s = append(s, "a", "b")
	Pools.ReturnStringSlice(s)

	if got := Pools.GetStringSlice(); len(got) != 0 {
		t.Errorf("slice from pool has len %d, want 0", len(got))
	}
}

func TestGlobalPoolsReset(t *testing.T) {
	Pools.Reset()
	b := Pools.GetSVGBuilder()
	if b.Len() != 0 {
		t.Errorf("fresh SVG builder has %d bytes", b.Len())
	}
	Pools.ReturnSVGBuilder(b)
}

func BenchmarkSVGBuilder(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sb := Pools.GetSVGBuilder()
		sb.WriteString("<rect/>")
		Pools.ReturnSVGBuilder(sb)
	}
}
