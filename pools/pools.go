package pools

import (
	"strings"
	"sync"
)

// NewBuilderPool creates a string builder pool whose builders start with the
// given capacity
func NewBuilderPool(capacity int) *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			builder := &strings.Builder{}
			builder.Grow(capacity)
			return builder
		},
	}
}

// GetBuilderFromPool gets a string builder from the pool and resets it
func GetBuilderFromPool(pool *sync.Pool) *strings.Builder {
	builder := pool.Get().(*strings.Builder)
	builder.Reset()
	return builder
}

// ReturnBuilderToPool returns a string builder to the pool. Oversized
// builders are dropped to prevent memory bloat.
func ReturnBuilderToPool(pool *sync.Pool, builder *strings.Builder) {
	if builder.Cap() > maxPooledBuilder {
		return
	}
	pool.Put(builder)
}

const maxPooledBuilder = 1 << 16

// GlobalPools provides centralized memory pooling for hot render paths
type GlobalPools struct {
	SVGBuilders  sync.Pool
	StringSlices sync.Pool
}

// Pools is the global instance of memory pools
var Pools = &GlobalPools{
	SVGBuilders: sync.Pool{
		New: func() interface{} {
			builder := &strings.Builder{}
			builder.Grow(8192) // a full 3x7 frame with legend
			return builder
		},
	},
	StringSlices: sync.Pool{
		New: func() interface{} {
			slice := make([]string, 0, 16)
			return &slice
		},
	},
}

// GetSVGBuilder gets a string builder from the pool for SVG documents
func (gp *GlobalPools) GetSVGBuilder() *strings.Builder {
	return GetBuilderFromPool(&gp.SVGBuilders)
}

// ReturnSVGBuilder returns a string builder to the pool
func (gp *GlobalPools) ReturnSVGBuilder(builder *strings.Builder) {
	ReturnBuilderToPool(&gp.SVGBuilders, builder)
}

// GetStringSlice gets a string slice from the pool and resets it
func (gp *GlobalPools) GetStringSlice() []string {
	slicePtr := gp.StringSlices.Get().(*[]string)
	*slicePtr = (*slicePtr)[:0]
	return *slicePtr
}

// ReturnStringSlice returns a string slice to the pool
func (gp *GlobalPools) ReturnStringSlice(slice []string) {
	if cap(slice) < 256 {
		emptySlice := slice[:0]
		gp.StringSlices.Put(&emptySlice)
	}
}

// Reset clears all pools (useful for testing)
func (gp *GlobalPools) Reset() {
	gp.SVGBuilders = sync.Pool{New: gp.SVGBuilders.New}
	gp.StringSlices = sync.Pool{New: gp.StringSlices.New}
}
