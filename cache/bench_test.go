package cache

import (
	"fmt"
	"testing"
	"time"
)

// BenchmarkFIFOCache_Get_Hit measures cache hit performance.
func BenchmarkFIFOCache_Get_Hit(b *testing.B) {
	c, _ := NewFIFOCache[string](1024, time.Hour)
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("key")
	}
}

// BenchmarkFIFOCache_Set_Evicting measures inserts into a full cache.
func BenchmarkFIFOCache_Set_Evicting(b *testing.B) {
	c, _ := NewFIFOCache[string](128, time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i), "value")
	}
}
