package cache_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/memoize/cache"
)

func ExampleNewFIFOCache() {
	c, err := cache.NewFIFOCache[string](2, time.Minute)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	c.Set("a", "first")
	c.Set("b", "second")
	c.Set("c", "third") // evicts a

	_, ok := c.Get("a")
	fmt.Println("a present:", ok)
	fmt.Println("keys:", c.Keys())
	// Output:
	// a present: false
	// keys: [b c]
}

func ExampleFIFOCache_Clear() {
	c, _ := cache.NewFIFOCache[int](10, time.Minute)
	c.Set("x", 1)
	c.Set("y", 2)

	c.Clear()
	fmt.Println("size:", c.Size())
	// Output:
	// size: 0
}
