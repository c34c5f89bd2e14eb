package assert

import (
	"fmt"
	"sync"
)

var (
	mu    sync.Mutex
	depth int
)

// NotCircular panics when singleton factories call back into each other during init.
func NotCircular() {
	mu.Lock()
	defer mu.Unlock()
	depth++
	if depth > 64 {
		panic("circular singleton initialization detected")
	}
	depth--
}

// NotNil panics when a required value is missing after initialization.
func NotNil(v interface{}) {
	if v == nil {
		panic(fmt.Sprintf("assert: value must not be nil (%T)", v))
	}
}
