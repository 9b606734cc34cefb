package resilience

import "golang.org/x/sync/singleflight"

// Group deduplicates concurrent calls for the same key and keeps the result typed.
type Group[T any] struct {
	g singleflight.Group
}

func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	v, err, shared := g.g.Do(key, func() (any, error) {
		return fn()
	})
	out, _ := v.(T)
	return out, err, shared
}

// Forget drops an in-flight key so the next call starts a fresh load.
func (g *Group[T]) Forget(key string) {
	g.g.Forget(key)
}
