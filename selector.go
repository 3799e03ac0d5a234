package statebox

// Selector derives a value from a state. Selectors must be pure: no side
// effects and no state of their own. They run on every applied mutation for
// every subscription, so they should be cheap, and they must not call back
// into the store they select from.
//
// A selector that derives a fresh slice or map on each call never compares
// equal with ==; subscribe to such selectors with [SubscribeFunc] and an
// element-wise equality, or select the underlying stable reference instead.
type Selector[S, T any] func(S) T

// Identity returns a selector that yields the state itself.
func Identity[S any]() Selector[S, S] {
	return func(s S) S { return s }
}

// Map returns a selector that applies f to the output of sel.
func Map[S, A, B any](sel Selector[S, A], f func(A) B) Selector[S, B] {
	return func(s S) B {
		return f(sel(s))
	}
}

// Combine returns a selector deriving one value from two others.
//
// Subscribers of the combined selector are notified only when the combined
// output changes, even if both inputs did:
//
//	total := statebox.Combine(selectCount1, selectCount2, func(a, b int) int {
//	    return a + b
//	})
func Combine[S, A, B, R any](a Selector[S, A], b Selector[S, B], f func(A, B) R) Selector[S, R] {
	return func(s S) R {
		return f(a(s), b(s))
	}
}
