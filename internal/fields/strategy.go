package fields

// Strategy is one named step of a fallback chain.
type Strategy[T any] struct {
	Name string
	Fn   func(T) string
}

// Cascade evaluates strategies in order and returns the first non-empty
// value together with the name of the strategy that produced it. When all of
// them come up empty it returns "", "".
func Cascade[T any](in T, strategies ...Strategy[T]) (string, string) {
	for _, s := range strategies {
		if s.Fn == nil {
			continue
		}
		if v := s.Fn(in); v != "" {
			return v, s.Name
		}
	}
	return "", ""
}

// Const is a strategy that always yields v; used as the last resort of a chain.
func Const[T any](name, v string) Strategy[T] {
	return Strategy[T]{Name: name, Fn: func(T) string { return v }}
}
