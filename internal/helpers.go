package internal

import "strconv"

// ContextValue returns the request-scoped value stored under key, or the zero
// value of T when it is absent or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns the URL parameter converted to T. The second result is false
// when the parameter is missing or does not parse.
func Param[T ~string | ~int](c Context, name string) (T, bool) {
	return convertParam[T](c.Param(name))
}

func convertParam[T ~string | ~int](raw string) (T, bool) {
	var zero T
	if raw == "" {
		return zero, false
	}
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
