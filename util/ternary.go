package util

// Generic stand-in for the ternary operator other languages have.
// i.e. in C++: x = cond ? a : b
func Tern[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}
