package course

// SetRandIntn replaces the random source of course & classroom codes until reset is called.
func SetRandIntn(f func(n int) int) (reset func()) {
	orig := randIntn
	randIntn = f
	return func() { randIntn = orig }
}
