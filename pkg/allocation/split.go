package allocation

import "math/rand"

// EqualSplit divides total into n integer buckets summing exactly to total:
// every bucket gets the even share and the remainder is spread one unit at a
// time, then the buckets are shuffled to avoid positional bias.
func EqualSplit(rng *rand.Rand, n int, total Quantity) []Quantity {
	if n <= 0 {
		return nil
	}
	out := make([]Quantity, n)
	base := total / Quantity(n)
	rem := int(total % Quantity(n))
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// RandomSplit divides total into n buckets with higher per-bucket variance:
// uniform weights scaled to the total and floored, with the rounding
// shortfall handed out to random buckets. The exact-sum invariant matches
// EqualSplit.
func RandomSplit(rng *rand.Rand, n int, total Quantity) []Quantity {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = rng.Float64()
		sum += weights[i]
	}
	out := make([]Quantity, n)
	var assigned Quantity
	if sum > 0 {
		for i := range out {
			out[i] = Quantity(float64(total) * weights[i] / sum)
			assigned += out[i]
		}
	}
	for assigned < total {
		out[rng.Intn(n)]++
		assigned++
	}
	return out
}
