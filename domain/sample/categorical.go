package sample

// Categorical selects a label by cumulative-weight walk: draw r in
// [0,total), walk the entries in list order accumulating their weights, and
// return the first label whose running sum strictly exceeds r. Zero-weight
// entries are never selected. If floating-point drift at the right edge
// leaves no entry above r, the final label is the deterministic fallback.
func Categorical(src Source, weights Weights) (string, error) {
	if err := weights.Validate(); err != nil {
		return "", err
	}

	r := src.Next() * weights.Total()
	cumulative := 0.0
	for _, entry := range weights {
		cumulative += entry.Value
		if cumulative > r {
			return entry.Label, nil
		}
	}
	return weights[len(weights)-1].Label, nil
}
