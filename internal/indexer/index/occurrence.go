package index

// Occurrence records how many times a keyword appears in one document. The
// document identifier never changes; the frequency is only mutated while the
// owning document is being scanned, never after the Occurrence has been
// merged into the index.
type Occurrence struct {
	Document  string `json:"document"`
	Frequency int    `json:"frequency"`
}

// InsertLast repositions the final element of occs into its correct place in
// the descending-frequency order maintained over occs[0:n-1]. The insertion
// point is found by binary search over the sorted prefix; on an exact
// frequency match the search stops and the element is inserted before the
// matched entry, so a later-merged document lands ahead of earlier ones in
// its frequency tier.
//
// The returned trace is the ordered sequence of midpoint indexes the search
// probed, nil when the slice has fewer than two elements. It exists for
// verification and is not used elsewhere.
func InsertLast(occs []Occurrence) ([]Occurrence, []int) {
	n := len(occs)
	if n <= 1 {
		return occs, nil
	}

	last := occs[n-1]
	var trace []int

	low, high := 0, n-2
	insertAt := -1
	for low <= high {
		mid := (low + high) / 2
		trace = append(trace, mid)
		switch {
		case last.Frequency < occs[mid].Frequency:
			low = mid + 1
		case last.Frequency > occs[mid].Frequency:
			high = mid - 1
		default:
			insertAt = mid
		}
		if insertAt >= 0 {
			break
		}
	}
	if insertAt < 0 {
		insertAt = low
	}

	copy(occs[insertAt+1:], occs[insertAt:n-1])
	occs[insertAt] = last
	return occs, trace
}
