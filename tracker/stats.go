package tracker

import "math"

// ComputeStats derives the summary counters from the catalog and overlay.
// Overlay entries whose id is no longer in the catalog are inert: they count
// toward neither the read total nor the rating average. The average is
// rounded to one decimal place; no ratings yields 0.0.
func ComputeStats(c *Catalog, o Overlay) Stats {
	s := Stats{Total: c.Len()}

	for id := range o.ReadIDs {
		if _, ok := c.Get(id); ok {
			s.Read++
		}
	}

	var sum, n int
	for id, r := range o.Ratings {
		if _, ok := c.Get(id); !ok {
			continue
		}
		sum += r
		n++
	}
	if n > 0 {
		s.AvgUserRating = math.Round(float64(sum)/float64(n)*10) / 10
	}
	return s
}
