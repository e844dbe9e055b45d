package domain

// Sources of an expected-life figure, in fallback order.
const (
	ExpectedSourcePart     = "part"
	ExpectedSourceCategory = "category"
	ExpectedSourceMedian   = "median"
	ExpectedSourceUnknown  = "unknown"
)

// ResolveExpectedLife resolves the expected life of a part: the part's own
// override wins, then the category default table, then the learned median
// of observed deltas. Returns nil with source "unknown" when nothing
// applies.
func ResolveExpectedLife(part *SparePart, categoryKm map[string]int64, stat *SparePartLifeStat) (*int64, string) {
	if part.ExpectedLifeKm != nil && *part.ExpectedLifeKm > 0 {
		km := *part.ExpectedLifeKm
		return &km, ExpectedSourcePart
	}
	if km, ok := categoryKm[part.Category]; ok && km > 0 {
		return &km, ExpectedSourceCategory
	}
	if stat != nil && stat.MedianDeltaKm != nil && *stat.MedianDeltaKm > 0 {
		km := *stat.MedianDeltaKm
		return &km, ExpectedSourceMedian
	}
	return nil, ExpectedSourceUnknown
}
