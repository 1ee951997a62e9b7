package classify

import "strings"

// ReadingLevel holds the two reading-difficulty estimates for a record.
type ReadingLevel struct {
	ARBand     string // Accelerated Reader band, e.g. "5.0-8.0"
	LexileBand string // Lexile-equivalent band, e.g. "700L-1000L"
}

// childrenMarkers flag a category tag as juvenile content.
var childrenMarkers = []string{"juvenile", "children", "kids"}

// levelBucket rows form the fixed lookup table keyed by
// (is_childrens, page_count bucket).
type levelBucket struct {
	maxPages int // exclusive upper bound; 0 means no bound
	level    ReadingLevel
}

var childrenBuckets = []levelBucket{
	{50, ReadingLevel{"1.0-2.5", "200L-400L"}},
	{100, ReadingLevel{"2.5-4.0", "400L-600L"}},
	{0, ReadingLevel{"4.0-6.0", "600L-800L"}},
}

var adultBuckets = []levelBucket{
	{100, ReadingLevel{"3.0-5.0", "500L-700L"}},
	{200, ReadingLevel{"4.0-6.0", "600L-900L"}},
	{300, ReadingLevel{"5.0-8.0", "700L-1000L"}},
	{500, ReadingLevel{"6.0-9.0", "800L-1100L"}},
	{0, ReadingLevel{"7.0-12.0", "900L-1300L"}},
}

// GenerateReadingLevel estimates AR and Lexile bands from page count and
// category signals. Content is classified as children's when any category
// tag contains a juvenile marker; unknown page counts (zero) fall into
// the lowest bucket.
func GenerateReadingLevel(pageCount int, maturityRating string, categories []string) ReadingLevel {
	buckets := adultBuckets
	if isChildrens(categories) {
		buckets = childrenBuckets
	}

	for _, b := range buckets {
		if b.maxPages == 0 || pageCount < b.maxPages {
			return b.level
		}
	}
	// Unreachable: the last bucket is unbounded.
	return buckets[len(buckets)-1].level
}

func isChildrens(categories []string) bool {
	for _, category := range categories {
		c := strings.ToLower(category)
		for _, marker := range childrenMarkers {
			if strings.Contains(c, marker) {
				return true
			}
		}
	}
	return false
}
