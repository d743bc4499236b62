package ports

// CategoryCounts maps category name -> canonical keyword -> mention count.
// Only keywords with a non-zero count are present.
type CategoryCounts map[string]map[string]int

// Add increments the count for a canonical keyword within a category.
func (c CategoryCounts) Add(category, canonical string, n int) {
	if n <= 0 {
		return
	}
	inner := c[category]
	if inner == nil {
		inner = make(map[string]int)
		c[category] = inner
	}
	inner[canonical] += n
}

// CategoryMatcher counts category keyword mentions in an accumulated text buffer.
//
// Every configured variant of a keyword (aliases, plural forms) folds into the
// keyword's canonical form. Within one keyword entry matches never overlap and
// earlier variants win at the same position, so callers list longer phrases
// first. Entries are counted independently of one another, even when the same
// keyword appears in several categories.
//
// Implementations must be safe for concurrent Match calls: the batch category
// pass runs one Match per entity on a worker pool against a shared matcher.
type CategoryMatcher interface {
	Match(text string) CategoryCounts
}
