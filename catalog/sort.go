package catalog

import (
	"sort"
	"strings"
)

// SortOption is a catalog ordering offered to buyers.
type SortOption struct {
	Key   string
	Label string
}

// SortOptions lists the accepted sort keys. The first one is the default.
var SortOptions = []SortOption{
	{"featured", "Featured"},
	{"newest", "Newest"},
	{"bestselling", "Best Selling"},
	{"highest-rated", "Highest Rated"},
	{"price-low", "Price: Low to High"},
	{"price-high", "Price: High to Low"},
}

// NormalizeSort maps unknown keys to the default.
func NormalizeSort(key string) string {
	for _, o := range SortOptions {
		if o.Key == key {
			return key
		}
	}
	return SortOptions[0].Key
}

// SortProjects returns a sorted copy of projects. Ties keep their input order.
func SortProjects(projects []Project, key string) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)

	var less func(a, b Project) bool
	switch NormalizeSort(key) {
	case "newest":
		less = func(a, b Project) bool { return a.DateAdded.After(b.DateAdded) }
	case "bestselling":
		less = func(a, b Project) bool { return a.Sales > b.Sales }
	case "highest-rated":
		less = func(a, b Project) bool { return a.Rating > b.Rating }
	case "price-low":
		less = func(a, b Project) bool { return a.Price < b.Price }
	case "price-high":
		less = func(a, b Project) bool { return a.Price > b.Price }
	default:
		less = func(a, b Project) bool { return a.IsFeatured && !b.IsFeatured }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Categories returns the distinct non-empty categories of projects, sorted.
func Categories(projects []Project) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range projects {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsCategory reports whether name is one of CategoryNames.
func IsCategory(name string) bool {
	for _, c := range CategoryNames {
		if c == name {
			return true
		}
	}
	return false
}
