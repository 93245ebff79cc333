package editorial

import (
	"strconv"
	"strings"
)

// ResolveSlug returns base when it is not taken, otherwise base-N for the
// smallest N >= 2 not in taken.
func ResolveSlug(base string, taken []string) string {
	used := make(map[int]bool, len(taken))
	baseTaken := false
	prefix := base + "-"
	for _, slug := range taken {
		if slug == base {
			baseTaken = true
			continue
		}
		suffix, ok := strings.CutPrefix(slug, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 2 || strconv.Itoa(n) != suffix {
			continue
		}
		used[n] = true
	}

	if !baseTaken {
		return base
	}
	for n := 2; ; n++ {
		if !used[n] {
			return prefix + strconv.Itoa(n)
		}
	}
}
