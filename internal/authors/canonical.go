package authors

import "strings"

// SelectCanonical picks the display name for a cluster: the member
// with the fewest characters, preferring members whose tokens are all
// spelled out over abbreviated ones ("John Smith" beats the shorter
// "J Smith"). Ties break on first-encountered order, which the member
// slice already carries.
func SelectCanonical(cluster Cluster) string {
	best := ""
	bestFull := false
	for _, member := range cluster.Members {
		full := !hasInitialToken(member)
		switch {
		case best == "":
			best, bestFull = member, full
		case full && !bestFull:
			best, bestFull = member, full
		case full == bestFull && len(member) < len(best):
			best = member
		}
	}
	return best
}

func hasInitialToken(name string) bool {
	for _, token := range strings.Fields(name) {
		if len([]rune(token)) == 1 {
			return true
		}
	}
	return false
}
