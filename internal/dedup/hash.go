package dedup

import (
	"crypto/sha256"
	"strings"
)

// ContentHash hashes article text for the resume ledger. Whitespace
// runs are collapsed and case is folded first, so cosmetic re-scrapes
// of the same article keep the same hash.
func ContentHash(text string) []byte {
	collapsed := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(collapsed))
	return sum[:]
}
