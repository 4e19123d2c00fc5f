// internal/matching/scorer.go
package matching

import (
	"math"

	"github.com/google/uuid"
)

// Scoring weights. Exact and category matches are mutually exclusive; the
// normalization denominator nevertheless always assumes the larger of the
// two was eligible, so it is fixed at 70. That asymmetry is intentional
// behavior of the scoring scheme and must not be changed on its own.
const (
	exactMatchWeight      = 50.0
	categoryMatchWeight   = 30.0
	titleSimilarityWeight = 20.0

	// PublicationThreshold is the score a pair must exceed before a Match
	// row is materialized and the parties are notified.
	PublicationThreshold = 80
)

// Score computes the compatibility score between a wish and an offer as an
// integer in [0,100]. Pairs of differing listing types score 0 and are
// never eligible.
func Score(wish, offer Record) int {
	if wish.ListingType != offer.ListingType {
		return 0
	}

	score := 0.0
	switch {
	case sameIdentity(wish.ProductID, offer.ProductID) || sameIdentity(wish.ServiceID, offer.ServiceID):
		score += exactMatchWeight
	case sameCode(wish.ProductCode, offer.ProductCode) || sameCode(wish.ServiceCode, offer.ServiceCode):
		score += categoryMatchWeight
	}

	score += TitleSimilarity(wish.Title, offer.Title) * titleSimilarityWeight

	maxScore := math.Max(exactMatchWeight, categoryMatchWeight) + titleSimilarityWeight
	if maxScore == 0 {
		return 0
	}

	return int(math.Round(score / maxScore * 100))
}

func sameIdentity(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}

func sameCode(a, b string) bool {
	return a != "" && b != "" && a == b
}
