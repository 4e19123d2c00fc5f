// internal/matching/scorer_test.go
package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tradenet/portal-backend/internal/models"
)

func wishRecord(title string, productID *uuid.UUID, productCode string) Record {
	return Record{
		ID:          uuid.New(),
		Kind:        KindWish,
		ListingType: models.ListingTypeProduct,
		Status:      models.ListingStatusPending,
		Title:       title,
		ProductID:   productID,
		ProductCode: productCode,
		Email:       "wish@example.com",
	}
}

func offerRecord(title string, productID *uuid.UUID, productCode string) Record {
	r := wishRecord(title, productID, productCode)
	r.Kind = KindOffer
	r.Email = "offer@example.com"
	return r
}

func TestScoreExactProductMatch(t *testing.T) {
	productID := uuid.New()
	wish := wishRecord("Organic Tea", &productID, "0902")
	offer := offerRecord("Organic Tea", &productID, "0902")

	// 50 exact + 20 full title similarity over the 70 denominator
	assert.Equal(t, 100, Score(wish, offer))
}

func TestScoreExactMatchDominatesDissimilarTitles(t *testing.T) {
	productID := uuid.New()
	wish := wishRecord("abc", &productID, "")
	offer := offerRecord("xyz", &productID, "")

	// Identity alone contributes 50/70, so even unrelated titles clear 71.
	assert.GreaterOrEqual(t, Score(wish, offer), 71)
}

func TestScoreCategoryMatch(t *testing.T) {
	wishProduct := uuid.New()
	offerProduct := uuid.New()
	wish := wishRecord("Green Tea", &wishProduct, "0902")
	offer := offerRecord("Green Tea", &offerProduct, "0902")

	// 30 category + 20 title similarity over 70
	assert.Equal(t, 71, Score(wish, offer))
}

func TestScoreCategoryNotAddedOnTopOfExact(t *testing.T) {
	productID := uuid.New()
	withCode := Score(
		wishRecord("Green Tea", &productID, "0902"),
		offerRecord("Green Tea", &productID, "0902"),
	)
	withoutCode := Score(
		wishRecord("Green Tea", &productID, ""),
		offerRecord("Green Tea", &productID, ""),
	)

	// The identity branch wins; the shared code contributes nothing extra.
	assert.Equal(t, withoutCode, withCode)
}

func TestScoreListingTypeMismatch(t *testing.T) {
	productID := uuid.New()
	wish := wishRecord("Organic Tea", &productID, "0902")
	offer := offerRecord("Organic Tea", &productID, "0902")
	offer.ListingType = models.ListingTypeService

	assert.Equal(t, 0, Score(wish, offer))
}

func TestScoreNoSignalAtAll(t *testing.T) {
	wish := wishRecord("abc", nil, "")
	offer := offerRecord("xyz", nil, "")

	assert.Equal(t, 0, Score(wish, offer))
}

func TestScoreSimilarTitlesSameProduct(t *testing.T) {
	productID := uuid.New()
	wish := wishRecord("Organic Tea Export", &productID, "0902")
	offer := offerRecord("Organic Tea Import", &productID, "0902")

	score := Score(wish, offer)
	assert.GreaterOrEqual(t, score, 85)
	assert.LessOrEqual(t, score, 97)
	assert.Greater(t, score, PublicationThreshold)
}

func TestScoreSymmetricInValues(t *testing.T) {
	productID := uuid.New()
	a := wishRecord("Organic Tea Export", &productID, "0902")
	b := offerRecord("Tea Trading Services", &productID, "0902")

	forward := Score(a, b)

	// Swap the payloads across the kinds
	a2 := wishRecord(b.Title, b.ProductID, b.ProductCode)
	b2 := offerRecord(a.Title, a.ProductID, a.ProductCode)
	reverse := Score(a2, b2)

	assert.Equal(t, forward, reverse)
}

func TestScoreNilIdentityNeverMatches(t *testing.T) {
	wish := wishRecord("abc", nil, "")
	offer := offerRecord("xyz", nil, "")

	// Two nil product IDs are not the same product.
	assert.False(t, sameIdentity(wish.ProductID, offer.ProductID))
	// Two empty codes are not the same category.
	assert.False(t, sameCode(wish.ProductCode, offer.ProductCode))
}

func TestTitleSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, TitleSimilarity("Organic Tea", "organic tea"), 0.0001)
	assert.InDelta(t, 0.0, TitleSimilarity("abc", "xyz"), 0.0001)
	assert.InDelta(t, 0.0, TitleSimilarity("", ""), 0.0001)

	// "organic tea export" vs "organic tea import": shared prefix plus the
	// common "port" run, 32 of 36 runes.
	sim := TitleSimilarity("Organic Tea Export", "Organic Tea Import")
	assert.InDelta(t, 32.0/36.0, sim, 0.0001)

	// Symmetric
	assert.Equal(t,
		TitleSimilarity("Green Tea Wholesale", "Wholesale Tea"),
		TitleSimilarity("Wholesale Tea", "Green Tea Wholesale"),
	)
}
