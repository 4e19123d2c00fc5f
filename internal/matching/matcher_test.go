// internal/matching/matcher_test.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/tradenet/portal-backend/internal/models"
)

type fakeStore struct {
	wishes  map[uuid.UUID]*Record
	offers  map[uuid.UUID]*Record
	matches []createdMatch

	getWishCalls int
}

type createdMatch struct {
	wishID  uuid.UUID
	offerID uuid.UUID
	score   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wishes: make(map[uuid.UUID]*Record),
		offers: make(map[uuid.UUID]*Record),
	}
}

func (s *fakeStore) addWish(r Record) *Record {
	r.Kind = KindWish
	s.wishes[r.ID] = &r
	return s.wishes[r.ID]
}

func (s *fakeStore) addOffer(r Record) *Record {
	r.Kind = KindOffer
	s.offers[r.ID] = &r
	return s.offers[r.ID]
}

func (s *fakeStore) GetWish(ctx context.Context, id uuid.UUID) (*Record, error) {
	s.getWishCalls++
	if r, ok := s.wishes[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, errors.New("wish not found")
}

func (s *fakeStore) GetOffer(ctx context.Context, id uuid.UUID) (*Record, error) {
	if r, ok := s.offers[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, errors.New("offer not found")
}

func (s *fakeStore) ListPendingWishes(ctx context.Context, t models.ListingType) ([]Record, error) {
	var out []Record
	for _, r := range s.wishes {
		if r.Status == models.ListingStatusPending && r.ListingType == t {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) ListPendingOffers(ctx context.Context, t models.ListingType) ([]Record, error) {
	var out []Record
	for _, r := range s.offers {
		if r.Status == models.ListingStatusPending && r.ListingType == t {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateMatch(ctx context.Context, wishID, offerID uuid.UUID, score int) error {
	s.matches = append(s.matches, createdMatch{wishID: wishID, offerID: offerID, score: score})
	return nil
}

func (s *fakeStore) SetMatchPercentage(ctx context.Context, kind RecordKind, id uuid.UUID, score int) error {
	if kind == KindWish {
		if r, ok := s.wishes[id]; ok {
			r.MatchPercentage = score
			return nil
		}
		return errors.New("wish not found")
	}
	if r, ok := s.offers[id]; ok {
		r.MatchPercentage = score
		return nil
	}
	return errors.New("offer not found")
}

type fakeNotifier struct {
	sent    []int
	failAll bool
}

func (n *fakeNotifier) SendMatchEmail(ctx context.Context, wish, offer Record, score int) error {
	if n.failAll {
		return fmt.Errorf("smtp unavailable")
	}
	n.sent = append(n.sent, score)
	return nil
}

type MatcherTestSuite struct {
	suite.Suite
	store    *fakeStore
	notifier *fakeNotifier
	matcher  *Matcher
}

func (suite *MatcherTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.notifier = &fakeNotifier{}
	suite.matcher = NewMatcher(suite.store, suite.notifier)
}

func (suite *MatcherTestSuite) TestHighScoringPairCreatesMatchAndNotifies() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea Export", &productID, "0902"))
	offer := suite.store.addOffer(offerRecord("Organic Tea Import", &productID, "0902"))

	err := suite.matcher.OnWishSaved(context.Background(), wish.ID)
	suite.NoError(err)

	suite.Len(suite.store.matches, 1)
	suite.Equal(wish.ID, suite.store.matches[0].wishID)
	suite.Equal(offer.ID, suite.store.matches[0].offerID)
	suite.Greater(suite.store.matches[0].score, PublicationThreshold)
	suite.Len(suite.notifier.sent, 1)
}

func (suite *MatcherTestSuite) TestResaveInsertsDuplicateMatchRows() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea Export", &productID, "0902"))
	suite.store.addOffer(offerRecord("Organic Tea Import", &productID, "0902"))

	suite.NoError(suite.matcher.OnWishSaved(context.Background(), wish.ID))
	suite.NoError(suite.matcher.OnWishSaved(context.Background(), wish.ID))

	// No dedup: each pass inserts its own row for the same pair.
	suite.Len(suite.store.matches, 2)
}

func (suite *MatcherTestSuite) TestBelowThresholdUpdatesPercentageWithoutMatch() {
	wishProduct := uuid.New()
	offerProduct := uuid.New()
	wish := suite.store.addWish(wishRecord("Green Tea", &wishProduct, "0902"))
	offer := suite.store.addOffer(offerRecord("Green Tea", &offerProduct, "0902"))

	// Category + full title similarity scores 71, under the threshold.
	suite.NoError(suite.matcher.OnWishSaved(context.Background(), wish.ID))

	suite.Empty(suite.store.matches)
	suite.Empty(suite.notifier.sent)
	suite.Equal(71, suite.store.wishes[wish.ID].MatchPercentage)
	suite.Equal(71, suite.store.offers[offer.ID].MatchPercentage)
}

func (suite *MatcherTestSuite) TestStoredPercentageNeverDecreases() {
	wishProduct := uuid.New()
	offerProduct := uuid.New()
	wish := wishRecord("Green Tea", &wishProduct, "0902")
	wish.MatchPercentage = 90
	stored := suite.store.addWish(wish)
	suite.store.addOffer(offerRecord("Green Tea", &offerProduct, "0902"))

	// Best candidate scores 71; the stored 90 stands.
	suite.NoError(suite.matcher.OnWishSaved(context.Background(), stored.ID))

	suite.Equal(90, suite.store.wishes[stored.ID].MatchPercentage)
}

func (suite *MatcherTestSuite) TestNonPendingRecordProducesNoCandidates() {
	productID := uuid.New()
	wish := wishRecord("Organic Tea", &productID, "0902")
	wish.Status = models.ListingStatusAccepted
	stored := suite.store.addWish(wish)
	offer := suite.store.addOffer(offerRecord("Organic Tea", &productID, "0902"))

	suite.NoError(suite.matcher.OnWishSaved(context.Background(), stored.ID))

	// Neither pass may touch a non-pending record: no match rows, no
	// percentage write-back on either side.
	suite.Empty(suite.store.matches)
	suite.Zero(suite.store.wishes[stored.ID].MatchPercentage)
	suite.Zero(suite.store.offers[offer.ID].MatchPercentage)
	suite.Empty(suite.notifier.sent)
}

func (suite *MatcherTestSuite) TestNonPendingCounterpartsAreExcluded() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea", &productID, "0902"))
	offer := offerRecord("Organic Tea", &productID, "0902")
	offer.Status = models.ListingStatusRejected
	suite.store.addOffer(offer)

	suite.NoError(suite.matcher.OnWishSaved(context.Background(), wish.ID))

	suite.Empty(suite.store.matches)
}

func (suite *MatcherTestSuite) TestListingTypeMismatchExcluded() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea", &productID, "0902"))
	offer := offerRecord("Organic Tea", &productID, "0902")
	offer.ListingType = models.ListingTypeService
	suite.store.addOffer(offer)

	candidates, err := suite.matcher.FindMatchesForWish(context.Background(), wish.ID)
	suite.NoError(err)
	suite.Empty(candidates)
}

func (suite *MatcherTestSuite) TestActivePassSuppressesNestedTrigger() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea", &productID, "0902"))

	ctx := withPassActive(context.Background(), KindWish)
	suite.NoError(suite.matcher.OnWishSaved(ctx, wish.ID))

	// Suppressed before any store access.
	suite.Zero(suite.store.getWishCalls)
}

func (suite *MatcherTestSuite) TestNotifierFailureDoesNotAbortPass() {
	suite.notifier.failAll = true

	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea Export", &productID, "0902"))
	suite.store.addOffer(offerRecord("Organic Tea Import", &productID, "0902"))

	suite.NoError(suite.matcher.OnWishSaved(context.Background(), wish.ID))

	// The match row persists even though the email never went out.
	suite.Len(suite.store.matches, 1)
	suite.Greater(suite.store.wishes[wish.ID].MatchPercentage, PublicationThreshold)
}

func (suite *MatcherTestSuite) TestCandidatesSortedByScoreDescending() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea Export", &productID, "0902"))

	exact := offerRecord("Organic Tea Import", &productID, "0902")
	otherProduct := uuid.New()
	category := offerRecord("Organic Tea Import", &otherProduct, "0902")
	suite.store.addOffer(exact)
	suite.store.addOffer(category)

	candidates, err := suite.matcher.FindMatchesForWish(context.Background(), wish.ID)
	suite.NoError(err)
	suite.Len(candidates, 2)
	suite.GreaterOrEqual(candidates[0].Score, candidates[1].Score)
	suite.Equal(exact.ID, candidates[0].Record.ID)
}

func (suite *MatcherTestSuite) TestOfferSideTriggerMirrorsWishSide() {
	productID := uuid.New()
	wish := suite.store.addWish(wishRecord("Organic Tea Export", &productID, "0902"))
	offer := suite.store.addOffer(offerRecord("Organic Tea Import", &productID, "0902"))

	suite.NoError(suite.matcher.OnOfferSaved(context.Background(), offer.ID))

	suite.Len(suite.store.matches, 1)
	// Rows are always oriented wish -> offer regardless of trigger side.
	suite.Equal(wish.ID, suite.store.matches[0].wishID)
	suite.Equal(offer.ID, suite.store.matches[0].offerID)
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

func TestOrient(t *testing.T) {
	w := Record{Kind: KindWish}
	o := Record{Kind: KindOffer}

	gotW, gotO := orient(o, w)
	assert.Equal(t, KindWish, gotW.Kind)
	assert.Equal(t, KindOffer, gotO.Kind)
}
