// internal/matching/matcher.go
package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tradenet/portal-backend/internal/models"
)

// Matcher runs the pairwise scoring pass that follows every wish or offer
// save. The pass is synchronous: the saved record's match_percentage
// reflects the result before the triggering request returns.
type Matcher struct {
	store    Store
	notifier Notifier
}

func NewMatcher(store Store, notifier Notifier) *Matcher {
	return &Matcher{
		store:    store,
		notifier: notifier,
	}
}

// FindMatchesForWish scores the wish against every pending offer of the
// same listing type and returns the positive-scoring candidates in
// descending score order. A non-pending wish yields no candidates.
func (m *Matcher) FindMatchesForWish(ctx context.Context, wishID uuid.UUID) ([]Candidate, error) {
	wish, err := m.store.GetWish(ctx, wishID)
	if err != nil {
		return nil, fmt.Errorf("load wish: %w", err)
	}
	return m.findMatches(ctx, *wish)
}

// FindMatchesForOffer is the reverse direction of FindMatchesForWish.
func (m *Matcher) FindMatchesForOffer(ctx context.Context, offerID uuid.UUID) ([]Candidate, error) {
	offer, err := m.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("load offer: %w", err)
	}
	return m.findMatches(ctx, *offer)
}

func (m *Matcher) findMatches(ctx context.Context, rec Record) ([]Candidate, error) {
	if rec.Status != models.ListingStatusPending {
		return nil, nil
	}

	counterparts, err := m.listCounterparts(ctx, rec)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, other := range counterparts {
		if other.ListingType != rec.ListingType {
			continue
		}
		score := m.scorePair(rec, other)
		if score > 0 {
			candidates = append(candidates, Candidate{Record: other, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}

// OnWishSaved runs the full matching pass for a just-saved wish. A pass
// already active on this call chain is a nested save and is suppressed.
func (m *Matcher) OnWishSaved(ctx context.Context, wishID uuid.UUID) error {
	if passActive(ctx, KindWish) {
		return nil
	}
	ctx = withPassActive(withPassActive(ctx, KindWish), KindOffer)

	wish, err := m.store.GetWish(ctx, wishID)
	if err != nil {
		return fmt.Errorf("load wish: %w", err)
	}

	if err := m.updateMatchPercentages(ctx, *wish); err != nil {
		return err
	}
	return m.updateHighestMatchPercentage(ctx, *wish)
}

// OnOfferSaved is the reverse-direction trigger.
func (m *Matcher) OnOfferSaved(ctx context.Context, offerID uuid.UUID) error {
	if passActive(ctx, KindOffer) {
		return nil
	}
	ctx = withPassActive(withPassActive(ctx, KindWish), KindOffer)

	offer, err := m.store.GetOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("load offer: %w", err)
	}

	if err := m.updateMatchPercentages(ctx, *offer); err != nil {
		return err
	}
	return m.updateHighestMatchPercentage(ctx, *offer)
}

// updateMatchPercentages is the primary pass. Every candidate above the
// publication threshold persists a Match row; no existence check is made,
// so re-saving an unchanged record inserts duplicate rows for pairs that
// already matched. Independently, the best candidate of the pass (even at
// or below the threshold) is written back to match_percentage on both
// sides when it beats the stored value.
func (m *Matcher) updateMatchPercentages(ctx context.Context, rec Record) error {
	candidates, err := m.findMatches(ctx, rec)
	if err != nil {
		return err
	}

	best := 0
	var bestCounterpart *Record

	for i := range candidates {
		c := candidates[i]

		if c.Score > PublicationThreshold {
			wish, offer := orient(rec, c.Record)
			if err := m.store.CreateMatch(ctx, wish.ID, offer.ID, c.Score); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"wish_id":  wish.ID,
					"offer_id": offer.ID,
				}).Warn("Failed to persist match, skipping pair")
				continue
			}

			if err := m.notifier.SendMatchEmail(ctx, wish, offer, c.Score); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"wish_id":  wish.ID,
					"offer_id": offer.ID,
				}).Warn("Match notification failed")
			}
		}

		if c.Score > best {
			best = c.Score
			bestCounterpart = &candidates[i].Record
		}
	}

	if bestCounterpart != nil && best > rec.MatchPercentage {
		if err := m.writeBackPercentages(ctx, rec, *bestCounterpart, best); err != nil {
			return err
		}
	}

	return nil
}

// updateHighestMatchPercentage is a discrete second sweep over the
// opposite pending set, guarding against the primary pass having run
// against a stale stored percentage.
func (m *Matcher) updateHighestMatchPercentage(ctx context.Context, rec Record) error {
	current, err := m.reload(ctx, rec)
	if err != nil {
		return err
	}
	if current.Status != models.ListingStatusPending {
		return nil
	}

	counterparts, err := m.listCounterparts(ctx, *current)
	if err != nil {
		return err
	}

	best := current.MatchPercentage
	var bestCounterpart *Record

	for i := range counterparts {
		other := counterparts[i]
		if other.ListingType != current.ListingType {
			continue
		}
		if score := m.scorePair(*current, other); score > best {
			best = score
			bestCounterpart = &counterparts[i]
		}
	}

	if bestCounterpart == nil {
		return nil
	}
	return m.writeBackPercentages(ctx, *current, *bestCounterpart, best)
}

// scorePair never aborts the pass: a panic while scoring one pair is
// swallowed and the pair treated as non-matching.
func (m *Matcher) scorePair(rec, other Record) (score int) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"record_id":      rec.ID,
				"counterpart_id": other.ID,
				"panic":          r,
			}).Warn("Scoring failed for pair, skipping")
			score = 0
		}
	}()

	wish, offer := orient(rec, other)
	return Score(wish, offer)
}

func (m *Matcher) writeBackPercentages(ctx context.Context, rec, counterpart Record, score int) error {
	if err := m.store.SetMatchPercentage(ctx, rec.Kind, rec.ID, score); err != nil {
		return fmt.Errorf("update match percentage: %w", err)
	}
	if err := m.store.SetMatchPercentage(ctx, counterpart.Kind, counterpart.ID, score); err != nil {
		return fmt.Errorf("update counterpart match percentage: %w", err)
	}
	return nil
}

func (m *Matcher) listCounterparts(ctx context.Context, rec Record) ([]Record, error) {
	if rec.Kind == KindWish {
		records, err := m.store.ListPendingOffers(ctx, rec.ListingType)
		if err != nil {
			return nil, fmt.Errorf("list pending offers: %w", err)
		}
		return records, nil
	}

	records, err := m.store.ListPendingWishes(ctx, rec.ListingType)
	if err != nil {
		return nil, fmt.Errorf("list pending wishes: %w", err)
	}
	return records, nil
}

func (m *Matcher) reload(ctx context.Context, rec Record) (*Record, error) {
	if rec.Kind == KindWish {
		return m.store.GetWish(ctx, rec.ID)
	}
	return m.store.GetOffer(ctx, rec.ID)
}

// orient returns the pair in (wish, offer) order regardless of which side
// triggered the pass.
func orient(a, b Record) (wish, offer Record) {
	if a.Kind == KindWish {
		return a, b
	}
	return b, a
}
