package quotes

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"strings"

	"squotato-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrEmptyText     = errors.New("quote text is required")
	ErrInvalidRating = errors.New("invalid rating")
	ErrQuoteNotFound = errors.New("quote not found")
)

// VoteState is the rating a user currently holds on a quote.
type VoteState string

const (
	StateNone     VoteState = "none"
	StateLiked    VoteState = "liked"
	StateDisliked VoteState = "disliked"
)

// QuoteStore is the slice of the quote collection the service needs.
type QuoteStore interface {
	FindAll(ctx context.Context) ([]models.Quote, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) error
	ApplyCounterDeltas(ctx context.Context, id bson.ObjectID, likes, dislikes int64) error
	CountSeed(ctx context.Context) (int64, error)
}

// VoteStore is the slice of the vote collection the service needs.
type VoteStore interface {
	FindByUserAndQuote(ctx context.Context, userID, quoteID bson.ObjectID) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Service holds the selection and vote-toggle logic. It owns no state of its
// own beyond the injected stores and random source.
type Service struct {
	quotes  QuoteStore
	votes   VoteStore
	randInt func(n int64) int64
}

func NewService(quotes QuoteStore, votes VoteStore) *Service {
	return &Service{
		quotes:  quotes,
		votes:   votes,
		randInt: rand.Int64N,
	}
}

// Random returns a weighted-random quote. A fetch failure or an empty
// collection both degrade to a uniform pick from the built-in pool; neither
// is an error to the caller.
func (s *Service) Random(ctx context.Context) models.Quote {
	all, err := s.quotes.FindAll(ctx)
	if err != nil {
		log.Printf("Error loading quotes, falling back to built-in pool: %v", err)
		return s.placeholder()
	}
	if len(all) == 0 {
		return s.placeholder()
	}
	return pickWeighted(all, s.randInt)
}

// Get loads one quote by id.
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*models.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	return quote, nil
}

func (s *Service) placeholder() models.Quote {
	pool := Placeholders()
	return pool[s.randInt(int64(len(pool)))]
}

// Toggle applies, retracts, or switches a user's rating on a quote:
//
//   - same rating again: retract (counter -1, vote record deleted)
//   - different rating: switch (both counter deltas in one update, record
//     replaced)
//   - no current vote: apply (counter +1, vote record created)
//
// Counters move first, then the vote records. If a record write fails the
// counter deltas that are no longer backed by a record are reversed; the
// reversal itself failing is logged and leaves the stores diverged until a
// later toggle on the same pair corrects them.
func (s *Service) Toggle(ctx context.Context, userID, quoteID bson.ObjectID, rating models.Rating) (VoteState, error) {
	if !rating.Valid() {
		return "", ErrInvalidRating
	}

	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return "", err
	}
	if quote == nil {
		return "", ErrQuoteNotFound
	}

	existing, err := s.votes.FindByUserAndQuote(ctx, userID, quoteID)
	if err != nil {
		return "", err
	}

	switch {
	case existing != nil && existing.Rating == rating:
		return s.retract(ctx, quoteID, existing)
	case existing != nil:
		return s.switchRating(ctx, userID, quoteID, existing, rating)
	default:
		return s.apply(ctx, userID, quoteID, rating)
	}
}

func (s *Service) retract(ctx context.Context, quoteID bson.ObjectID, existing *models.Vote) (VoteState, error) {
	likes, dislikes := counterDeltas(existing.Rating, -1)
	if err := s.quotes.ApplyCounterDeltas(ctx, quoteID, likes, dislikes); err != nil {
		return "", err
	}
	if err := s.votes.Delete(ctx, existing.ID); err != nil {
		s.compensate(ctx, quoteID, -likes, -dislikes)
		return "", err
	}
	return StateNone, nil
}

func (s *Service) switchRating(ctx context.Context, userID, quoteID bson.ObjectID, existing *models.Vote, rating models.Rating) (VoteState, error) {
	oldLikes, oldDislikes := counterDeltas(existing.Rating, -1)
	newLikes, newDislikes := counterDeltas(rating, 1)

	// Both deltas ride one update so the counters never reflect old and new
	// rating at the same time.
	if err := s.quotes.ApplyCounterDeltas(ctx, quoteID, oldLikes+newLikes, oldDislikes+newDislikes); err != nil {
		return "", err
	}

	if err := s.votes.Delete(ctx, existing.ID); err != nil {
		s.compensate(ctx, quoteID, -(oldLikes + newLikes), -(oldDislikes + newDislikes))
		return "", err
	}

	vote := &models.Vote{UserID: userID, QuoteID: quoteID, Rating: rating}
	if err := s.votes.Create(ctx, vote); err != nil {
		// The old record is already gone, so only the new rating's +1 is
		// unbacked at this point.
		s.compensate(ctx, quoteID, -newLikes, -newDislikes)
		return "", err
	}
	return stateFor(rating), nil
}

func (s *Service) apply(ctx context.Context, userID, quoteID bson.ObjectID, rating models.Rating) (VoteState, error) {
	likes, dislikes := counterDeltas(rating, 1)
	if err := s.quotes.ApplyCounterDeltas(ctx, quoteID, likes, dislikes); err != nil {
		return "", err
	}

	vote := &models.Vote{UserID: userID, QuoteID: quoteID, Rating: rating}
	if err := s.votes.Create(ctx, vote); err != nil {
		s.compensate(ctx, quoteID, -likes, -dislikes)
		return "", err
	}
	return stateFor(rating), nil
}

func (s *Service) compensate(ctx context.Context, quoteID bson.ObjectID, likes, dislikes int64) {
	if err := s.quotes.ApplyCounterDeltas(ctx, quoteID, likes, dislikes); err != nil {
		log.Printf("Error compensating counters on quote %s (likes %+d, dislikes %+d): %v",
			quoteID.Hex(), likes, dislikes, err)
	}
}

// Submit validates and stores a user-contributed quote with zero counters.
func (s *Service) Submit(ctx context.Context, userID bson.ObjectID, username, text, author string) (*models.Quote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = username
	}
	if author == "" {
		author = "Anonymous"
	}

	quote := &models.Quote{
		Text:      text,
		Author:    author,
		Custom:    true,
		CreatedBy: userID,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Seed inserts the built-in quote pool on first startup. Re-running against
// an already seeded collection is a no-op.
func (s *Service) Seed(ctx context.Context) error {
	count, err := s.quotes.CountSeed(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, q := range Placeholders() {
		quote := q
		if err := s.quotes.Create(ctx, &quote); err != nil {
			return err
		}
	}
	return nil
}

func counterDeltas(rating models.Rating, delta int64) (likes, dislikes int64) {
	if rating == models.RatingLike {
		return delta, 0
	}
	return 0, delta
}

func stateFor(rating models.Rating) VoteState {
	if rating == models.RatingLike {
		return StateLiked
	}
	return StateDisliked
}
