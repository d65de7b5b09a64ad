package quotes

import (
	"context"
	"errors"
	"testing"

	"squotato-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// --- In-memory store fakes ---

type fakeQuoteStore struct {
	order      []bson.ObjectID
	quotes     map[bson.ObjectID]*models.Quote
	nextID     byte
	findAllErr error
	createErr  error
	incErr     error
	incCalls   int
	seedCount  int64
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: map[bson.ObjectID]*models.Quote{}, nextID: 1}
}

func (s *fakeQuoteStore) FindAll(ctx context.Context) ([]models.Quote, error) {
	if s.findAllErr != nil {
		return nil, s.findAllErr
	}
	all := make([]models.Quote, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, *s.quotes[id])
	}
	return all, nil
}

func (s *fakeQuoteStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (s *fakeQuoteStore) Create(ctx context.Context, quote *models.Quote) error {
	if s.createErr != nil {
		return s.createErr
	}
	var id bson.ObjectID
	id[11] = s.nextID
	s.nextID++
	quote.ID = id
	copied := *quote
	s.quotes[id] = &copied
	s.order = append(s.order, id)
	if quote.Seed {
		s.seedCount++
	}
	return nil
}

func (s *fakeQuoteStore) ApplyCounterDeltas(ctx context.Context, id bson.ObjectID, likes, dislikes int64) error {
	s.incCalls++
	if s.incErr != nil {
		return s.incErr
	}
	q, ok := s.quotes[id]
	if !ok {
		return errors.New("no such quote")
	}
	q.Likes += likes
	q.Dislikes += dislikes
	return nil
}

func (s *fakeQuoteStore) CountSeed(ctx context.Context) (int64, error) {
	return s.seedCount, nil
}

type fakeVoteStore struct {
	votes     map[bson.ObjectID]*models.Vote
	nextID    byte
	createErr error
	deleteErr error
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: map[bson.ObjectID]*models.Vote{}, nextID: 100}
}

func (s *fakeVoteStore) FindByUserAndQuote(ctx context.Context, userID, quoteID bson.ObjectID) (*models.Vote, error) {
	for _, v := range s.votes {
		if v.UserID == userID && v.QuoteID == quoteID {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeVoteStore) Create(ctx context.Context, vote *models.Vote) error {
	if s.createErr != nil {
		return s.createErr
	}
	var id bson.ObjectID
	id[11] = s.nextID
	s.nextID++
	vote.ID = id
	copied := *vote
	s.votes[id] = &copied
	return nil
}

func (s *fakeVoteStore) Delete(ctx context.Context, id bson.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.votes, id)
	return nil
}

// --- Test helpers ---

func setupService(t *testing.T) (*Service, *fakeQuoteStore, *fakeVoteStore) {
	t.Helper()
	qs := newFakeQuoteStore()
	vs := newFakeVoteStore()
	return NewService(qs, vs), qs, vs
}

func addQuote(t *testing.T, qs *fakeQuoteStore, likes, dislikes int64) bson.ObjectID {
	t.Helper()
	q := &models.Quote{Text: "test quote", Author: "Tester", Likes: likes, Dislikes: dislikes}
	if err := qs.Create(context.Background(), q); err != nil {
		t.Fatalf("failed to add quote: %v", err)
	}
	return q.ID
}

func userID(n byte) bson.ObjectID {
	var id bson.ObjectID
	id[0] = 0xAA
	id[11] = n
	return id
}

func counters(t *testing.T, qs *fakeQuoteStore, id bson.ObjectID) (likes, dislikes int64) {
	t.Helper()
	q := qs.quotes[id]
	if q == nil {
		t.Fatalf("quote %s missing", id.Hex())
	}
	return q.Likes, q.Dislikes
}

// --- Random ---

func TestRandomReturnsStoredQuote(t *testing.T) {
	svc, qs, _ := setupService(t)
	id := addQuote(t, qs, 3, 1)

	got := svc.Random(context.Background())
	if got.ID != id {
		t.Errorf("Random returned %s, want the only stored quote %s", got.ID.Hex(), id.Hex())
	}
}

func TestRandomEmptySetFallsBackToPlaceholders(t *testing.T) {
	svc, _, _ := setupService(t)

	got := svc.Random(context.Background())
	if got.Text == "" {
		t.Fatal("placeholder quote has empty text")
	}
	found := false
	for _, p := range Placeholders() {
		if p.Text == got.Text {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback quote %q not from the built-in pool", got.Text)
	}
}

func TestRandomFetchErrorFallsBackToPlaceholders(t *testing.T) {
	svc, qs, _ := setupService(t)
	addQuote(t, qs, 0, 0)
	qs.findAllErr = errors.New("network down")

	got := svc.Random(context.Background())
	found := false
	for _, p := range Placeholders() {
		if p.Text == got.Text {
			found = true
		}
	}
	if !found {
		t.Errorf("fetch failure must degrade to the built-in pool, got %q", got.Text)
	}
}

// --- Toggle ---

func TestToggleApply(t *testing.T) {
	tests := []struct {
		name         string
		rating       models.Rating
		wantState    VoteState
		wantLikes    int64
		wantDislikes int64
	}{
		{name: "like", rating: models.RatingLike, wantState: StateLiked, wantLikes: 1, wantDislikes: 0},
		{name: "dislike", rating: models.RatingDislike, wantState: StateDisliked, wantLikes: 0, wantDislikes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, qs, vs := setupService(t)
			quoteID := addQuote(t, qs, 0, 0)

			state, err := svc.Toggle(context.Background(), userID(1), quoteID, tt.rating)
			if err != nil {
				t.Fatalf("Toggle failed: %v", err)
			}
			if state != tt.wantState {
				t.Errorf("state = %s, want %s", state, tt.wantState)
			}
			likes, dislikes := counters(t, qs, quoteID)
			if likes != tt.wantLikes || dislikes != tt.wantDislikes {
				t.Errorf("counters = (%d, %d), want (%d, %d)", likes, dislikes, tt.wantLikes, tt.wantDislikes)
			}
			if len(vs.votes) != 1 {
				t.Errorf("vote records = %d, want 1", len(vs.votes))
			}
		})
	}
}

func TestToggleTwiceRetractsCompletely(t *testing.T) {
	svc, qs, vs := setupService(t)
	quoteID := addQuote(t, qs, 7, 2)
	uid := userID(1)

	for _, want := range []VoteState{StateLiked, StateNone} {
		state, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingLike)
		if err != nil {
			t.Fatalf("Toggle failed: %v", err)
		}
		if state != want {
			t.Errorf("state = %s, want %s", state, want)
		}
	}

	likes, dislikes := counters(t, qs, quoteID)
	if likes != 7 || dislikes != 2 {
		t.Errorf("counters = (%d, %d), want pre-toggle (7, 2)", likes, dislikes)
	}
	if len(vs.votes) != 0 {
		t.Errorf("vote records = %d, want 0 after retraction", len(vs.votes))
	}
}

func TestToggleSwitchRating(t *testing.T) {
	svc, qs, vs := setupService(t)
	quoteID := addQuote(t, qs, 4, 1)
	uid := userID(1)

	if _, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingLike); err != nil {
		t.Fatalf("initial like failed: %v", err)
	}
	state, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingDislike)
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if state != StateDisliked {
		t.Errorf("state = %s, want %s", state, StateDisliked)
	}

	// Relative to pre-switch (5, 1): likes -1, dislikes +1.
	likes, dislikes := counters(t, qs, quoteID)
	if likes != 4 || dislikes != 2 {
		t.Errorf("counters = (%d, %d), want (4, 2)", likes, dislikes)
	}

	if len(vs.votes) != 1 {
		t.Fatalf("vote records = %d, want exactly 1 after switch", len(vs.votes))
	}
	for _, v := range vs.votes {
		if v.Rating != models.RatingDislike {
			t.Errorf("remaining vote rating = %s, want %s", v.Rating, models.RatingDislike)
		}
	}
}

func TestToggleSwitchUsesSingleCounterUpdate(t *testing.T) {
	svc, qs, _ := setupService(t)
	quoteID := addQuote(t, qs, 0, 0)
	uid := userID(1)

	if _, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingLike); err != nil {
		t.Fatalf("initial like failed: %v", err)
	}
	qs.incCalls = 0
	if _, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingDislike); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if qs.incCalls != 1 {
		t.Errorf("counter updates during switch = %d, want 1", qs.incCalls)
	}
}

func TestToggleIndependentUsers(t *testing.T) {
	svc, qs, vs := setupService(t)
	quoteID := addQuote(t, qs, 0, 0)

	if _, err := svc.Toggle(context.Background(), userID(1), quoteID, models.RatingLike); err != nil {
		t.Fatalf("user 1 like failed: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), userID(2), quoteID, models.RatingLike); err != nil {
		t.Fatalf("user 2 like failed: %v", err)
	}

	likes, _ := counters(t, qs, quoteID)
	if likes != 2 {
		t.Errorf("likes = %d, want 2", likes)
	}
	if len(vs.votes) != 2 {
		t.Errorf("vote records = %d, want 2", len(vs.votes))
	}
}

func TestToggleInvalidRating(t *testing.T) {
	svc, qs, _ := setupService(t)
	quoteID := addQuote(t, qs, 0, 0)

	if _, err := svc.Toggle(context.Background(), userID(1), quoteID, models.Rating("potato-ish")); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("err = %v, want ErrInvalidRating", err)
	}
}

func TestToggleUnknownQuote(t *testing.T) {
	svc, _, _ := setupService(t)

	var missing bson.ObjectID
	missing[11] = 0xFF
	if _, err := svc.Toggle(context.Background(), userID(1), missing, models.RatingLike); !errors.Is(err, ErrQuoteNotFound) {
		t.Errorf("err = %v, want ErrQuoteNotFound", err)
	}
}

func TestToggleCompensatesWhenVoteWriteFails(t *testing.T) {
	svc, qs, vs := setupService(t)
	quoteID := addQuote(t, qs, 3, 0)
	vs.createErr = errors.New("write refused")

	if _, err := svc.Toggle(context.Background(), userID(1), quoteID, models.RatingLike); err == nil {
		t.Fatal("Toggle succeeded, want error")
	}

	// The increment must have been reversed.
	likes, dislikes := counters(t, qs, quoteID)
	if likes != 3 || dislikes != 0 {
		t.Errorf("counters = (%d, %d), want untouched (3, 0)", likes, dislikes)
	}
	if len(vs.votes) != 0 {
		t.Errorf("vote records = %d, want 0", len(vs.votes))
	}
}

func TestToggleRetractCompensatesWhenDeleteFails(t *testing.T) {
	svc, qs, vs := setupService(t)
	quoteID := addQuote(t, qs, 0, 0)
	uid := userID(1)

	if _, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingLike); err != nil {
		t.Fatalf("initial like failed: %v", err)
	}
	vs.deleteErr = errors.New("delete refused")

	if _, err := svc.Toggle(context.Background(), uid, quoteID, models.RatingLike); err == nil {
		t.Fatal("retraction succeeded, want error")
	}

	// Counter still matches the surviving vote record.
	likes, _ := counters(t, qs, quoteID)
	if likes != 1 {
		t.Errorf("likes = %d, want 1 (record still active)", likes)
	}
	if len(vs.votes) != 1 {
		t.Errorf("vote records = %d, want 1", len(vs.votes))
	}
}

// --- Submit ---

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		author     string
		username   string
		wantErr    error
		wantAuthor string
	}{
		{name: "explicit author", text: "a quote", author: "Plato", username: "sam", wantAuthor: "Plato"},
		{name: "author defaults to username", text: "a quote", username: "sam", wantAuthor: "sam"},
		{name: "anonymous fallback", text: "a quote", wantAuthor: "Anonymous"},
		{name: "author whitespace trimmed away", text: "a quote", author: "   ", username: "sam", wantAuthor: "sam"},
		{name: "empty text rejected", text: "", wantErr: ErrEmptyText},
		{name: "whitespace-only text rejected", text: "   \t\n", wantErr: ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, qs, _ := setupService(t)

			quote, err := svc.Submit(context.Background(), userID(1), tt.username, tt.text, tt.author)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(qs.order) != 0 {
					t.Error("rejected submission reached the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if quote.Author != tt.wantAuthor {
				t.Errorf("author = %q, want %q", quote.Author, tt.wantAuthor)
			}
			if !quote.Custom {
				t.Error("submitted quote not marked custom")
			}
			if quote.Likes != 0 || quote.Dislikes != 0 {
				t.Error("submitted quote has non-zero counters")
			}
			if quote.CreatedBy != userID(1) {
				t.Error("submitted quote missing created_by")
			}
		})
	}
}

func TestSubmitStoreError(t *testing.T) {
	svc, qs, _ := setupService(t)
	qs.createErr = errors.New("insert refused")

	if _, err := svc.Submit(context.Background(), userID(1), "sam", "text", ""); err == nil {
		t.Fatal("Submit succeeded, want store error")
	}
}

// --- Seed ---

func TestSeedIsIdempotent(t *testing.T) {
	svc, qs, _ := setupService(t)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("first Seed failed: %v", err)
	}
	first := len(qs.order)
	if first != len(Placeholders()) {
		t.Fatalf("seeded %d quotes, want %d", first, len(Placeholders()))
	}

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if len(qs.order) != first {
		t.Errorf("second Seed grew the collection to %d, want %d", len(qs.order), first)
	}
}
