package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"squotato-backend/internal/middleware"
	"squotato-backend/internal/models"
	"squotato-backend/internal/quotes"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ToggleOpStore dedups vote toggles by idempotency key.
type ToggleOpStore interface {
	Create(ctx context.Context, op *models.ToggleOp) error
	FindByIdempotencyKey(ctx context.Context, key string) (*models.ToggleOp, error)
}

type QuoteHandler struct {
	service   *quotes.Service
	users     UserStore
	toggleOps ToggleOpStore
}

func NewQuoteHandler(service *quotes.Service, users UserStore, toggleOps ToggleOpStore) *QuoteHandler {
	return &QuoteHandler{
		service:   service,
		users:     users,
		toggleOps: toggleOps,
	}
}

type SubmitQuoteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type VoteRequest struct {
	Rating         models.Rating `json:"rating"`
	IdempotencyKey string        `json:"idempotency_key"`
}

type VoteResponse struct {
	State          quotes.VoteState `json:"state"`
	Likes          int64            `json:"likes"`
	Dislikes       int64            `json:"dislikes"`
	IdempotencyKey string           `json:"idempotency_key"`
}

// --- GET /quotes/random ---

func (h *QuoteHandler) GetRandom(w http.ResponseWriter, r *http.Request) {
	quote := h.service.Random(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"quote": quote})
}

// --- POST /quotes ---

func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// The author default chain wants the submitter's username.
	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown user"})
		return
	}

	quote, err := h.service.Submit(r.Context(), userID, user.Username, req.Text, req.Author)
	if err != nil {
		if errors.Is(err, quotes.ErrEmptyText) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quote text is required"})
			return
		}
		log.Printf("Error creating quote: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add quote"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "quote added successfully",
		"quote":   quote,
	})
}

// --- POST /quotes/{id}/vote ---

func (h *QuoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	quoteID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid quote ID"})
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !req.Rating.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be 'like' or 'dislike'"})
		return
	}

	// Idempotency check — a double-clicked toggle replays the recorded
	// outcome instead of mutating twice.
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	} else {
		prior, err := h.toggleOps.FindByIdempotencyKey(r.Context(), key)
		if err != nil {
			log.Printf("Error checking idempotency: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		if prior != nil {
			h.replay(w, r, prior, key)
			return
		}
	}

	state, err := h.service.Toggle(r.Context(), userID, quoteID, req.Rating)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "quote not found"})
			return
		}
		log.Printf("Error toggling vote: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record vote"})
		return
	}

	op := &models.ToggleOp{
		IdempotencyKey: key,
		UserID:         userID,
		QuoteID:        quoteID,
		Rating:         req.Rating,
		Outcome:        string(state),
	}
	if err := h.toggleOps.Create(r.Context(), op); err != nil {
		// The toggle already happened; losing the dedup record only costs
		// replay protection for this key.
		log.Printf("Error recording toggle op: %v", err)
	}

	h.respondVote(w, r, quoteID, state, key)
}

// replay answers a duplicate toggle with its originally recorded outcome.
func (h *QuoteHandler) replay(w http.ResponseWriter, r *http.Request, prior *models.ToggleOp, key string) {
	h.respondVote(w, r, prior.QuoteID, quotes.VoteState(prior.Outcome), key)
}

func (h *QuoteHandler) respondVote(w http.ResponseWriter, r *http.Request, quoteID bson.ObjectID, state quotes.VoteState, key string) {
	resp := VoteResponse{State: state, IdempotencyKey: key}
	if quote, err := h.service.Get(r.Context(), quoteID); err == nil {
		resp.Likes = quote.Likes
		resp.Dislikes = quote.Dislikes
	} else {
		log.Printf("Error reloading quote counters: %v", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireUserID resolves the authenticated user id or answers 401 with a
// sign-in hint, matching the redirect-to-auth behavior of the UI.
func (h *QuoteHandler) requireUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
			"hint":  "sign in to vote or submit quotes",
		})
		return bson.ObjectID{}, false
	}
	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return bson.ObjectID{}, false
	}
	return userID, true
}
