package handlers

import (
	"context"
	"log"
	"net/http"

	"squotato-backend/internal/middleware"
	"squotato-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SubscriptionStore manages daily quote email opt-ins.
type SubscriptionStore interface {
	Upsert(ctx context.Context, userID bson.ObjectID, email string) error
	Delete(ctx context.Context, userID bson.ObjectID) error
}

type NotificationHandler struct {
	subs  SubscriptionStore
	users UserStore
}

func NewNotificationHandler(subs SubscriptionStore, users UserStore) *NotificationHandler {
	return &NotificationHandler{
		subs:  subs,
		users: users,
	}
}

// --- POST /notifications/subscribe ---

func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.subs.Upsert(r.Context(), user.ID, user.Email); err != nil {
		log.Printf("Error creating subscription: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to subscribe"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "subscribed to the daily quote"})
}

// --- DELETE /notifications/subscribe ---

func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.subs.Delete(r.Context(), user.ID); err != nil {
		log.Printf("Error deleting subscription: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to unsubscribe"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "unsubscribed from the daily quote"})
}

func (h *NotificationHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return nil, false
	}

	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return nil, false
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return nil, false
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown user"})
		return nil, false
	}

	return user, true
}
