package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"squotato-backend/internal/auth"
	"squotato-backend/internal/middleware"
	"squotato-backend/internal/models"
	"squotato-backend/internal/notify"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserStore is the part of the user repository the handlers need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AttemptStore records auth attempts for per-email rate limiting.
type AttemptStore interface {
	Record(ctx context.Context, email, kind string) error
	CountRecentByEmail(ctx context.Context, email string, duration time.Duration) (int64, error)
}

type AuthHandler struct {
	users     UserStore
	attempts  AttemptStore
	notifier  notify.Notifier
	jwtSecret string
}

func NewAuthHandler(users UserStore, attempts AttemptStore, notifier notify.Notifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:     users,
		attempts:  attempts,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

// --- Request / Response types ---

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Rate limiting: max 10 attempts per email in 10 minutes
const (
	maxAuthAttempts   = 10
	authAttemptWindow = 10 * time.Minute
)

// --- POST /auth/signup ---

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !auth.ValidEmail(req.Email) {
		writeAuthError(w, auth.NewError(auth.CodeInvalidEmail, "a valid email address is required"))
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeAuthError(w, auth.NewError(auth.CodeWeakPassword, "password must be at least 6 characters"))
		return
	}

	if !h.allowAttempt(w, r, req.Email, models.AttemptSignUp) {
		return
	}

	existing, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking email: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if existing != nil {
		writeAuthError(w, auth.NewError(auth.CodeEmailInUse, "an account with this email already exists"))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		// Default username from the email local part
		username, _, _ = strings.Cut(req.Email, "@")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	user := &models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a signup race on the unique email index
			writeAuthError(w, auth.NewError(auth.CodeEmailInUse, "an account with this email already exists"))
			return
		}
		log.Printf("Error creating user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Welcome email in a background goroutine (non-blocking, best-effort)
	go func() {
		subject, html := notify.WelcomeEmail(user.Username)
		if err := h.notifier.Send(context.Background(), user.Email, subject, html); err != nil {
			log.Printf("Error sending welcome email: %v", err)
		}
	}()

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// --- POST /auth/signin ---

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !auth.ValidEmail(req.Email) {
		writeAuthError(w, auth.NewError(auth.CodeInvalidEmail, "a valid email address is required"))
		return
	}

	if !h.allowAttempt(w, r, req.Email, models.AttemptSignIn) {
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if user == nil {
		writeAuthError(w, auth.NewError(auth.CodeUserNotFound, "no account with this email"))
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeAuthError(w, auth.NewError(auth.CodeWrongPassword, "wrong password"))
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// --- GET /auth/session ---
// The server-side analog of an auth state listener: clients call it with
// their stored token to learn who (if anyone) is signed in.

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

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

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// --- Helpers ---

// allowAttempt enforces the per-email rate limit and records the attempt.
// Returns false after writing the too-many-requests response.
func (h *AuthHandler) allowAttempt(w http.ResponseWriter, r *http.Request, email, kind string) bool {
	count, err := h.attempts.CountRecentByEmail(r.Context(), email, authAttemptWindow)
	if err != nil {
		log.Printf("Error checking rate limit: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return false
	}
	if count >= maxAuthAttempts {
		writeAuthError(w, auth.NewError(auth.CodeTooManyRequests, "too many attempts, please try again later"))
		return false
	}
	if err := h.attempts.Record(r.Context(), email, kind); err != nil {
		log.Printf("Error recording auth attempt: %v", err)
	}
	return true
}

func (h *AuthHandler) signToken(user *models.User) (string, error) {
	// JWT with 30-day expiry
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func writeAuthError(w http.ResponseWriter, err *auth.Error) {
	writeJSON(w, auth.HTTPStatus(err.Code), err)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
