package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/infra/logging"
	"tiered-subscription-service/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func loginHandler(auth *usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		token, err := auth.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{
			AccessToken: token.Token,
			TokenType:   "bearer",
			ExpiresAt:   token.ExpiresAt,
		})
	}
}

type subscriptionCreateRequest struct {
	Tier string `json:"tier"`
}

type subscriptionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func subscriptionCreateHandler(subs *usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := logging.UserID(r.Context())

		var req subscriptionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := subs.CreateSubscription(r.Context(), userID, req.Tier)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

func subscriptionGetHandler(subs *usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := logging.UserID(r.Context())

		sub, err := subs.GetSubscription(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		// Do not leak other users' records.
		if sub.UserID != userID {
			writeDomainError(w, domain.ErrSubscriptionNotFound)
			return
		}
		writeJSON(w, http.StatusOK, subscriptionResponse{
			ID:        sub.ID,
			UserID:    sub.UserID,
			Tier:      sub.TierName,
			Status:    string(sub.Status),
			CreatedAt: sub.CreatedAt,
		})
	}
}

func subscriptionCancelHandler(subs *usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := logging.UserID(r.Context())
		id := r.PathValue("id")

		sub, err := subs.GetSubscription(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if sub.UserID != userID {
			writeDomainError(w, domain.ErrSubscriptionNotFound)
			return
		}
		if err := subs.CancelSubscription(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

type upgradeRequest struct {
	NewTier string `json:"new_tier"`
}

func subscriptionUpgradeHandler(subs *usecase.SubscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := logging.UserID(r.Context())
		id := r.PathValue("id")

		var req upgradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sub, err := subs.GetSubscription(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if sub.UserID != userID {
			writeDomainError(w, domain.ErrSubscriptionNotFound)
			return
		}
		if err := subs.UpgradeTier(r.Context(), id, req.NewTier); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "upgraded", "tier": req.NewTier})
	}
}

func entitlementHandler(ent *usecase.EntitlementUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := logging.UserID(r.Context())
		feature := r.URL.Query().Get("feature")
		if feature == "" {
			writeError(w, http.StatusBadRequest, "feature query parameter is required")
			return
		}
		if err := ent.Authorize(r.Context(), userID, feature); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"feature": feature, "granted": true})
	}
}

func statsHandler(ent *usecase.EntitlementUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := ent.Stats(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps each error kind to its own status. Collapsing
// distinct outcomes into one generic status loses the information callers
// need to decide between retry, refund and surfacing to the user.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotSubscribed),
		errors.Is(err, domain.ErrFeatureUnavailable):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrSubscriptionNotFound),
		errors.Is(err, domain.ErrTierNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateActiveSubscription),
		errors.Is(err, domain.ErrAlreadyCancelled):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidUpgrade),
		errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSubscriptionCreationFailed),
		errors.Is(err, domain.ErrCancellationFailed),
		errors.Is(err, domain.ErrUpgradeFailed):
		status = http.StatusBadGateway
	}
	writeError(w, status, err.Error())
}
