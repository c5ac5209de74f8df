package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type AddUserRequest struct {
	Name string `json:"name"`
}

type ClaimRequest struct {
	UserID string `json:"userId"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type ClaimResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

type ClaimHistoryResponse struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Points    int    `json:"points"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	gateway usecase.LeaderboardGateway
}

func NewHandler(gateway usecase.LeaderboardGateway) *Handler {
	return &Handler{gateway: gateway}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/add-user", h.AddUser)
	r.Post("/claim-points", h.ClaimPoints)
	r.Get("/rankings", h.Rankings)
	r.Get("/latest-claim-history", h.LatestClaimHistory)
	r.Get("/", h.Root)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("points-leaderboard API is running"))
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.gateway.AddUser(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			http.Error(w, "name must not be empty", http.StatusBadRequest)
			return
		}
		log.Printf("add user failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) ClaimPoints(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, award, err := h.gateway.ClaimPoints(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingUserID) {
			http.Error(w, "userId is required", http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Printf("claim failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ClaimResponse{
		User:    toUserResponse(user),
		Message: fmt.Sprintf("%d points awarded", award),
	})
}

func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	users, err := h.gateway.Rankings(r.Context())
	if err != nil {
		log.Printf("rankings query failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) LatestClaimHistory(w http.ResponseWriter, r *http.Request) {
	claims, err := h.gateway.RecentClaims(r.Context())
	if err != nil {
		log.Printf("claim history query failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]ClaimHistoryResponse, 0, len(claims))
	for _, c := range claims {
		resp = append(resp, ClaimHistoryResponse{
			UserID:    c.UserID,
			UserName:  c.UserName,
			Points:    c.Points,
			Timestamp: c.ClaimedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Points: u.Points,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
