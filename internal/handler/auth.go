package handler

import (
	"net/http"

	"github.com/premiumclub/portal/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Gender     string `json:"gender"`
	Password   string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	result := h.Sessions.Login(r.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.OK {
		writeJSON(w, loginFailureStatus(result.Failure), result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func loginFailureStatus(failure domain.LoginFailure) int {
	switch failure {
	case domain.FailureUnavailable:
		return http.StatusBadGateway
	case domain.FailureSuperseded:
		return http.StatusConflict
	default:
		return http.StatusUnauthorized
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.Sessions.Register(r.Context(), domain.Registration{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Gender:     req.Gender,
		Password:   req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout()
	w.Header().Set("Location", "/login")
	w.WriteHeader(http.StatusNoContent)
}
