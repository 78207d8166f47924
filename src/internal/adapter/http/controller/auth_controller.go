package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type AuthController struct {
	service service_interfaces.AuthService
}

func NewAuthController(service service_interfaces.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/verify-card", c.verifyCard)
	r.Post("/api/auth/verify-pin", c.verifyPin)
	r.Post("/api/auth/change-pin", c.changePin)
}

func (c *AuthController) verifyCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VerifyCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.VerifyCardResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.VerifyCard(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *AuthController) verifyPin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AuthResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.VerifyPin(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *AuthController) changePin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ChangePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ChangePinResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.ChangePin(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}
