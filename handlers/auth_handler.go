package handlers

import (
	"fmt"
	"net/http"

	"github.com/papaya-padel/tournament-system/models"
	"github.com/papaya-padel/tournament-system/services"
)

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthHandler struct {
	authService services.AuthService
	tokens      TokenIssuer
}

func NewAuthHandler(authService services.AuthService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

// Register
// @Summary Регистрация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "token и user"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 409 {object} map[string]string "Email уже используется"
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Сразу выдаем токен, отдельный вход не нужен.
	token, err := h.tokens.Issue(user)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login
// @Summary Вход и получение JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Email и пароль"
// @Success 200 {object} map[string]interface{} "token и user"
// @Failure 401 {object} map[string]string "Неверные учетные данные"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
