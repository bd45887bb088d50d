package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"bankingProject/config"
	"bankingProject/services"
	"bankingProject/utils"

	"github.com/golang-jwt/jwt/v5"
)

// AuthController обрабатывает регистрацию и вход пользователей
type AuthController struct {
	userService  *services.UserService
	emailService *services.EmailService
	config       *config.Config
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   uint   `json:"userId"`
}

type AuthResponse struct {
	Token Token `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(userService *services.UserService, emailService *services.EmailService, cfg *config.Config) *AuthController {
	return &AuthController{
		userService:  userService,
		emailService: emailService,
		config:       cfg,
	}
}

// SignUp обрабатывает регистрацию пользователя
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем пользователя
	user, err := c.userService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	// Отправляем приветственное письмо, ошибка не прерывает регистрацию
	if err := c.emailService.SendWelcomeNotification(user.Email, user.Username); err != nil {
		log.Printf("Ошибка отправки приветственного письма: %v", err)
	}

	// Генерация JWT токена
	token, err := c.generateToken(user.ID, user.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := AuthResponse{Token: *token}
	response.User.ID = user.ID
	response.User.Username = user.Username
	response.User.Email = user.Email

	writeJSON(w, http.StatusCreated, response)
}

// SignIn обрабатывает вход пользователя
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Проверяем учетные данные
	user, err := c.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Создаем JWT токен
	token, err := c.generateToken(user.ID, user.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// UpdateProfile обрабатывает обновление профиля пользователя
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := c.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ChangePassword обрабатывает смену пароля
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.userService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Пароль изменен"})
}

// GetJWTKey возвращает ключ для JWT
func (c *AuthController) GetJWTKey() string {
	return c.config.JWT.SecretKey
}

// generateToken создает JWT токен
func (c *AuthController) generateToken(userID uint, username string) (*Token, error) {
	expirationTime := time.Now().Add(time.Duration(c.config.JWT.ExpiresIn) * time.Hour)
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      expirationTime.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(c.config.JWT.SecretKey))
	if err != nil {
		return nil, err
	}

	return &Token{
		Token:    tokenString,
		Username: username,
		UserID:   userID,
	}, nil
}

// currentUser извлекает аутентифицированного пользователя из контекста запроса
func currentUser(r *http.Request) (uint, string, error) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		utils.LogDebug("user_id is missing in request context for %s", r.URL.Path)
		return 0, "", errors.New("user not authenticated")
	}
	username, _ := r.Context().Value("username").(string)
	return userID, username, nil
}
