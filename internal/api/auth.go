package api

import (
	"net/http" // HTTP status codes

	"digital_wallet/internal/auth"       // Auth service inputs
	"digital_wallet/internal/middleware" // Token claims from the request context

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the registration body
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	PinCode              string `json:"pin_code" binding:"required,pin"`
	PinCodeConfirmation  string `json:"pin_code_confirmation" binding:"required,eqfield=PinCode"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an access token
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterHandler creates a user with an empty wallet and returns an access token
func RegisterHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := bindJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorKey: fieldErrors(err)})
			return
		}
		token, err := svc.Register(c.Request.Context(), auth.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			PinCode:  req.PinCode,
		})
		if err != nil {
			respondError(c, err, errorKey)
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{AccessToken: token})
	}
}

// LoginHandler authenticates a user and returns an access token
func LoginHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err, errorKey)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{AccessToken: token})
	}
}

// LogoutHandler revokes the token the request was authenticated with
func LogoutHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.Claims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := svc.Logout(c.Request.Context(), claims); err != nil {
			respondError(c, err, errorKey)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
