package controllers

import (
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// loginPayload is the token envelope both setup and login hand back. The
// frontend keeps the username for display without decoding the token.
func loginPayload(token, username string) gin.H {
	return gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     username,
	}
}

// SetupStatus tells the frontend whether to show the first-run wizard or the
// login form. Public by necessity.
func (ac *AuthController) SetupStatus(c *gin.Context) {
	complete, err := ac.authService.SetupComplete(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Setup status", gin.H{"setup_complete": complete})
}

func (ac *AuthController) SetupAdmin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	token, err := ac.authService.SetupAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Admin account created", loginPayload(token, req.Username))
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", loginPayload(token, req.Username))
}

// Me confirms the bearer token still maps to the stored admin.
func (ac *AuthController) Me(c *gin.Context) {
	username := c.GetString("username")
	if err := ac.authService.VerifyAdmin(c.Request.Context(), username); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Authenticated", gin.H{"username": username})
}
