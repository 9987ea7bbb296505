package controller

import (
	"ctchen222/Hex/internal/api/models"
	"ctchen222/Hex/internal/api/response"
	"ctchen222/Hex/internal/api/service"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err := uc.userService.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrUsernameTaken) {
		response.ErrorResponse(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.CreatedResponse(c, gin.H{"message": "User created successfully"})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := uc.userService.Login(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, res)
}

// GuestLogin handles guest login, returning a generated player ID.
func (uc *UserController) GuestLogin(c *gin.Context) {
	res, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, res)
}

// Me returns the identity set by RequireAuth.
func (uc *UserController) Me(c *gin.Context) {
	response.SuccessResponse(c, c.MustGet(identityKey))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's identity in the context.
func (uc *UserController) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.AbortWithError(c, response.NewError(http.StatusUnauthorized, "missing bearer token"))
			return
		}

		identity, err := uc.userService.VerifyToken(token)
		if err != nil {
			response.AbortWithError(c, response.WrapError(http.StatusUnauthorized, err))
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth stores the identity of a valid bearer token when one is sent.
// Requests without a token pass through; a bad token is still rejected.
func (uc *UserController) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		identity, err := uc.userService.VerifyToken(token)
		if err != nil {
			response.AbortWithError(c, response.WrapError(http.StatusUnauthorized, err))
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}
