package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chirper/internal/application"
	"chirper/internal/interface/middleware"
	"chirper/pkg/response"
	"chirper/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type signupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required,min=3,max=32"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	u, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("email", req.Email).Warn("signup rejected")
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, u, "account created, confirmation email sent", nil)
}

type signinRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signin returns the session pair in the custom token headers as well as the
// body, so both browser and API clients can pick it up.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Auth.Signin(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.writeTokens(c, pair)
	response.OK(c, http.StatusOK, gin.H{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresAt":    pair.AccessTokenExpiry,
	}, "signed in", nil)
}

type confirmRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	u, err := h.Auth.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "account activated", nil)
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "confirmation email sent", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := c.GetHeader(middleware.HeaderRefreshToken)
	if raw == "" {
		response.Fail(c, http.StatusExpectationFailed, "missing refresh token header", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		fail(c, err)
		return
	}
	h.writeTokens(c, pair)
	response.OK(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresAt":    pair.AccessTokenExpiry,
	}, "tokens refreshed", nil)
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResetPasswordInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPasswordInit(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	// Same message for known and unknown emails.
	response.OK[any](c, http.StatusOK, nil, "if the email is registered, a reset link has been sent", nil)
}

type resetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetPasswordConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPasswordConfirm(c.Request.Context(), req.Token, req.Password); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "password updated", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.OK(c, http.StatusOK, u, "", nil)
}

func (h *AuthHandler) writeTokens(c *gin.Context, pair application.TokenPair) {
	c.Header(middleware.HeaderAccessToken, pair.AccessToken)
	c.Header(middleware.HeaderRefreshToken, pair.RefreshToken)
}
