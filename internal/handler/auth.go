package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mesto_service/internal/service"
)

type signInRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type signUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,maxbytes=72"`
	Name     string `json:"name" form:"name" binding:"omitempty,min=2,max=30"`
	About    string `json:"about" form:"about" binding:"omitempty,min=2,max=200"`
	Avatar   string `json:"avatar" form:"avatar" binding:"omitempty,httpurl"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// POST /signin
func (h *Handler) SignIn(c *gin.Context) error {
	const op = "handler.SignIn"

	req := body[signInRequest](c)

	token, err := h.serviceLayer.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})

	return nil
}

// POST /signup
func (h *Handler) SignUp(c *gin.Context) error {
	const op = "handler.SignUp"

	req := body[signUpRequest](c)

	user, err := h.serviceLayer.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	h.log.Info("user registered", slog.String("op", op), slog.String("user_id", user.ID))

	c.JSON(http.StatusCreated, user)

	return nil
}
