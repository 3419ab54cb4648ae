package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mesto_service/internal/models"
)

type userURI struct {
	UserID string `uri:"userId" binding:"required,uuid"`
}

type updateProfileRequest struct {
	Name  string `json:"name" form:"name" binding:"required,min=2,max=30"`
	About string `json:"about" form:"about" binding:"required,min=2,max=200"`
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar" form:"avatar" binding:"required,httpurl"`
}

// GET /users
func (h *Handler) GetUsers(c *gin.Context) error {
	users, err := h.serviceLayer.ListUsers(c.Request.Context())
	if err != nil {
		return fmt.Errorf("handler.GetUsers: %w", err)
	}

	c.JSON(http.StatusOK, users)

	return nil
}

// GET /users/me
func (h *Handler) GetMe(c *gin.Context) error {
	const op = "handler.GetMe"

	id, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := h.serviceLayer.GetUserByID(c.Request.Context(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, user)

	return nil
}

// GET /users/:userId
func (h *Handler) GetUser(c *gin.Context) error {
	params := uri[userURI](c)

	user, err := h.serviceLayer.GetUserByID(c.Request.Context(), params.UserID)
	if err != nil {
		return fmt.Errorf("handler.GetUser: %w", err)
	}

	c.JSON(http.StatusOK, user)

	return nil
}

// PATCH /users/me
func (h *Handler) UpdateProfile(c *gin.Context) error {
	const op = "handler.UpdateProfile"

	id, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req := body[updateProfileRequest](c)

	user, err := h.serviceLayer.UpdateProfile(c.Request.Context(), id, models.Profile{Name: req.Name, About: req.About})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, user)

	return nil
}

// PATCH /users/me/avatar
func (h *Handler) UpdateAvatar(c *gin.Context) error {
	const op = "handler.UpdateAvatar"

	id, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req := body[updateAvatarRequest](c)

	user, err := h.serviceLayer.UpdateAvatar(c.Request.Context(), id, req.Avatar)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, user)

	return nil
}
