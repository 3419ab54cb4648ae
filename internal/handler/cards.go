package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type cardURI struct {
	CardID string `uri:"cardId" binding:"required,uuid"`
}

type createCardRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=2,max=30"`
	Link string `json:"link" form:"link" binding:"required,httpurl"`
}

// GET /cards
func (h *Handler) GetCards(c *gin.Context) error {
	cards, err := h.serviceLayer.ListCards(c.Request.Context())
	if err != nil {
		return fmt.Errorf("handler.GetCards: %w", err)
	}

	c.JSON(http.StatusOK, cards)

	return nil
}

// POST /cards
func (h *Handler) CreateCard(c *gin.Context) error {
	const op = "handler.CreateCard"

	owner, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req := body[createCardRequest](c)

	card, err := h.serviceLayer.CreateCard(c.Request.Context(), owner, req.Name, req.Link)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusCreated, card)

	return nil
}

// DELETE /cards/:cardId
func (h *Handler) DeleteCard(c *gin.Context) error {
	const op = "handler.DeleteCard"

	userID, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	params := uri[cardURI](c)

	card, err := h.serviceLayer.DeleteCard(c.Request.Context(), params.CardID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	h.log.Info("card deleted", slog.String("op", op), slog.String("card_id", card.ID))

	c.JSON(http.StatusOK, card)

	return nil
}

// PUT /cards/:cardId/likes
func (h *Handler) LikeCard(c *gin.Context) error {
	const op = "handler.LikeCard"

	userID, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	card, err := h.serviceLayer.LikeCard(c.Request.Context(), uri[cardURI](c).CardID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, card)

	return nil
}

// DELETE /cards/:cardId/likes
func (h *Handler) UnlikeCard(c *gin.Context) error {
	const op = "handler.UnlikeCard"

	userID, err := currentUserID(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	card, err := h.serviceLayer.UnlikeCard(c.Request.Context(), uri[cardURI](c).CardID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.JSON(http.StatusOK, card)

	return nil
}
