package httpserver

import (
	"net/http"

	"electrostore/internal/domain"
	"github.com/gin-gonic/gin"
)

func (h *handlers) getCurrentCart(c *gin.Context) {
	cart, err := h.carts.GetCurrent(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		writeError(c, err)
		return
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, cart)
}

type addToCartRequest struct {
	Model string `json:"model" binding:"required"`
}

func (h *handlers) addToCart(c *gin.Context) {
	var body addToCartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	if err := h.carts.AddItem(c.Request.Context(), currentUser(c).Username, body.Model); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) checkout(c *gin.Context) {
	if err := h.carts.Checkout(c.Request.Context(), currentUser(c).Username); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) cartHistory(c *gin.Context) {
	carts, err := h.carts.History(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		writeError(c, err)
		return
	}
	if carts == nil {
		carts = []domain.Cart{}
	}
	c.JSON(http.StatusOK, carts)
}

func (h *handlers) removeFromCart(c *gin.Context) {
	if err := h.carts.RemoveOneUnit(c.Request.Context(), currentUser(c).Username, c.Param("model")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), currentUser(c).Username); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) listAllCarts(c *gin.Context) {
	carts, err := h.carts.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if carts == nil {
		carts = []domain.Cart{}
	}
	c.JSON(http.StatusOK, carts)
}

func (h *handlers) deleteAllCarts(c *gin.Context) {
	if err := h.carts.DeleteAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
