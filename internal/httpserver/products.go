package httpserver

import (
	"net/http"
	"time"

	"electrostore/internal/domain"
	productsvc "electrostore/internal/service/product"
	"github.com/gin-gonic/gin"
)

type registerProductRequest struct {
	Model        string  `json:"model" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	Details      string  `json:"details"`
	SellingPrice float64 `json:"sellingPrice" binding:"required"`
	ArrivalDate  *string `json:"arrivalDate"`
}

func (h *handlers) registerProduct(c *gin.Context) {
	var body registerProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	arrival, err := parseDatePtr(body.ArrivalDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "arrivalDate must be YYYY-MM-DD"})
		return
	}
	err = h.products.Register(c.Request.Context(), productsvc.RegisterInput{
		Model:        body.Model,
		Category:     domain.Category(body.Category),
		Quantity:     body.Quantity,
		Details:      body.Details,
		SellingPrice: body.SellingPrice,
		ArrivalDate:  arrival,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type stockChangeRequest struct {
	Quantity int     `json:"quantity" binding:"required"`
	Date     *string `json:"date"`
}

func (h *handlers) restockProduct(c *gin.Context) {
	var body stockChangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	date, err := parseDatePtr(body.Date)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	qty, err := h.products.Restock(c.Request.Context(), c.Param("model"), body.Quantity, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quantity": qty})
}

func (h *handlers) sellProduct(c *gin.Context) {
	var body stockChangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	date, err := parseDatePtr(body.Date)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	qty, err := h.products.Sell(c.Request.Context(), c.Param("model"), body.Quantity, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quantity": qty})
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.products.GetProducts(c.Request.Context(), c.Query("grouping"), c.Query("category"), c.Query("model"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) listAvailableProducts(c *gin.Context) {
	products, err := h.products.GetAvailableProducts(c.Request.Context(), c.Query("grouping"), c.Query("category"), c.Query("model"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("model")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) deleteAllProducts(c *gin.Context) {
	if err := h.products.DeleteAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// parseDatePtr parses an optional YYYY-MM-DD date.
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
