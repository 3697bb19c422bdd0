package httpserver

import (
	"errors"
	"net/http"

	"electrostore/internal/domain"
	usersvc "electrostore/internal/service/user"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy 1:1 onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrIncorrectNullGrouping),
		errors.Is(err, domain.ErrIncorrectCategoryGrouping),
		errors.Is(err, domain.ErrIncorrectModelGrouping):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, usersvc.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrProductNotInCart),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrProductAlreadyExists),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrProductSoldOut),
		errors.Is(err, domain.ErrLowStock),
		errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
