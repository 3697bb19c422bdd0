package httpserver

import (
	"net/http"

	"electrostore/internal/domain"
	usersvc "electrostore/internal/service/user"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	carts    CartService
	products ProductService
	users    UserService
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *handlers) signup(c *gin.Context) {
	var in usersvc.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	u, err := h.users.Signup(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	u, token, err := h.users.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, User: *u})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) currentSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) listUsersByRole(c *gin.Context) {
	users, err := h.users.GetByRole(c.Request.Context(), currentUser(c), domain.Role(c.Param("role")))
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Request.Context(), currentUser(c), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserRequest struct {
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	Address   string  `json:"address"`
	Birthdate *string `json:"birthdate"`
}

func (h *handlers) updateUser(c *gin.Context) {
	var body updateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed body"})
		return
	}
	birthdate, err := parseDatePtr(body.Birthdate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "birthdate must be YYYY-MM-DD"})
		return
	}
	u, err := h.users.Update(c.Request.Context(), currentUser(c), c.Param("username"), usersvc.UpdateInput{
		Name:      body.Name,
		Surname:   body.Surname,
		Address:   body.Address,
		Birthdate: birthdate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), currentUser(c), c.Param("username")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) deleteAllUsers(c *gin.Context) {
	if err := h.users.DeleteAll(c.Request.Context(), currentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
