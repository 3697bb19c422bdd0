package httpserver

import (
	"context"
	"time"

	"electrostore/internal/domain"
	productsvc "electrostore/internal/service/product"
	usersvc "electrostore/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CartService is the slice of the cart workflow the handlers call.
type CartService interface {
	AddItem(ctx context.Context, customer, model string) error
	GetCurrent(ctx context.Context, customer string) (*domain.Cart, error)
	Checkout(ctx context.Context, customer string) error
	RemoveOneUnit(ctx context.Context, customer, model string) error
	Clear(ctx context.Context, customer string) error
	History(ctx context.Context, customer string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
	DeleteAll(ctx context.Context) error
}

type ProductService interface {
	Register(ctx context.Context, in productsvc.RegisterInput) error
	Restock(ctx context.Context, model string, n int, changeDate *time.Time) (int, error)
	Sell(ctx context.Context, model string, n int, sellingDate *time.Time) (int, error)
	GetProducts(ctx context.Context, grouping, category, model string) ([]domain.Product, error)
	GetAvailableProducts(ctx context.Context, grouping, category, model string) ([]domain.Product, error)
	Delete(ctx context.Context, model string) error
	DeleteAll(ctx context.Context) error
}

type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetAll(ctx context.Context, caller *domain.User) ([]domain.User, error)
	GetByRole(ctx context.Context, caller *domain.User, role domain.Role) ([]domain.User, error)
	GetByUsername(ctx context.Context, caller *domain.User, username string) (*domain.User, error)
	Update(ctx context.Context, caller *domain.User, username string, in usersvc.UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, caller *domain.User, username string) error
	DeleteAll(ctx context.Context, caller *domain.User) error
}

// Deps carries everything the router needs.
type Deps struct {
	CartSvc    CartService
	ProductSvc ProductService
	UserSvc    UserService
}

func buildRouter(log *zap.SugaredLogger, db *pgxpool.Pool, deps Deps, allowOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log), observe())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", headerRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{carts: deps.CartSvc, products: deps.ProductSvc, users: deps.UserSvc}

	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.login)
		sessions.GET("/current", requireAuth(deps.UserSvc), h.currentSession)
		sessions.DELETE("/current", requireAuth(deps.UserSvc), h.logout)
	}

	users := router.Group("/users")
	{
		users.POST("", h.signup)
		authed := users.Group("", requireAuth(deps.UserSvc))
		authed.GET("", h.listUsers)
		authed.GET("/roles/:role", h.listUsersByRole)
		authed.GET("/:username", h.getUser)
		authed.PATCH("/:username", h.updateUser)
		authed.DELETE("/:username", h.deleteUser)
		authed.DELETE("", h.deleteAllUsers)
	}

	products := router.Group("/products", requireAuth(deps.UserSvc))
	{
		staff := products.Group("", requireRole(domain.RoleManager, domain.RoleAdmin))
		staff.POST("", h.registerProduct)
		staff.PATCH("/:model", h.restockProduct)
		staff.PATCH("/:model/sell", h.sellProduct)
		staff.GET("", h.listProducts)
		staff.DELETE("/:model", h.deleteProduct)
		staff.DELETE("", h.deleteAllProducts)

		// Any authenticated user may browse what is in stock.
		products.GET("/available", h.listAvailableProducts)
	}

	carts := router.Group("/carts", requireAuth(deps.UserSvc))
	{
		mine := carts.Group("", requireRole(domain.RoleCustomer))
		mine.GET("/current", h.getCurrentCart)
		mine.POST("/current/items", h.addToCart)
		mine.PATCH("/current", h.checkout)
		mine.GET("/history", h.cartHistory)
		mine.DELETE("/current/items/:model", h.removeFromCart)
		mine.DELETE("/current", h.clearCart)

		staff := carts.Group("", requireRole(domain.RoleManager, domain.RoleAdmin))
		staff.GET("/all", h.listAllCarts)
		staff.DELETE("", h.deleteAllCarts)
	}

	return router
}
