package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"mesto_service/internal/service"
)

type Handler struct {
	serviceLayer service.Service
	tokens       TokenVerifier
	log          *slog.Logger
}

func NewHandler(srvc service.Service, tokens TokenVerifier, lgr *slog.Logger) *Handler {
	return &Handler{
		serviceLayer: srvc,
		tokens:       tokens,
		log:          lgr,
	}
}

// InitRoutes builds the router. Stage order per request: request logger,
// error pipeline, panic recovery, then either validation and handler
// (signin, signup) or auth, validation and handler. Unknown routes go
// through auth before the not-found stage.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(RequestLogger(h.log), ErrorPipeline(h.log), Recovery())

	router.POST("/signin", validateBody[signInRequest](), handle(h.SignIn))
	router.POST("/signup", validateBody[signUpRequest](), handle(h.SignUp))

	authed := router.Group("/", AuthMiddleware(h.tokens))

	users := authed.Group("/users")
	{
		users.GET("", handle(h.GetUsers))
		users.GET("/me", handle(h.GetMe))
		users.PATCH("/me", validateBody[updateProfileRequest](), handle(h.UpdateProfile))
		users.PATCH("/me/avatar", validateBody[updateAvatarRequest](), handle(h.UpdateAvatar))
		users.GET("/:userId", validateURI[userURI](), handle(h.GetUser))
	}

	cards := authed.Group("/cards")
	{
		cards.GET("", handle(h.GetCards))
		cards.POST("", validateBody[createCardRequest](), handle(h.CreateCard))
		cards.DELETE("/:cardId", validateURI[cardURI](), handle(h.DeleteCard))
		cards.PUT("/:cardId/likes", validateURI[cardURI](), handle(h.LikeCard))
		cards.DELETE("/:cardId/likes", validateURI[cardURI](), handle(h.UnlikeCard))
	}

	router.NoRoute(AuthMiddleware(h.tokens), handle(routeNotFound))

	return router
}
