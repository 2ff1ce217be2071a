package api

import (
	"net/http"
	"strconv"

	"github.com/typesense/typesense-go/typesense/api"

	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/internal/apierror"

	"github.com/allthrive/allthrive/api/middleware"

	"github.com/allthrive/allthrive"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Api struct {
	service *allthrive.AllThrive
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/users", a.CreateUser)
	router.GET("/users", a.GetAllUsers)
	router.GET("/users/:id", a.GetUser)
	router.PUT("/users/:id", a.UpdateUser)
	router.GET("/users/:id/offers", a.GetOffersByCreator)
	router.GET("/users/:id/asks", a.GetAsksByCreator)

	router.POST("/offers", a.CreateOffer)
	router.GET("/offers", a.GetAllOffers)
	router.GET("/offers/:id", a.GetOffer)
	router.PATCH("/offers/:id", a.UpdateOffer)
	router.DELETE("/offers/:id", a.ArchiveOffer)

	router.POST("/asks", a.CreateAsk)
	router.GET("/asks", a.GetAllAsks)
	router.GET("/asks/:id", a.GetAsk)
	router.PATCH("/asks/:id", a.UpdateAsk)
	router.DELETE("/asks/:id", a.CloseAsk)

	router.POST("/connections", a.CreateConnection)
	router.GET("/connections", a.GetConnections)
	router.GET("/connections/:id", a.GetConnection)
	router.PATCH("/connections/:id", a.TransitionConnection)
	router.POST("/connections/:id/rate", a.RateConnection)

	router.POST("/follows", a.CreateFollow)
	router.DELETE("/follows/:following_id", a.DeleteFollow)
	router.GET("/follows", a.GetFollows)

	router.GET("/ledger/balance", a.GetBalance)
	router.GET("/ledger/transactions", a.GetTransactions)
	router.POST("/ledger/convert", a.ConvertPoints)
	router.POST("/ledger/gifts", a.GiftPoints)
	router.POST("/ledger/endorsements", a.CreateEndorsement)
	router.POST("/ledger/badges", a.AwardBadge)

	router.GET("/discover", a.Discover)
	router.GET("/discover/offers", a.DiscoverOffers)
	router.GET("/discover/asks", a.DiscoverAsks)
	router.GET("/discover/people", a.DiscoverPeople)

	router.POST("/api-keys", a.CreateAPIKey)
	router.GET("/api-keys", a.ListAPIKeys)
	router.DELETE("/api-keys/:id", a.RevokeAPIKey)

	router.POST("/search/:collection", a.Search)
	router.POST("/multi-search", a.MultiSearch)
	return a.router
}

func NewAPI(service *allthrive.AllThrive) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware("allthrive-api"))
	r.Use(middleware.RateLimitMiddleware(conf))
	r.Use(middleware.NewAuthMiddleware(service).Authenticate())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{service: service, router: r}
}

// actingUser resolves the user the request acts on behalf of. API key
// authentication stores the key owner on the context; master key and
// unsecured requests fall back to the X-AllThrive-User header.
func actingUser(c *gin.Context) string {
	if actor := c.GetString(middleware.ActorKey); actor != "" {
		return actor
	}
	return c.GetHeader("X-AllThrive-User")
}

func handleError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}

// paginationParams reads limit and offset query parameters, clamped to sane
// bounds.
func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (a Api) Search(c *gin.Context) {
	collection, passed := c.Params.Get("collection")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection is required. pass id in the route /:collection"})
		return
	}

	var query api.SearchCollectionParams
	err := c.BindJSON(&query)
	if err != nil {
		return
	}

	resp, err := a.service.Search(collection, &query)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) MultiSearch(c *gin.Context) {
	var query api.MultiSearchSearchesParameter
	err := c.BindJSON(&query)
	if err != nil {
		return
	}

	resp, err := a.service.MultiSearch(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
