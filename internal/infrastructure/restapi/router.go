package restapi

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions configures the ambient routes around the API.
type RouterOptions struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	SwaggerEnabled bool
	SwaggerPath    string
	SwaggerSpec    string // path of the swagger.yaml served to the UI
}

// SetupRouter builds the gin engine serving the wallet API.
func SetupRouter(h *WalletHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	if opts.Logger != nil {
		router.Use(ZapLoggerMiddleware(opts.Logger))
	}
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/selection", h.GetSelectionHandler)
		v1.PUT("/selection", h.PutSelectionHandler)
		v1.GET("/chains", h.ListChainsHandler)
		v1.GET("/chains/:chainId/addresses", h.GetAddressesHandler)
		v1.DELETE("/chains/:chainId/addresses", h.InvalidateAddressesHandler)
		v1.GET("/chains/:chainId/balances/:address", h.GetBalanceHandler)
		v1.POST("/chains/:chainId/balances/:address/refresh", h.RefreshBalanceHandler)
		v1.POST("/chains/:chainId/transfers", h.SubmitTransferHandler)
	}

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerEnabled && opts.SwaggerSpec != "" {
		path := strings.TrimRight(opts.SwaggerPath, "/")
		if path == "" {
			path = "/swagger"
		}
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpec)
		router.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
	}

	return router
}
