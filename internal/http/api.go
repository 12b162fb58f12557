package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"adboard/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	ads        service.AdService
	users      service.UserService
	locations  service.LocationService
	categories service.CategoryService
	logger     logrus.FieldLogger

	mediaPath string
	mediaRoot string
}

func NewHandler(
	ads service.AdService,
	users service.UserService,
	locations service.LocationService,
	categories service.CategoryService,
	logger logrus.FieldLogger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		ads:        ads,
		users:      users,
		locations:  locations,
		categories: categories,
		logger:     logger,
	}
}

// ServeMedia makes RegisterRoutes serve files under root at urlPath.
func (h *Handler) ServeMedia(urlPath, root string) {
	h.mediaPath = urlPath
	h.mediaRoot = root
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))

	if h.mediaPath != "" {
		router.Static(h.mediaPath, h.mediaRoot)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	ads := router.Group("/ad")
	{
		ads.GET("/", h.listAds)
		ads.POST("/", h.createAd)
		ads.GET("/:id/", h.getAd)
		ads.PUT("/:id/update/", h.updateAd)
		ads.PATCH("/:id/update/", h.updateAd)
		ads.POST("/:id/update/", h.updateAd)
		ads.POST("/:id/upload/", h.uploadAdImage)
		ads.DELETE("/:id/delete/", h.deleteAd)
	}

	users := router.Group("/user")
	{
		users.GET("/", h.listUsers)
		users.POST("/create/", h.createUser)
		users.GET("/:id/", h.getUser)
		users.PUT("/:id/update/", h.updateUser)
		users.PATCH("/:id/update/", h.updateUser)
		users.DELETE("/:id/delete/", h.deleteUser)
	}

	categories := router.Group("/cat")
	{
		categories.GET("/", h.listCategories)
		categories.POST("/", h.createCategory)
		categories.GET("/:id/", h.getCategory)
		categories.PUT("/:id/update/", h.updateCategory)
		categories.PATCH("/:id/update/", h.updateCategory)
		categories.DELETE("/:id/delete/", h.deleteCategory)
	}

	locations := router.Group("/location")
	{
		locations.GET("/", h.listLocations)
		locations.POST("/", h.createLocation)
		locations.GET("/:id/", h.getLocation)
		locations.PUT("/:id/", h.updateLocation)
		locations.PATCH("/:id/", h.updateLocation)
		locations.DELETE("/:id/", h.deleteLocation)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

var statusOK = statusResponse{Status: "ok"}
