package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/pixtag/pixtag/cmd/api/container"
	"github.com/pixtag/pixtag/cmd/api/handlers"
)

// Register wires all API routes to their handlers
func Register(e *echo.Echo, c *container.Container) {
	searchHandler := handlers.NewSearchHandler(c.SearchService)
	tagHandler := handlers.NewTagHandler(c.TagService)
	subscriptionHandler := handlers.NewSubscriptionHandler(c.SubscriptionService)
	imageHandler := handlers.NewImageHandler(c.ImageService)

	api := e.Group("/api/v1")
	{
		api.POST("/search/tags", searchHandler.SearchByTags)     // query by explicit tags
		api.POST("/search/image", searchHandler.SearchByImage)   // query by submitted image
		api.POST("/images/resolve", searchHandler.ResolveThumbnail)

		api.POST("/tags", tagHandler.MutateTags)

		api.POST("/subscriptions", subscriptionHandler.Subscribe)

		api.POST("/images", imageHandler.Upload)
		api.POST("/images/delete", imageHandler.Delete)
	}
}
