package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/handler"
	"github.com/pagecraft/internal/service"
	"github.com/pagecraft/internal/view"
)

const sessionName = "pagecraft_session"

const (
	pingRoute    = "ping"
	metricsRoute = "metrics"
)

// templateDir is read instead of the embedded templates in dev mode.
const templateDir = "internal/view/templates"

// SetupRouter configures the gin engine and its routes.
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) (*gin.Engine, error) {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	dir := ""
	if cfg.DevMode {
		dir = templateDir
	}
	templates, err := view.Templates(dir)
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(templates)

	r.GET("/"+pingRoute, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/"+metricsRoute, gin.WrapH(promhttp.Handler()))

	api := handler.NewAPI(gdb, cfg.AdminPrefix,
		service.WithDuplicateURLs(cfg.Content.AllowDuplicateURLs),
		service.WithReservedURLs(reservedURLs(cfg.AdminPrefix)...),
	)

	// admin routes
	admin := r.Group(cfg.AdminPrefix)
	{
		admin.GET("", func(c *gin.Context) {
			c.Redirect(http.StatusFound, cfg.AdminPrefix+"/posts")
		})
		admin.GET("/posts", api.ShowPostList)
		admin.GET("/posts/:id", api.ShowPostEdit)
		admin.POST("/posts/:id", api.SavePost)
		admin.POST("/posts/:id/publish", api.PublishPost)
		admin.POST("/posts/:id/unpublish", api.UnpublishPost)
		admin.GET("/posts/:id/delete", api.ShowPostDelete)
		admin.POST("/posts/:id/delete", api.DeletePost)

		for _, field := range []string{"header", "footer", "css", "javascript"} {
			admin.GET("/"+field, api.ShowTextSetting(field))
			admin.POST("/"+field, api.UpdateTextSetting(field))
		}
		admin.GET("/settings", api.ShowSettings)
		admin.POST("/settings", api.UpdateSettings)

		admin.POST("/preview", api.PreviewMarkdown)
	}

	// public routes
	r.GET("/", api.ShowHome)
	r.GET("/:url", api.ShowPage)

	return r, nil
}

// reservedURLs lists the page URLs that the fixed top-level routes would shadow.
func reservedURLs(adminPrefix string) []string {
	adminSegment, _, _ := strings.Cut(strings.TrimPrefix(adminPrefix, "/"), "/")
	return []string{pingRoute, metricsRoute, adminSegment}
}
