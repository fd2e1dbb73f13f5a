package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pagecraft/internal/repository"
	"github.com/pagecraft/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	pages       *service.PageService
	settings    *service.SettingsService
	adminPrefix string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, adminPrefix string, pageOpts ...service.PageOption) *API {
	repo := repository.New(gdb)

	return &API{
		pages:       service.NewPageService(repo, pageOpts...),
		settings:    service.NewSettingsService(repo),
		adminPrefix: adminPrefix,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["prefix"]; !exists {
		payload["prefix"] = a.adminPrefix
	}
	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = popFlashes(c)
	}

	c.HTML(status, template, payload)
}

// redirectWithNotice stores a flash message and sends the browser to target.
func (a *API) redirectWithNotice(c *gin.Context, target, notice string) {
	session := sessions.Default(c)
	session.AddFlash(notice)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save flash message")
	}

	c.Redirect(http.StatusSeeOther, target)
}

func popFlashes(c *gin.Context) []string {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil
	}

	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}

	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to clear flash messages")
	}

	flashes := make([]string, 0, len(raw))
	for _, item := range raw {
		if text, ok := item.(string); ok {
			flashes = append(flashes, text)
		}
	}
	return flashes
}
