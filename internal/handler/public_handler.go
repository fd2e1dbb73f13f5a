package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagecraft/internal/markdown"
)

// ShowHome renders the public index: published posts, newest first, paged by
// the posts_per_page setting.
func (a *API) ShowHome(c *gin.Context) {
	ctx := c.Request.Context()

	site, err := a.settings.Get(ctx)
	if err != nil {
		a.respondError(c, err)
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	result, err := a.pages.PublishedPosts(ctx, page, site.PostsPerPage)
	if err != nil {
		a.respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Page > 1 && result.Page > result.TotalPages {
		status = http.StatusNotFound
	}

	a.renderHTML(c, status, "index.html", gin.H{
		"title":      "Home",
		"site":       site,
		"posts":      result.Posts,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

// ShowPage renders a published post or static page by its URL.
func (a *API) ShowPage(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := a.pages.PublishedByURL(ctx, c.Param("url"))
	if err != nil {
		a.respondError(c, err)
		return
	}

	site, err := a.settings.Get(ctx)
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "page.html", gin.H{
		"title": page.Title,
		"site":  site,
		"page":  page,
	})
}

// PreviewMarkdown renders the posted Markdown as an HTML fragment for the
// editor preview. Nothing is stored.
func (a *API) PreviewMarkdown(c *gin.Context) {
	rendered := markdown.Render(c.PostForm("content"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered))
}
