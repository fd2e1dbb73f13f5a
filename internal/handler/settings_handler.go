package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pagecraft/internal/service"
)

// textSetting describes one of the free-text editors: header, footer, CSS and
// JavaScript share the same form and differ only in storage accessors.
type textSetting struct {
	field    string
	title    string
	template string
	get      func(context.Context) (string, error)
	set      func(context.Context, string) error
}

func (a *API) textSettings() map[string]textSetting {
	return map[string]textSetting{
		"header":     {field: "header", title: "Header", template: "header.html", get: a.settings.GetHeader, set: a.settings.SetHeader},
		"footer":     {field: "footer", title: "Footer", template: "footer.html", get: a.settings.GetFooter, set: a.settings.SetFooter},
		"css":        {field: "css", title: "CSS", template: "css.html", get: a.settings.GetCSS, set: a.settings.SetCSS},
		"javascript": {field: "javascript", title: "JavaScript", template: "javascript.html", get: a.settings.GetJavaScript, set: a.settings.SetJavaScript},
	}
}

func (a *API) renderTextSetting(c *gin.Context, status int, setting textSetting, value string) {
	a.renderHTML(c, status, setting.template, gin.H{
		"title":  setting.title,
		"field":  setting.field,
		"value":  value,
		"action": a.adminPrefix + "/" + setting.field,
	})
}

// ShowTextSetting returns a handler rendering the editor for field.
func (a *API) ShowTextSetting(field string) gin.HandlerFunc {
	setting, ok := a.textSettings()[field]
	if !ok {
		panic("unknown text setting " + field)
	}

	return func(c *gin.Context) {
		value, err := setting.get(c.Request.Context())
		if err != nil {
			a.respondError(c, err)
			return
		}
		a.renderTextSetting(c, http.StatusOK, setting, value)
	}
}

// UpdateTextSetting returns a handler storing the submitted value of field.
func (a *API) UpdateTextSetting(field string) gin.HandlerFunc {
	setting, ok := a.textSettings()[field]
	if !ok {
		panic("unknown text setting " + field)
	}

	return func(c *gin.Context) {
		if err := setting.set(c.Request.Context(), c.PostForm(setting.field)); err != nil {
			a.respondError(c, err)
			return
		}
		a.redirectWithNotice(c, a.adminPrefix+"/"+setting.field, setting.title+" saved")
	}
}

// ShowSettings renders the general settings form.
func (a *API) ShowSettings(c *gin.Context) {
	perPage, err := a.settings.GetPostsPerPage(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "settings.html", gin.H{
		"title":        "Settings",
		"postsPerPage": strconv.Itoa(perPage),
	})
}

// UpdateSettings stores posts_per_page. Invalid input is shown again with a
// 422 and leaves the stored value unchanged.
func (a *API) UpdateSettings(c *gin.Context) {
	raw := c.PostForm("posts_per_page")

	if err := a.settings.SetPostsPerPage(c.Request.Context(), raw); err != nil {
		if statusFor(err) != http.StatusUnprocessableEntity {
			a.respondError(c, err)
			return
		}
		a.renderHTML(c, http.StatusUnprocessableEntity, "settings.html", gin.H{
			"title":        "Settings",
			"postsPerPage": raw,
			"error":        service.UserMessage(err, "invalid value"),
		})
		return
	}

	a.redirectWithNotice(c, a.adminPrefix+"/settings", "Settings saved")
}
