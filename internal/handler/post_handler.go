package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
)

const newPostID = "new"

// postForm is the editor state, kept as raw strings so a rejected submission
// can be shown again exactly as typed.
type postForm struct {
	ID        uint
	IsNew     bool
	Published bool
	Title     string
	URL       string
	Date      string
	Content   string
}

func formFromPage(page *db.Page) postForm {
	return postForm{
		ID:        page.ID,
		Published: page.IsPublished,
		Title:     page.Title,
		URL:       page.URL,
		Date:      page.Time.In(time.Local).Format(service.DateLayout),
		Content:   page.ContentMarkdown,
	}
}

func bindPostInput(c *gin.Context) service.PageInput {
	return service.PageInput{
		Title:   c.PostForm("title"),
		URL:     c.PostForm("url"),
		Date:    c.PostForm("date"),
		Content: c.PostForm("content"),
	}
}

func (a *API) postEditURL(id uint) string {
	return fmt.Sprintf("%s/posts/%d", a.adminPrefix, id)
}

// ShowPostList renders every post, drafts included.
func (a *API) ShowPostList(c *gin.Context) {
	posts, err := a.pages.List(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "posts.html", gin.H{
		"title": "Posts",
		"posts": posts,
	})
}

// ShowPostEdit renders the editor for an existing post or, for "new", an empty one.
func (a *API) ShowPostEdit(c *gin.Context) {
	if c.Param("id") == newPostID {
		a.renderHTML(c, http.StatusOK, "post_edit.html", gin.H{
			"title": "New post",
			"form":  postForm{IsNew: true},
		})
		return
	}

	id, err := parsePageIDParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}

	page, err := a.pages.Get(c.Request.Context(), id)
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_edit.html", gin.H{
		"title": "Edit post",
		"form":  formFromPage(page),
	})
}

// SavePost creates a post when the id is "new" and otherwise saves the
// existing one, keeping its published state.
func (a *API) SavePost(c *gin.Context) {
	input := bindPostInput(c)
	ctx := c.Request.Context()

	if c.Param("id") == newPostID {
		page, err := a.pages.Create(ctx, input)
		if err != nil {
			a.rejectPost(c, postForm{IsNew: true}, input, err)
			return
		}
		a.redirectWithNotice(c, a.postEditURL(page.ID), "Post created")
		return
	}

	a.changePost(c, "Post saved", a.pages.Save)
}

// PublishPost saves the submitted form and publishes the post.
func (a *API) PublishPost(c *gin.Context) {
	a.changePost(c, "Post published", a.pages.Publish)
}

// UnpublishPost saves the submitted form and turns the post back into a draft.
func (a *API) UnpublishPost(c *gin.Context) {
	a.changePost(c, "Post unpublished", a.pages.Unpublish)
}

type postChange func(ctx context.Context, id uint, input service.PageInput) (*db.Page, error)

func (a *API) changePost(c *gin.Context, notice string, change postChange) {
	id, err := parsePageIDParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}

	input := bindPostInput(c)
	page, err := change(c.Request.Context(), id, input)
	if err != nil {
		form := postForm{ID: id}
		if current, getErr := a.pages.Get(c.Request.Context(), id); getErr == nil {
			form.Published = current.IsPublished
		}
		a.rejectPost(c, form, input, err)
		return
	}

	a.redirectWithNotice(c, a.postEditURL(page.ID), notice)
}

// rejectPost shows the editor again with the submitted values for
// correctable errors and the error page otherwise.
func (a *API) rejectPost(c *gin.Context, form postForm, input service.PageInput, err error) {
	if !service.IsUserError(err) {
		a.respondError(c, err)
		return
	}

	form.Title = input.Title
	form.URL = input.URL
	form.Date = input.Date
	form.Content = input.Content

	title := "Edit post"
	if form.IsNew {
		title = "New post"
	}

	a.renderHTML(c, http.StatusUnprocessableEntity, "post_edit.html", gin.H{
		"title": title,
		"form":  form,
		"error": service.UserMessage(err, "the post could not be saved"),
	})
}

// ShowPostDelete asks for confirmation before deleting a post.
func (a *API) ShowPostDelete(c *gin.Context) {
	id, err := parsePageIDParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}

	page, err := a.pages.Get(c.Request.Context(), id)
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_delete.html", gin.H{
		"title": "Delete post",
		"post":  page,
	})
}

// DeletePost removes a post permanently.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parsePageIDParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}

	if err := a.pages.Delete(c.Request.Context(), id); err != nil {
		a.respondError(c, err)
		return
	}

	a.redirectWithNotice(c, a.adminPrefix+"/posts", "Post deleted")
}
