package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pagecraft/internal/service"
)

// statusFor maps a service error to the HTTP status shown to the browser.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBadInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case service.IsUserError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders the error page for err. Server-side failures are logged
// and their details kept out of the response.
func (a *API) respondError(c *gin.Context, err error) {
	status := statusFor(err)

	message := service.UserMessage(err, "")
	switch status {
	case http.StatusBadRequest:
		message = "malformed request"
	case http.StatusNotFound:
		message = "the requested page does not exist"
	case http.StatusInternalServerError:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		message = "something went wrong, please try again later"
	}

	c.Error(err) //nolint:errcheck
	a.renderHTML(c, status, "error.html", gin.H{
		"status":  status,
		"title":   http.StatusText(status),
		"message": message,
	})
}

func parsePageIDParam(c *gin.Context, key string) (uint, error) {
	return service.ParsePageID(c.Param(key))
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(value)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}
