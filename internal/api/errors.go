package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plumeblog/plume/internal/auth"
	"github.com/plumeblog/plume/internal/content"
	"github.com/plumeblog/plume/internal/engage"
	"github.com/plumeblog/plume/internal/social"
	"github.com/plumeblog/plume/pkg/logging"
)

// statusFor maps a domain error to an HTTP status code. Unknown errors are
// treated as store failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, social.ErrSelfFollow),
		errors.Is(err, engage.ErrDuplicateReview),
		errors.Is(err, engage.ErrInvalidRating),
		errors.Is(err, content.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, content.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, social.ErrUserNotFound),
		errors.Is(err, content.ErrPostNotFound),
		errors.Is(err, engage.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, social.ErrAlreadyFollowing),
		errors.Is(err, social.ErrNotFollowing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a structured error response. Store failures are
// logged and masked behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.WithComponent("api").Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
