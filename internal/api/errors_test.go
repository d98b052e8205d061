package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/plumeblog/plume/internal/auth"
	"github.com/plumeblog/plume/internal/content"
	"github.com/plumeblog/plume/internal/engage"
	"github.com/plumeblog/plume/internal/social"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"self follow", social.ErrSelfFollow, http.StatusBadRequest},
		{"duplicate review", engage.ErrDuplicateReview, http.StatusBadRequest},
		{"negative rating", engage.ErrInvalidRating, http.StatusBadRequest},
		{"invalid post input", content.ErrInvalidInput, http.StatusBadRequest},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"not owner", content.ErrNotOwner, http.StatusForbidden},
		{"user not found", social.ErrUserNotFound, http.StatusNotFound},
		{"post not found", content.ErrPostNotFound, http.StatusNotFound},
		{"reviewed post not found", engage.ErrPostNotFound, http.StatusNotFound},
		{"already following", social.ErrAlreadyFollowing, http.StatusConflict},
		{"not following", social.ErrNotFollowing, http.StatusConflict},
		{"unknown error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
