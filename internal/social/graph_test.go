package social

import (
	"context"
	"testing"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/db/dbtest"
	"github.com/plumeblog/plume/internal/models"
)

func TestSelfFollowRejected(t *testing.T) {
	graph := NewGraph(dbtest.New(t))
	ctx := context.Background()

	tests := []struct {
		name string
		op   func() error
	}{
		{"follow", func() error { return graph.Follow(ctx, 7, 7) }},
		{"unfollow", func() error { return graph.Unfollow(ctx, 7, 7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err != ErrSelfFollow {
				t.Errorf("%s(7, 7) = %v, want ErrSelfFollow", tt.name, err)
			}
		})
	}
}

func TestFollowEdgeConflicts(t *testing.T) {
	repo := dbtest.New(t)
	graph := NewGraph(repo)
	ctx := context.Background()

	users := db.NewUserRepository(repo)
	alice := &models.User{FirstName: "Alice", LastName: "Adams", Email: "alice@example.com", Username: "alice_adams", PasswordHash: "x"}
	bob := &models.User{FirstName: "Bob", LastName: "Brown", Email: "bob@example.com", Username: "bob_brown", PasswordHash: "x"}
	for _, u := range []*models.User{alice, bob} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}

	if err := graph.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := graph.Follow(ctx, alice.ID, bob.ID); err != ErrAlreadyFollowing {
		t.Errorf("second Follow = %v, want ErrAlreadyFollowing", err)
	}

	if err := graph.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := graph.Unfollow(ctx, alice.ID, bob.ID); err != ErrNotFollowing {
		t.Errorf("second Unfollow = %v, want ErrNotFollowing", err)
	}
}
