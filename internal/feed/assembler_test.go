package feed

import (
	"context"
	"testing"

	"github.com/plumeblog/plume/internal/db/dbtest"
	"github.com/plumeblog/plume/internal/models"
	"github.com/plumeblog/plume/internal/social"
)

func TestFeedStartsWithLatestOwnPost(t *testing.T) {
	repo := dbtest.New(t)
	assembler := NewAssembler(repo, social.NewGraph(repo))
	ctx := context.Background()

	first := &models.Post{UserID: 1, Title: "first", Content: "a"}
	second := &models.Post{UserID: 1, Title: "second", Content: "b"}
	for _, p := range []*models.Post{first, second} {
		if err := repo.DB().Create(p).Error; err != nil {
			t.Fatalf("Create post: %v", err)
		}
	}

	feed, err := assembler.Feed(ctx, 1)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed has %d posts, want 1", len(feed))
	}
	if feed[0].ID != second.ID {
		t.Errorf("feed[0].ID = %d, want latest own post %d", feed[0].ID, second.ID)
	}
}

func TestMergeFeed(t *testing.T) {
	own := &models.Post{ID: 9, Title: "mine"}
	followed := []models.Post{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
		{ID: 5, Title: "third"},
	}

	tests := []struct {
		name     string
		own      *models.Post
		followed []models.Post
		wantIDs  []int64
	}{
		{
			name:     "own post prepended to followed posts",
			own:      own,
			followed: followed,
			wantIDs:  []int64{9, 1, 2, 5},
		},
		{
			name:     "following nobody yields own latest post only",
			own:      own,
			followed: nil,
			wantIDs:  []int64{9},
		},
		{
			name:     "no own post yields followed posts in store order",
			own:      nil,
			followed: followed,
			wantIDs:  []int64{1, 2, 5},
		},
		{
			name:     "no own post and following nobody yields empty feed",
			own:      nil,
			followed: nil,
			wantIDs:  []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeFeed(tt.own, tt.followed)
			if got == nil {
				t.Fatal("mergeFeed should never return nil")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("mergeFeed returned %d posts, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("feed[%d].ID = %d, want %d", i, got[i].ID, want)
				}
			}
		})
	}
}
