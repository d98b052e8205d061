package content

import (
	"context"
	"testing"

	"github.com/plumeblog/plume/internal/db/dbtest"
)

func TestCreateRejectsForeignImage(t *testing.T) {
	store := NewStore(dbtest.New(t))
	ctx := context.Background()

	img, err := store.RegisterImage(ctx, "blog/images/a.png")
	if err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}

	owned, err := store.Create(ctx, 1, PostInput{Title: "mine", Content: "body", Images: []int64{img.ID}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Create(ctx, 2, PostInput{Title: "theirs", Content: "body", Images: []int64{img.ID}}); err != ErrInvalidInput {
		t.Fatalf("Create with attached image = %v, want ErrInvalidInput", err)
	}

	got, err := store.Get(ctx, owned.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Images) != 1 {
		t.Errorf("original post has %d images, want 1", len(got.Images))
	}
}

func TestUpdateRejectsForeignImage(t *testing.T) {
	store := NewStore(dbtest.New(t))
	ctx := context.Background()

	img, err := store.RegisterImage(ctx, "blog/images/a.png")
	if err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}
	if _, err := store.Create(ctx, 1, PostInput{Title: "mine", Content: "body", Images: []int64{img.ID}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	other, err := store.Create(ctx, 2, PostInput{Title: "theirs", Content: "body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Update(ctx, 2, other.ID, PostInput{Images: []int64{img.ID}}); err != ErrInvalidInput {
		t.Fatalf("Update with attached image = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateKeepsRetainedImages(t *testing.T) {
	store := NewStore(dbtest.New(t))
	ctx := context.Background()

	img1, err := store.RegisterImage(ctx, "blog/images/a.png")
	if err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}
	post, err := store.Create(ctx, 1, PostInput{Title: "mine", Content: "body", Images: []int64{img1.ID}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	img2, err := store.RegisterImage(ctx, "blog/images/b.png")
	if err != nil {
		t.Fatalf("RegisterImage: %v", err)
	}

	// Replacement set overlapping the current set must succeed
	updated, err := store.Update(ctx, 1, post.ID, PostInput{Images: []int64{img1.ID, img2.ID}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("post has %d images after replace, want 2", len(updated.Images))
	}

	// Shrinking the set detaches the dropped image
	updated, err = store.Update(ctx, 1, post.ID, PostInput{Images: []int64{img2.ID}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0].ID != img2.ID {
		t.Errorf("post images after shrink = %v, want only image %d", updated.Images, img2.ID)
	}
}
