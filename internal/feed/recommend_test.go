package feed

import (
	"reflect"
	"testing"

	"github.com/plumeblog/plume/internal/models"
)

func TestParseInterests(t *testing.T) {
	tests := []struct {
		name      string
		interests string
		want      []string
	}{
		{
			name:      "empty string",
			interests: "",
			want:      nil,
		},
		{
			name:      "single interest",
			interests: "go",
			want:      []string{"go"},
		},
		{
			name:      "multiple interests",
			interests: "go,rust,distributed-systems",
			want:      []string{"go", "rust", "distributed-systems"},
		},
		{
			name:      "whitespace preserved, no trimming",
			interests: "go, rust",
			want:      []string{"go", " rust"},
		},
		{
			name:      "case preserved",
			interests: "Go,RUST",
			want:      []string{"Go", "RUST"},
		},
		{
			name:      "empty entries dropped",
			interests: "go,,rust,",
			want:      []string{"go", "rust"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInterests(tt.interests)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseInterests(%q) = %v, want %v", tt.interests, got, tt.want)
			}
		})
	}
}

func tagged(id int64, tags ...string) models.Post {
	post := models.Post{ID: id}
	for _, tag := range tags {
		post.Tags = append(post.Tags, models.PostTag{PostID: id, Tag: tag})
	}
	return post
}

func ids(posts []models.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestRankByInterests(t *testing.T) {
	interests := []string{"go", "rust"}

	t.Run("score ordering and exclusion", func(t *testing.T) {
		posts := []models.Post{
			tagged(1, "go"),
			tagged(2, "go", "rust"),
			tagged(3, "java"),
		}

		got := rankByInterests(posts, interests, 5)
		want := []int64{2, 1}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("rankByInterests = %v, want %v", ids(got), want)
		}
	})

	t.Run("partial match counts matching tags only", func(t *testing.T) {
		// three tags, two matching: scores 2
		posts := []models.Post{
			tagged(1, "go", "rust", "java"),
			tagged(2, "go"),
		}

		got := rankByInterests(posts, interests, 5)
		want := []int64{1, 2}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("rankByInterests = %v, want %v", ids(got), want)
		}
	})

	t.Run("ties keep store order", func(t *testing.T) {
		posts := []models.Post{
			tagged(3, "go"),
			tagged(1, "rust"),
			tagged(2, "go"),
		}

		got := rankByInterests(posts, interests, 5)
		want := []int64{3, 1, 2}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("rankByInterests = %v, want %v", ids(got), want)
		}
	})

	t.Run("truncates to top five", func(t *testing.T) {
		posts := []models.Post{
			tagged(1, "go"),
			tagged(2, "go"),
			tagged(3, "go", "rust"),
			tagged(4, "go"),
			tagged(5, "go"),
			tagged(6, "go"),
			tagged(7, "go"),
		}

		got := rankByInterests(posts, interests, 5)
		if len(got) != 5 {
			t.Fatalf("rankByInterests returned %d posts, want 5", len(got))
		}
		if got[0].ID != 3 {
			t.Errorf("highest scoring post should rank first, got %d", got[0].ID)
		}
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		posts := []models.Post{
			tagged(1, "Go"),
			tagged(2, "go"),
		}

		got := rankByInterests(posts, interests, 5)
		want := []int64{2}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("rankByInterests = %v, want %v", ids(got), want)
		}
	})

	t.Run("no interests yields no recommendations", func(t *testing.T) {
		posts := []models.Post{tagged(1, "go")}

		got := rankByInterests(posts, nil, 5)
		if len(got) != 0 {
			t.Errorf("rankByInterests with no interests = %v, want empty", ids(got))
		}
	})
}

func TestTopTags(t *testing.T) {
	t.Run("ranked and truncated", func(t *testing.T) {
		rows := []tagCount{
			{Tag: "go", N: 5},
			{Tag: "rust", N: 3},
			{Tag: "java", N: 1},
		}

		got := topTags(rows, 10)
		want := []string{"go", "rust", "java"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("topTags = %v, want %v", got, want)
		}
	})

	t.Run("limit applied", func(t *testing.T) {
		rows := make([]tagCount, 0, 15)
		for i := 0; i < 15; i++ {
			rows = append(rows, tagCount{Tag: string(rune('a' + i)), N: int64(15 - i)})
		}

		got := topTags(rows, 10)
		if len(got) != 10 {
			t.Errorf("topTags returned %d tags, want 10", len(got))
		}
	})

	t.Run("duplicate tag text appears once", func(t *testing.T) {
		rows := []tagCount{
			{Tag: "go", N: 5},
			{Tag: "go", N: 2},
			{Tag: "rust", N: 1},
		}

		got := topTags(rows, 10)
		want := []string{"go", "rust"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("topTags = %v, want %v", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := topTags(nil, 10)
		if len(got) != 0 {
			t.Errorf("topTags(nil) = %v, want empty", got)
		}
	})
}
