package main

import (
	"net/http"
	"testing"
)

func TestReactionCacheIdempotentAdd(t *testing.T) {
	cache := NewReactionCache()
	item := ContentItem{ID: 42, Name: "Concert"}

	cache.AddLiked(item)
	cache.AddLiked(item)
	if len(cache.Liked()) != 1 {
		t.Fatalf("adding a present id must be a no-op, got %d entries", len(cache.Liked()))
	}

	cache.AddDisliked(item)
	cache.AddDisliked(item)
	if len(cache.Disliked()) != 1 {
		t.Fatalf("disliked add not idempotent")
	}
}

func TestReactionCacheRemoveAbsent(t *testing.T) {
	cache := NewReactionCache()
	cache.RemoveLiked(99)
	cache.RemoveDisliked(99)
	if len(cache.Liked()) != 0 || len(cache.Disliked()) != 0 {
		t.Fatalf("removal of absent ids must be a no-op")
	}
}

func TestReactionCacheMutualExclusion(t *testing.T) {
	cache := NewReactionCache()
	item := ContentItem{ID: 42}

	cache.Apply(ReactionLike, item)
	if !cache.IsLiked(42) || cache.IsDisliked(42) {
		t.Fatalf("expected liked only")
	}
	cache.Apply(ReactionDislike, item)
	if cache.IsLiked(42) || !cache.IsDisliked(42) {
		t.Fatalf("dislike must move the item out of the liked set")
	}
	cache.Apply(ReactionUnmark, item)
	if cache.IsLiked(42) || cache.IsDisliked(42) {
		t.Fatalf("unmark must clear both sets")
	}
}

func TestReactionCacheNewestFirst(t *testing.T) {
	cache := NewReactionCache()
	cache.AddLiked(ContentItem{ID: 1})
	cache.AddLiked(ContentItem{ID: 2})
	if cache.Liked()[0].ID != 2 {
		t.Fatalf("newest like must come first")
	}
}

func TestReactionCacheSnapshotRestore(t *testing.T) {
	cache := NewReactionCache()
	cache.AddLiked(ContentItem{ID: 1})
	cache.AddDisliked(ContentItem{ID: 2})

	snapshot := cache.Snapshot()
	cache.Apply(ReactionLike, ContentItem{ID: 2})
	if !cache.IsLiked(2) || cache.IsDisliked(2) {
		t.Fatalf("apply did not run")
	}

	cache.Restore(snapshot)
	if !cache.IsLiked(1) || cache.IsLiked(2) || !cache.IsDisliked(2) {
		t.Fatalf("restore did not bring back the snapshot state")
	}
}

func TestReactionCacheSnapshotPreservesNotLoaded(t *testing.T) {
	cache := NewReactionCache()
	snapshot := cache.Snapshot()
	cache.AddLiked(ContentItem{ID: 1})
	cache.Restore(snapshot)
	if cache.Liked() != nil {
		t.Fatalf("restore must keep the not-yet-loaded nil state")
	}
}

func TestReactionCacheRefresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		if r.URL.Query().Get("value") == "false" {
			_, _ = w.Write([]byte(`[{"id":5,"name":"Bad show","description":"d"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	cache := NewReactionCache()
	if cache.Liked() != nil {
		t.Fatalf("liked must start as not-loaded")
	}
	cache.Refresh(client, ContentParams{})
	if !cache.LikedLoaded() || !cache.DislikedLoaded() {
		t.Fatalf("both lists must be marked loaded")
	}
	if cache.Liked() == nil || len(cache.Liked()) != 0 {
		t.Fatalf("loaded-and-empty must be an empty slice, not nil")
	}
	if len(cache.Disliked()) != 1 || cache.Disliked()[0].ID != 5 {
		t.Fatalf("disliked list not populated: %+v", cache.Disliked())
	}
}

func TestReactionCacheRefreshKeepsListsSeparate(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("value") == "false" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"dislikes broken"}`))
			return
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Good show","description":"d"}]`))
	})
	cache := NewReactionCache()
	cache.Refresh(client, ContentParams{})
	if !cache.LikedLoaded() || len(cache.Liked()) != 1 {
		t.Fatalf("liked list must load despite the disliked failure")
	}
	if cache.DislikedLoaded() || cache.DislikedError() == "" {
		t.Fatalf("disliked failure must be recorded")
	}
	if calls != 2 {
		t.Fatalf("expected two list fetches, got %d", calls)
	}
}
