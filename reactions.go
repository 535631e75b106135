package main

// ReactionCache mirrors the server-side liked/disliked lists. A nil liked
// slice means the list has not been fetched yet, which is distinct from a
// fetched-and-empty list; the UI shows a loading placeholder only for the
// former.
type ReactionCache struct {
	liked    []ContentItem
	disliked []ContentItem

	likedLoaded    bool
	dislikedLoaded bool
	likedError     string
	dislikedError  string
}

func NewReactionCache() *ReactionCache {
	return &ReactionCache{}
}

func (r *ReactionCache) Liked() []ContentItem { return r.liked }

func (r *ReactionCache) Disliked() []ContentItem { return r.disliked }

func (r *ReactionCache) LikedLoaded() bool { return r.likedLoaded }

func (r *ReactionCache) DislikedLoaded() bool { return r.dislikedLoaded }

func (r *ReactionCache) LikedError() string { return r.likedError }

func (r *ReactionCache) DislikedError() string { return r.dislikedError }

// AddLiked prepends the item to the liked list. Adding an id already present
// is a no-op.
func (r *ReactionCache) AddLiked(item ContentItem) {
	if containsID(r.liked, item.ID) {
		return
	}
	r.liked = append([]ContentItem{item}, r.liked...)
}

func (r *ReactionCache) AddDisliked(item ContentItem) {
	if containsID(r.disliked, item.ID) {
		return
	}
	r.disliked = append([]ContentItem{item}, r.disliked...)
}

// RemoveLiked drops the id from the liked list; absent ids are a no-op.
func (r *ReactionCache) RemoveLiked(id int) {
	r.liked = removeID(r.liked, id)
}

func (r *ReactionCache) RemoveDisliked(id int) {
	r.disliked = removeID(r.disliked, id)
}

func (r *ReactionCache) IsLiked(id int) bool { return containsID(r.liked, id) }

func (r *ReactionCache) IsDisliked(id int) bool { return containsID(r.disliked, id) }

// Apply records the local effect of a reaction: at most one active mark per
// content id, so liking removes any dislike and vice versa.
func (r *ReactionCache) Apply(action ReactionKind, item ContentItem) {
	switch action {
	case ReactionLike:
		r.AddLiked(item)
		r.RemoveDisliked(item.ID)
	case ReactionDislike:
		r.AddDisliked(item)
		r.RemoveLiked(item.ID)
	case ReactionUnmark:
		r.RemoveLiked(item.ID)
		r.RemoveDisliked(item.ID)
	}
}

// Snapshot captures both lists so a failed submission can roll the cache
// back to its pre-mutation state.
func (r *ReactionCache) Snapshot() ReactionSnapshot {
	return ReactionSnapshot{
		liked:    append([]ContentItem(nil), r.liked...),
		disliked: append([]ContentItem(nil), r.disliked...),
		likedNil: r.liked == nil,
	}
}

func (r *ReactionCache) Restore(snapshot ReactionSnapshot) {
	if snapshot.likedNil {
		r.liked = nil
	} else {
		r.liked = snapshot.liked
	}
	r.disliked = snapshot.disliked
}

type ReactionSnapshot struct {
	liked    []ContentItem
	disliked []ContentItem
	likedNil bool
}

// Refresh repopulates both lists from the backend for the given filter
// window. Each list keeps its own error so one failing fetch does not blank
// the other.
func (r *ReactionCache) Refresh(client *Client, filter ContentParams) {
	liked, err := client.Reactions(filter, false)
	if err != nil {
		r.likedError = err.Error()
	} else {
		if liked == nil {
			liked = []ContentItem{}
		}
		r.liked = liked
		r.likedLoaded = true
		r.likedError = ""
	}

	disliked, err := client.Reactions(filter, true)
	if err != nil {
		r.dislikedError = err.Error()
		return
	}
	if disliked == nil {
		disliked = []ContentItem{}
	}
	r.disliked = disliked
	r.dislikedLoaded = true
	r.dislikedError = ""
}

func containsID(items []ContentItem, id int) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func removeID(items []ContentItem, id int) []ContentItem {
	for i, item := range items {
		if item.ID == id {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
