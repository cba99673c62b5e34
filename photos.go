package evergreen

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultPhotoURLs is the stock photo set shown until the user adds photos.
var DefaultPhotoURLs = []string{
	"https://picsum.photos/id/1015/300/300",
	"https://picsum.photos/id/1018/300/300",
	"https://picsum.photos/id/1025/300/300",
	"https://picsum.photos/id/1035/300/300",
	"https://picsum.photos/id/1040/300/300",
	"https://picsum.photos/id/1050/300/300",
	"https://picsum.photos/id/1062/300/300",
	"https://picsum.photos/id/1074/300/300",
	"https://picsum.photos/id/237/300/300",
	"https://picsum.photos/id/238/300/300",
	"https://picsum.photos/id/239/300/300",
	"https://picsum.photos/id/240/300/300",
}

// PhotoRef is one image reference in the photo set. The ID stays with the
// reference for its lifetime in the set so renderers can cache textures.
type PhotoRef struct {
	ID  uuid.UUID
	URL string
}

// PhotoSet is the ordered, externally mutable list of photos shown as
// cards. It may be replaced or appended to at any time between frames; the
// scene re-reads its length every frame.
type PhotoSet struct {
	mu      sync.RWMutex
	refs    []PhotoRef
	version uint64
}

// NewPhotoSet creates a set holding urls in order.
func NewPhotoSet(urls ...string) *PhotoSet {
	s := &PhotoSet{}
	s.refs = newRefs(urls)
	return s
}

// NewDefaultPhotoSet creates a set holding DefaultPhotoURLs.
func NewDefaultPhotoSet() *PhotoSet {
	return NewPhotoSet(DefaultPhotoURLs...)
}

func newRefs(urls []string) []PhotoRef {
	refs := make([]PhotoRef, len(urls))
	for i, u := range urls {
		refs[i] = PhotoRef{ID: uuid.New(), URL: u}
	}
	return refs
}

// Len returns the number of photos.
func (s *PhotoSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.refs)
}

// Refs returns a copy of the current references.
func (s *PhotoSet) Refs() []PhotoRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PhotoRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// URLs returns the current image references in order.
func (s *PhotoSet) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.refs))
	for i, r := range s.refs {
		out[i] = r.URL
	}
	return out
}

// Version increases on every mutation.
func (s *PhotoSet) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns the references together with the version they belong to.
func (s *PhotoSet) Snapshot() ([]PhotoRef, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PhotoRef, len(s.refs))
	copy(out, s.refs)
	return out, s.version
}

// Replace swaps the whole set for urls.
func (s *PhotoSet) Replace(urls ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = newRefs(urls)
	s.version++
}

// Append adds urls to the end of the set.
func (s *PhotoSet) Append(urls ...string) {
	if len(urls) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = append(s.refs, newRefs(urls)...)
	s.version++
}

// AddUploaded adds user photos. While the stock set is still shown it is
// replaced entirely; afterwards uploads are appended.
func (s *PhotoSet) AddUploaded(urls ...string) {
	if len(urls) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isDefaultLocked() {
		s.refs = newRefs(urls)
	} else {
		s.refs = append(s.refs, newRefs(urls)...)
	}
	s.version++
}

// IsDefault reports whether the set still shows the stock photos.
func (s *PhotoSet) IsDefault() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isDefaultLocked()
}

func (s *PhotoSet) isDefaultLocked() bool {
	return len(s.refs) == len(DefaultPhotoURLs) && s.refs[0].URL == DefaultPhotoURLs[0]
}
