package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/evergreen"
)

const (
	// maxConcurrentLoads bounds parallel photo fetches.
	maxConcurrentLoads = 4
	// fetchTimeout bounds a single remote photo fetch.
	fetchTimeout = 15 * time.Second
	// maxPhotoBytes bounds a single photo download.
	maxPhotoBytes = 16 << 20
	// memoryScheme prefixes photos held in memory, such as dropped files.
	memoryScheme = "mem://"
)

// PhotoCache loads photo textures in the background, keyed by PhotoRef ID.
// Image returns nil until a photo is ready; the renderer draws a
// placeholder meanwhile.
type PhotoCache struct {
	logger *slog.Logger
	client *http.Client
	sem    chan struct{}

	mu      sync.Mutex
	images  map[uuid.UUID]*ebiten.Image
	pending map[uuid.UUID]bool
	failed  map[uuid.UUID]bool
	memory  map[string][]byte
}

// NewPhotoCache creates an empty cache. A nil logger uses slog.Default().
func NewPhotoCache(logger *slog.Logger) *PhotoCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoCache{
		logger:  logger,
		client:  &http.Client{Timeout: fetchTimeout},
		sem:     make(chan struct{}, maxConcurrentLoads),
		images:  map[uuid.UUID]*ebiten.Image{},
		pending: map[uuid.UUID]bool{},
		failed:  map[uuid.UUID]bool{},
		memory:  map[string][]byte{},
	}
}

// AddMemory registers encoded image data under name and returns the URL to
// put in the photo set.
func (c *PhotoCache) AddMemory(name string, data []byte) string {
	url := memoryScheme + uuid.NewString() + "/" + name
	c.mu.Lock()
	c.memory[url] = data
	c.mu.Unlock()
	return url
}

// Image returns the texture for ref, starting a load on first request.
func (c *PhotoCache) Image(ref evergreen.PhotoRef) *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[ref.ID]; ok {
		return img
	}
	if c.pending[ref.ID] || c.failed[ref.ID] {
		return nil
	}
	c.pending[ref.ID] = true
	go c.load(ref)
	return nil
}

// Ready returns the number of loaded photos.
func (c *PhotoCache) Ready() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

func (c *PhotoCache) load(ref evergreen.PhotoRef) {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	img, err := c.decode(ref.URL)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, ref.ID)
	if err != nil {
		c.failed[ref.ID] = true
		c.logger.Warn("photo load failed", "url", ref.URL, "err", err)
		return
	}
	c.images[ref.ID] = img
	c.logger.Debug("photo loaded", "url", ref.URL)
}

func (c *PhotoCache) decode(url string) (*ebiten.Image, error) {
	r, err := c.open(url)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := ebitenutil.NewImageFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// open resolves a photo URL: http(s) is fetched, mem:// is read from memory
// and anything else is a local file path.
func (c *PhotoCache) open(url string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			cancel()
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
		resp.Body.Close()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(url, memoryScheme):
		c.mu.Lock()
		data, ok := c.memory[url]
		c.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("no data for %s", url)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	default:
		return os.Open(strings.TrimPrefix(url, "file://"))
	}
}
