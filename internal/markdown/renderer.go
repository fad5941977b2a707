// Package markdown renders note text for the preview pane.
package markdown

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
)

// Placeholder is rendered when there is nothing to preview.
const Placeholder = "*Start typing to preview...*"

const maxCacheEntries = 64

type cacheKey struct {
	hash  uint64
	width int
}

// Renderer wraps glamour with a per-width renderer pool and a result cache
// keyed by content hash.
type Renderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	cache     map[cacheKey][]string
	order     []cacheKey
}

// NewRenderer creates a renderer using the given glamour style name
// ("dark", "light", "notty"...). Empty means "dark".
func NewRenderer(style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r := &Renderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[cacheKey][]string),
	}
	// Build one renderer up front so a bad style fails early.
	if _, err := r.rendererFor(80); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderContent renders content wrapped to width and returns its lines.
// Blank content renders the placeholder. On renderer failure the raw text
// is returned line by line.
func (r *Renderer) RenderContent(content string, width int) []string {
	if width < 10 {
		width = 10
	}
	if strings.TrimSpace(content) == "" {
		content = Placeholder
	}

	key := cacheKey{hash: xxhash.Sum64String(content), width: width}
	r.mu.Lock()
	defer r.mu.Unlock()
	if lines, ok := r.cache[key]; ok {
		return lines
	}

	tr, err := r.rendererFor(width)
	if err != nil {
		return strings.Split(content, "\n")
	}
	out, err := tr.Render(content)
	if err != nil {
		return strings.Split(content, "\n")
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	r.store(key, lines)
	return lines
}

// rendererFor returns the cached glamour renderer for width. Callers hold mu
// except during construction.
func (r *Renderer) rendererFor(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}

func (r *Renderer) store(key cacheKey, lines []string) {
	if len(r.order) >= maxCacheEntries {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.cache, oldest)
	}
	r.cache[key] = lines
	r.order = append(r.order, key)
}

// CacheLen returns the number of cached renders.
func (r *Renderer) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
