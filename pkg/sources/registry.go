package sources

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Yui007/MangaForge/pkg/config"
)

// ErrSourceNotFound reports a lookup for a source id that is not
// registered or not enabled.
var ErrSourceNotFound = errors.New("unknown source")

// Registry holds the known sources. The list is explicit and fixed at
// startup; nothing is discovered by scanning.
type Registry struct {
	sources map[string]Source
}

// NewRegistry constructs every known source and keeps the ones the
// config enables.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{sources: make(map[string]Source)}
	for _, src := range []Source{
		NewMangaDex(cfg),
		NewMangaPill(cfg),
		NewMock(),
	} {
		if cfg.SourceEnabled(src.ID()) {
			r.sources[src.ID()] = src
		}
	}
	return r
}

// Get returns the source registered under id.
func (r *Registry) Get(id string) (Source, error) {
	src, ok := r.sources[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrSourceNotFound, id, strings.Join(r.IDs(), ", "))
	}
	return src, nil
}

// FromURL finds the source whose site serves the given URL.
func (r *Registry) FromURL(rawURL string) (Source, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, false
	}
	host := strings.TrimPrefix(parsed.Host, "www.")

	for _, id := range r.IDs() {
		src := r.sources[id]
		base, err := url.Parse(src.BaseURL())
		if err != nil {
			continue
		}
		if strings.TrimPrefix(base.Host, "www.") == host {
			return src, true
		}
	}
	return nil, false
}

// IDs returns the registered source ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the registered sources ordered by id.
func (r *Registry) List() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, id := range r.IDs() {
		out = append(out, r.sources[id])
	}
	return out
}
