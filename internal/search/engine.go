// Package search executes glob pattern queries against a directory
// subtree and accumulates matches. A newer query always supersedes an
// in-flight one: a superseded traversal aborts and publishes nothing,
// so the result set never mixes two queries' matches.
package search

import (
	iofs "io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"astrofs/internal/catalog"
	"astrofs/internal/errors"
	"astrofs/internal/log"
	"astrofs/pkg/types"

	"github.com/agnivade/levenshtein"
	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"
)

// FilterFunc is a plugin-registered search provider hook. It receives
// the query pattern and the ordered result set and returns the set to
// publish; it must not retain the slice.
type FilterFunc func(pattern string, results []types.Entry) []types.Entry

// Engine is the search subsystem. All methods are safe for concurrent
// use; result publication is guarded by a generation counter so only
// the latest query's traversal may publish.
type Engine struct {
	mu         sync.Mutex
	results    []types.Entry
	query      string
	filters    map[string]FilterFunc
	gen        atomic.Uint64
	maxResults int
	maxDepth   int
}

// New creates a search engine bounded to maxResults matches and
// maxDepth directory levels per query.
func New(maxResults, maxDepth int) *Engine {
	return &Engine{
		filters:    make(map[string]FilterFunc),
		maxResults: maxResults,
		maxDepth:   maxDepth,
	}
}

// errSuperseded aborts a traversal whose generation is stale.
var errSuperseded = errors.New(errors.Unknown, "search superseded")

// Search runs pattern against the subtree rooted at root and returns
// the published result set. Patterns use glob semantics (`*`, `?`,
// character ranges) matched case-insensitively anywhere in the entry
// name, so "log" and "log*" both find "catalog.txt". If a newer Search
// call arrives while this one is walking, this traversal aborts and
// returns the newer query's results.
func (e *Engine) Search(root, pattern string) ([]types.Entry, error) {
	if pattern == "" {
		return nil, errors.New(errors.InvalidArgument, "empty search pattern")
	}
	// Unanchored: a name matches when any part of it matches the pattern.
	matcher, err := glob.Compile("*" + strings.ToLower(pattern) + "*")
	if err != nil {
		return nil, errors.Wrap(errors.InvalidArgument, err, "malformed search pattern")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.FromOS(root, err)
	}

	gen := e.gen.Add(1)
	log.Debug("search gen=%d pattern=%q root=%s", gen, pattern, absRoot)

	var (
		collectMu sync.Mutex
		matches   []types.Entry
	)
	conf := &fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d iofs.DirEntry, err error) error {
		// A newer query owns the result set now; stop wasting the walk.
		if e.gen.Load() != gen {
			return errSuperseded
		}
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if path == absRoot {
			return nil
		}
		if d.IsDir() && e.depthOf(absRoot, path) >= e.maxDepth {
			return fastwalk.SkipDir
		}
		name := d.Name()
		if !matcher.Match(strings.ToLower(name)) {
			return nil
		}
		info, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			return nil
		}
		entry := types.Entry{
			Path:   path,
			Name:   name,
			IsDir:  d.IsDir(),
			Size:   info.Size(),
			Hidden: catalog.IsHiddenName(name),
		}
		collectMu.Lock()
		matches = append(matches, entry)
		collectMu.Unlock()
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, errSuperseded) {
		return nil, errors.WrapPath(errors.IOError, walkErr, "search walk failed", absRoot)
	}

	rankResults(matches, pattern)
	if len(matches) > e.maxResults {
		matches = matches[:e.maxResults]
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Publish only if no newer query started meanwhile.
	if e.gen.Load() == gen {
		for _, id := range e.filterOrder() {
			matches = e.filters[id](pattern, matches)
		}
		e.results = matches
		e.query = pattern
	}
	return e.resultsLocked(), nil
}

// Results returns a copy of the last published result set.
func (e *Engine) Results() []types.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resultsLocked()
}

// Query returns the pattern that produced the current result set.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Clear empties the result set. It is idempotent and also invalidates
// any in-flight traversal.
func (e *Engine) Clear() {
	e.gen.Add(1)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results = nil
	e.query = ""
}

// RegisterFilter attaches a plugin search provider under its owner id.
// Re-registering under the same id replaces the previous hook.
func (e *Engine) RegisterFilter(id string, fn FilterFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters[id] = fn
}

// UnregisterFilter detaches the provider registered under id. Unknown
// ids are ignored.
func (e *Engine) UnregisterFilter(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.filters, id)
}

func (e *Engine) resultsLocked() []types.Entry {
	out := make([]types.Entry, len(e.results))
	copy(out, e.results)
	return out
}

// filterOrder returns filter ids sorted for deterministic application.
// Caller holds e.mu.
func (e *Engine) filterOrder() []string {
	ids := make([]string, 0, len(e.filters))
	for id := range e.filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *Engine) depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// rankResults orders matches by relevance: exact name, then prefix,
// then substring of the pattern's literal text, breaking ties by edit
// distance and finally by path for stability.
func rankResults(matches []types.Entry, pattern string) {
	literal := strings.ToLower(strings.Map(func(r rune) rune {
		switch r {
		case '*', '?', '[', ']', '{', '}':
			return -1
		}
		return r
	}, pattern))

	score := func(e types.Entry) int {
		name := strings.ToLower(e.Name)
		switch {
		case literal == "":
			return 0
		case name == literal:
			return 1000
		case strings.HasPrefix(name, literal):
			return 500
		case strings.Contains(name, literal):
			return 250
		}
		return 0
	}

	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := score(matches[i]), score(matches[j])
		if si != sj {
			return si > sj
		}
		if literal != "" {
			di := levenshtein.ComputeDistance(strings.ToLower(matches[i].Name), literal)
			dj := levenshtein.ComputeDistance(strings.ToLower(matches[j].Name), literal)
			if di != dj {
				return di < dj
			}
		}
		return matches[i].Path < matches[j].Path
	})
}
