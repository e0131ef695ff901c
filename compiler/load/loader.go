package load

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DuplicatePolicy decides what happens when two documents claim the
// same title.
type DuplicatePolicy int

const (
	// Strict fails with a DuplicateTypeError. The default.
	Strict DuplicatePolicy = iota
	// LastWins keeps the document that sorts last by $id (falling
	// back to path) and records the shadowed $id values on the
	// survivor. Intended for corpora carrying several schema versions
	// side by side.
	LastWins
)

// Loader reads a schema corpus from disk. The zero value is usable;
// options adjust the duplicate policy and parallelism.
type Loader struct {
	policy  DuplicatePolicy
	workers int
}

// Option configures a Loader.
type Option func(*Loader)

// WithDuplicatePolicy sets the title-collision policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithWorkers bounds the parallel file reads.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Corpus is the loaded, frozen input of one generation run. It is
// built once by the loader and treated as read-only afterwards.
type Corpus struct {
	// Schemas in deterministic (path) order.
	Schemas []*Schema
	// Vocabularies from *.jsonld documents.
	Vocabularies []*Vocabulary
	// Digest identifies the corpus content; unchanged input yields an
	// unchanged digest.
	Digest string

	byTitle map[string]*Schema
}

// Schema returns the schema with the given title.
func (c *Corpus) Schema(title string) (*Schema, bool) {
	s, ok := c.byTitle[title]
	return s, ok
}

// Titles returns all schema titles in sorted order.
func (c *Corpus) Titles() []string {
	titles := make([]string, 0, len(c.byTitle))
	for t := range c.byTitle {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Load reads every *.schema.json and *.jsonld under dir.
func (l *Loader) Load(ctx context.Context, dir string) (*Corpus, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".schema.json") || strings.HasSuffix(path, ".jsonld") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(ctx, paths...)
}

// LoadFiles reads and parses the given documents. Files are read in
// parallel; documents are immutable inputs, so no ordering is needed
// until the final deterministic sort.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) (*Corpus, error) {
	var (
		mu      sync.Mutex
		schemas []*Schema
		vocabs  []*Vocabulary
		sums    = make(map[string][sha256.Size]byte, len(paths))
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(l.workers)
	for _, path := range paths {
		path := path
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if strings.HasSuffix(path, ".jsonld") {
				v, err := UnmarshalVocabulary(path, data)
				if err != nil {
					return err
				}
				mu.Lock()
				vocabs = append(vocabs, v)
				sums[path] = sha256.Sum256(data)
				mu.Unlock()
				return nil
			}
			s, err := UnmarshalSchema(path, data)
			if err != nil {
				return err
			}
			mu.Lock()
			schemas = append(schemas, s)
			sums[path] = sha256.Sum256(data)
			mu.Unlock()
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Path < schemas[j].Path })
	sort.Slice(vocabs, func(i, j int) bool { return vocabs[i].Path < vocabs[j].Path })

	byTitle, merged, err := l.resolveDuplicates(schemas)
	if err != nil {
		return nil, err
	}
	return &Corpus{
		Schemas:      merged,
		Vocabularies: vocabs,
		Digest:       digest(sums),
		byTitle:      byTitle,
	}, nil
}

// resolveDuplicates applies the duplicate policy over path-ordered
// schemas.
func (l *Loader) resolveDuplicates(schemas []*Schema) (map[string]*Schema, []*Schema, error) {
	grouped := make(map[string][]*Schema)
	order := make([]string, 0, len(schemas))
	for _, s := range schemas {
		if _, seen := grouped[s.Title]; !seen {
			order = append(order, s.Title)
		}
		grouped[s.Title] = append(grouped[s.Title], s)
	}
	byTitle := make(map[string]*Schema, len(grouped))
	merged := make([]*Schema, 0, len(grouped))
	for _, title := range order {
		group := grouped[title]
		if len(group) == 1 {
			byTitle[title] = group[0]
			merged = append(merged, group[0])
			continue
		}
		if l.policy == Strict {
			paths := make([]string, len(group))
			for i, s := range group {
				paths[i] = s.Path
			}
			return nil, nil, &DuplicateTypeError{Title: title, Paths: paths}
		}
		// LastWins: order by $id, then path, and keep the last.
		sort.Slice(group, func(i, j int) bool {
			if group[i].ID != group[j].ID {
				return group[i].ID < group[j].ID
			}
			return group[i].Path < group[j].Path
		})
		winner := group[len(group)-1]
		for _, shadowed := range group[:len(group)-1] {
			id := shadowed.ID
			if id == "" {
				id = shadowed.Path
			}
			winner.ShadowedIDs = append(winner.ShadowedIDs, id)
		}
		byTitle[title] = winner
		merged = append(merged, winner)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Path < merged[j].Path })
	return byTitle, merged, nil
}

// digest folds the per-file content hashes, in path order, into one
// corpus identity.
func digest(sums map[string][sha256.Size]byte) string {
	paths := make([]string, 0, len(sums))
	for p := range sums {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	h := sha256.New()
	for _, p := range paths {
		// Base name only, so the digest is stable across checkouts.
		h.Write([]byte(filepath.Base(p)))
		sum := sums[p]
		h.Write(sum[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
