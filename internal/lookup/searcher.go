package lookup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"semihos/internal/cache"
	"semihos/internal/log"
)

// Options tunes a Searcher.
type Options struct {
	Debounce  time.Duration
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Logger    *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Debounce:  500 * time.Millisecond,
		Timeout:   10 * time.Second,
		CacheSize: 128,
		CacheTTL:  10 * time.Minute,
	}
}

// Searcher debounces queries typed by one user. Every call gets a sequence
// number; starting a call cancels the one in flight and only the latest
// call ever returns results.
type Searcher struct {
	source Source
	opts   Options
	logger *log.Logger
	group  singleflight.Group
	cache  *cache.LRUCache[[]Product]

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSearcher(source Source, opts Options) *Searcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Searcher{
		source: source,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentLookup),
		cache:  cache.NewLRUCache[[]Product](opts.CacheSize, opts.CacheTTL),
	}
}

// Cache exposes the result cache so it can be swept by a cache.Manager.
func (s *Searcher) Cache() *cache.LRUCache[[]Product] { return s.cache }

func (s *Searcher) begin(parent context.Context) (context.Context, uint64, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.seq++
	s.cancel = cancel
	return ctx, s.seq, cancel
}

func (s *Searcher) latest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}

// Search returns matching products. Queries shorter than MinQueryLength
// return an empty result without calling the source. A call overtaken by a
// newer one returns ErrSuperseded.
func (s *Searcher) Search(ctx context.Context, query string) ([]Product, error) {
	ctx, seq, cancel := s.begin(ctx)
	defer cancel()

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Product{}, nil
	}
	key := strings.ToLower(query)
	if hit, ok := s.cache.Get(key); ok {
		return hit, nil
	}

	if s.opts.Debounce > 0 {
		timer := time.NewTimer(s.opts.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, s.abandoned(ctx, seq)
		case <-timer.C:
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
		defer cancel()
		return s.source.Search(fetchCtx, query)
	})

	select {
	case <-ctx.Done():
		return nil, s.abandoned(ctx, seq)
	case res := <-ch:
		if res.Err != nil {
			s.logger.WarnContext(ctx, "Product lookup failed", log.FieldOperation, log.OpSearch, log.FieldSearchTerm, query, log.FieldError, res.Err)
			if !errors.Is(res.Err, ErrLookupFailed) {
				return nil, errors.Join(ErrLookupFailed, res.Err)
			}
			return nil, res.Err
		}
		products := res.Val.([]Product)
		s.cache.Set(key, products)
		if !s.latest(seq) {
			return nil, ErrSuperseded
		}
		return products, nil
	}
}

func (s *Searcher) abandoned(ctx context.Context, seq uint64) error {
	if !s.latest(seq) {
		return ErrSuperseded
	}
	return ctx.Err()
}
