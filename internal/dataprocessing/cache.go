package dataprocessing

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"pickpulse/internal/infrastructure"
	"pickpulse/pkg/contracts/domain"
)

// corpusBuilder is the part of Builder the cache depends on.
type corpusBuilder interface {
	Build(ctx context.Context, files []domain.UploadedFile) domain.Corpus
}

// CorpusCache memoizes the latest corpus build behind a content hash of
// the upload batch. It holds exactly one entry: the service keeps one
// batch at a time, so anything older is garbage. Concurrent requests
// for the same batch share a single build.
type CorpusCache struct {
	builder corpusBuilder
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	group singleflight.Group

	mu     sync.RWMutex
	key    string
	corpus domain.Corpus
	valid  bool
}

// NewCorpusCache creates a corpus cache around a builder.
func NewCorpusCache(builder corpusBuilder, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *CorpusCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CorpusCache{
		builder: builder,
		logger:  logger,
		metrics: metrics,
	}
}

// BatchKey computes the content address of an upload batch: a
// BLAKE2b-256 digest over the length-framed (name, bytes) sequence,
// sorted by name so upload order does not matter. Any changed byte in
// any file changes the key.
func BatchKey(files []domain.UploadedFile) string {
	sorted := make([]domain.UploadedFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h, _ := blake2b.New256(nil)
	var frame [binary.MaxVarintLen64]byte
	for _, f := range sorted {
		n := binary.PutUvarint(frame[:], uint64(len(f.Name)))
		h.Write(frame[:n])
		h.Write([]byte(f.Name))
		n = binary.PutUvarint(frame[:], uint64(len(f.Data)))
		h.Write(frame[:n])
		h.Write(f.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetOrBuild returns the cached corpus when the batch is unchanged,
// otherwise builds and stores it. Identical concurrent builds coalesce.
func (c *CorpusCache) GetOrBuild(ctx context.Context, files []domain.UploadedFile) (domain.Corpus, error) {
	key := BatchKey(files)

	c.mu.RLock()
	if c.valid && c.key == key {
		corpus := c.corpus
		c.mu.RUnlock()
		c.recordHit(ctx)
		return corpus, nil
	}
	c.mu.RUnlock()

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// Re-check in case a coalesced winner already stored it
		c.mu.RLock()
		if c.valid && c.key == key {
			corpus := c.corpus
			c.mu.RUnlock()
			return corpus, nil
		}
		c.mu.RUnlock()

		c.recordMiss(ctx)
		corpus := c.builder.Build(ctx, files)

		c.mu.Lock()
		c.key = key
		c.corpus = corpus
		c.valid = true
		c.mu.Unlock()

		return corpus, nil
	})
	if err != nil {
		return domain.Corpus{}, err
	}

	if shared {
		c.logger.DebugContext(ctx, "corpus build coalesced",
			slog.String("key", key[:12]),
		)
	}

	return v.(domain.Corpus), nil
}

// Invalidate drops the cached entry. The next GetOrBuild rebuilds.
func (c *CorpusCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.corpus = domain.Corpus{}
	c.valid = false
}

func (c *CorpusCache) recordHit(ctx context.Context) {
	if c.metrics == nil {
		return
	}
	c.metrics.CacheHits.Add(ctx, 1)
}

func (c *CorpusCache) recordMiss(ctx context.Context) {
	if c.metrics == nil {
		return
	}
	c.metrics.CacheMisses.Add(ctx, 1)
}
