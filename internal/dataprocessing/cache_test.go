package dataprocessing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

// countingBuilder stands in for the real Builder and tracks how often
// Build actually runs.
type countingBuilder struct {
	builds int64
	delay  time.Duration
	corpus domain.Corpus
}

func (b *countingBuilder) Build(ctx context.Context, files []domain.UploadedFile) domain.Corpus {
	atomic.AddInt64(&b.builds, 1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	return b.corpus
}

func sampleBatch() []domain.UploadedFile {
	return []domain.UploadedFile{
		{Name: "피킹바코드입력-20240101.xlsx", Data: []byte("workbook-a")},
		{Name: "피킹바코드입력-20240102.xlsx", Data: []byte("workbook-b")},
	}
}

func TestGetOrBuildCachesByContent(t *testing.T) {
	builder := &countingBuilder{corpus: domain.Corpus{
		Records: []domain.PickRecord{{Worker: "김철수", Picks: 50}},
	}}
	cache := NewCorpusCache(builder, testLogger(), nil)

	first, err := cache.GetOrBuild(context.Background(), sampleBatch())
	require.NoError(t, err)
	second, err := cache.GetOrBuild(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&builder.builds))
	assert.Equal(t, first, second)
}

func TestGetOrBuildRebuildsWhenContentChanges(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewCorpusCache(builder, testLogger(), nil)

	_, err := cache.GetOrBuild(context.Background(), sampleBatch())
	require.NoError(t, err)

	changed := sampleBatch()
	changed[1].Data = []byte("workbook-b CHANGED")
	_, err = cache.GetOrBuild(context.Background(), changed)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&builder.builds))
}

func TestGetOrBuildRebuildsAfterInvalidate(t *testing.T) {
	builder := &countingBuilder{}
	cache := NewCorpusCache(builder, testLogger(), nil)

	_, err := cache.GetOrBuild(context.Background(), sampleBatch())
	require.NoError(t, err)

	cache.Invalidate()

	_, err = cache.GetOrBuild(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&builder.builds))
}

func TestConcurrentIdenticalBuildsCoalesce(t *testing.T) {
	builder := &countingBuilder{delay: 50 * time.Millisecond}
	cache := NewCorpusCache(builder, testLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.GetOrBuild(context.Background(), sampleBatch())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&builder.builds))
}

func TestBatchKey(t *testing.T) {
	batch := sampleBatch()

	// Upload order does not change the key
	reversed := []domain.UploadedFile{batch[1], batch[0]}
	assert.Equal(t, BatchKey(batch), BatchKey(reversed))

	// Any changed byte does
	changed := sampleBatch()
	changed[0].Data = append(changed[0].Data, 0x00)
	assert.NotEqual(t, BatchKey(batch), BatchKey(changed))

	// A renamed file does
	renamed := sampleBatch()
	renamed[0].Name = "피킹바코드입력-20240103.xlsx"
	assert.NotEqual(t, BatchKey(batch), BatchKey(renamed))

	// Name/data boundaries are framed, not concatenated
	a := []domain.UploadedFile{{Name: "ab", Data: []byte("c")}}
	b := []domain.UploadedFile{{Name: "a", Data: []byte("bc")}}
	assert.NotEqual(t, BatchKey(a), BatchKey(b))
}
