package lexical

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

type corpusSourceFake struct {
	mu     sync.Mutex
	calls  int
	chunks []domain.Chunk
	err    error
}

func (f *corpusSourceFake) ExportCorpus(context.Context) ([]domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func testPolicy() *domain.AccessPolicy {
	return domain.NewAccessPolicy([]domain.DocumentSource{
		{Name: "handbook.pdf", AccessLevel: domain.AccessPublic},
		{Name: "managers_guide.pdf", AccessLevel: domain.AccessManager},
		{Name: "hr_legal.pdf", AccessLevel: domain.AccessHR},
	})
}

func testCorpus() []domain.Chunk {
	return []domain.Chunk{
		{ID: "pub-1", Content: "vacation policy grants twenty five days annually", Source: "handbook.pdf"},
		{ID: "pub-2", Content: "vacation requests go through the portal days ahead", Source: "handbook.pdf"},
		{ID: "mgr-1", Content: "managers approve vacation requests for direct reports", Source: "managers_guide.pdf"},
		{ID: "hr-1", Content: "vacation disputes escalate to hr legal review", Source: "hr_legal.pdf"},
		{ID: "pub-3", Content: "expense reimbursement unrelated content entirely here", Source: "handbook.pdf"},
	}
}

func newTestIndex(t *testing.T, source *corpusSourceFake) *Index {
	t.Helper()
	return NewIndex(source, testPolicy(), t.TempDir(), "v1", nil)
}

func TestSearchFiltersByRoleBeforeRanking(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{chunks: testCorpus()})

	results, err := index.Search(context.Background(), "vacation requests", domain.RoleEmployee, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected results for employee")
	}
	for _, result := range results {
		if result.Source != "handbook.pdf" {
			t.Fatalf("employee saw %s from %s", result.ID, result.Source)
		}
		if result.SearchType != domain.SearchSparse {
			t.Fatalf("search type = %s, want sparse", result.SearchType)
		}
	}

	results, err = index.Search(context.Background(), "vacation requests", domain.RoleManager, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	sawManagerDoc := false
	for _, result := range results {
		if result.Source == "hr_legal.pdf" {
			t.Fatalf("manager saw hr-only chunk %s", result.ID)
		}
		if result.Source == "managers_guide.pdf" {
			sawManagerDoc = true
		}
	}
	if !sawManagerDoc {
		t.Fatalf("manager results missing managers_guide.pdf: %+v", results)
	}
}

func TestSearchRanksAssignedSequentially(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{chunks: testCorpus()})

	results, err := index.Search(context.Background(), "vacation days policy", domain.RoleHR, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i, result := range results {
		if result.Rank != i+1 {
			t.Fatalf("rank at %d = %d", i, result.Rank)
		}
		if i > 0 && results[i-1].Score < result.Score {
			t.Fatalf("results not sorted by score descending")
		}
	}
}

func TestSearchTopKLimit(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{chunks: testCorpus()})

	results, err := index.Search(context.Background(), "vacation", domain.RoleHR, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) > 2 {
		t.Fatalf("topK=2 returned %d results", len(results))
	}
}

func TestSearchNoVocabularyOverlap(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{chunks: testCorpus()})

	results, err := index.Search(context.Background(), "zzzz qqqq", domain.RoleHR, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestBuildOnceAcrossSearches(t *testing.T) {
	source := &corpusSourceFake{chunks: testCorpus()}
	index := newTestIndex(t, source)

	for i := 0; i < 3; i++ {
		if _, err := index.Search(context.Background(), "vacation", domain.RoleHR, 5); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if source.calls != 1 {
		t.Fatalf("corpus exported %d times, want 1", source.calls)
	}
}

func TestConcurrentFirstSearchBuildsOnce(t *testing.T) {
	source := &corpusSourceFake{chunks: testCorpus()}
	index := newTestIndex(t, source)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = index.Search(context.Background(), "vacation", domain.RoleHR, 5)
		}()
	}
	wg.Wait()

	if source.calls != 1 {
		t.Fatalf("concurrent first searches exported corpus %d times", source.calls)
	}
}

func TestArtifactsReusedByFreshIndex(t *testing.T) {
	cacheDir := t.TempDir()
	source := &corpusSourceFake{chunks: testCorpus()}

	first := NewIndex(source, testPolicy(), cacheDir, "v1", nil)
	if _, err := first.Search(context.Background(), "vacation", domain.RoleHR, 5); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	for _, name := range []string{"vectorizer-v1.json", "corpus-v1.json", "matrix-v1.json"} {
		if _, err := os.Stat(filepath.Join(cacheDir, name)); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}

	// A fresh index over the same cache dir must load, not rebuild.
	second := NewIndex(source, testPolicy(), cacheDir, "v1", nil)
	if _, err := second.Search(context.Background(), "vacation", domain.RoleHR, 5); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("cached artifacts ignored: corpus exported %d times", source.calls)
	}
}

func TestVersionChangeForcesRebuild(t *testing.T) {
	cacheDir := t.TempDir()
	source := &corpusSourceFake{chunks: testCorpus()}

	first := NewIndex(source, testPolicy(), cacheDir, "v1", nil)
	if _, err := first.Search(context.Background(), "vacation", domain.RoleHR, 5); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	second := NewIndex(source, testPolicy(), cacheDir, "v2", nil)
	if _, err := second.Search(context.Background(), "vacation", domain.RoleHR, 5); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("version change did not rebuild: %d exports", source.calls)
	}
}

func TestExportFailureIsIndexUnavailable(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{err: errors.New("pinecone down")})
	_, err := index.Search(context.Background(), "vacation", domain.RoleHR, 5)
	if !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected index unavailable, got %v", err)
	}
}

func TestEmptyCorpusIsIndexUnavailable(t *testing.T) {
	index := newTestIndex(t, &corpusSourceFake{})
	_, err := index.Search(context.Background(), "vacation", domain.RoleHR, 5)
	if !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected index unavailable for empty corpus, got %v", err)
	}
}
