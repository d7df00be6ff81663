package lexical

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
)

const (
	// Results below this cosine similarity are noise and are dropped.
	minSimilarity = 0.01
)

// Index is the TF-IDF sparse search over the chunk corpus. The fitted
// vectorizer, the corpus snapshot, and the document-term matrix are
// cached to disk keyed by corpus version; the index builds itself
// lazily on first use and rebuilds transparently when the artifacts are
// absent or belong to another corpus version.
type Index struct {
	source   ports.CorpusSource
	policy   *domain.AccessPolicy
	cacheDir string
	version  string
	logger   *slog.Logger

	// Guards the lazy build: concurrent first callers must not race
	// to write the same cache files.
	mu    sync.Mutex
	ready bool

	vectorizer *Vectorizer
	corpus     []domain.Chunk
	matrix     []sparseVec
}

func NewIndex(
	source ports.CorpusSource,
	policy *domain.AccessPolicy,
	cacheDir, corpusVersion string,
	logger *slog.Logger,
) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		source:   source,
		policy:   policy,
		cacheDir: cacheDir,
		version:  corpusVersion,
		logger:   logger,
	}
}

// Search ranks accessible chunks by cosine similarity against the query
// vector. The corpus is filtered by the role's allowed sources before
// ranking, so topK is measured over the accessible subset only.
func (x *Index) Search(
	ctx context.Context,
	query string,
	role domain.Role,
	topK int,
) ([]domain.ScoredChunk, error) {
	if err := x.ensureBuilt(ctx); err != nil {
		return nil, err
	}

	queryVec := x.vectorizer.Transform(query)
	if len(queryVec.Indices) == 0 {
		return nil, nil
	}

	type scoredRow struct {
		row        int
		similarity float64
	}

	rows := make([]scoredRow, 0, 64)
	for i, chunk := range x.corpus {
		if !x.policy.SourceAccessible(role, chunk.Source) {
			continue
		}
		// Document vectors are L2-normalized at build time, the
		// query vector at transform time, so the dot product is the
		// cosine similarity.
		similarity := queryVec.dot(x.matrix[i])
		if similarity > minSimilarity {
			rows = append(rows, scoredRow{row: i, similarity: similarity})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].similarity != rows[j].similarity {
			return rows[i].similarity > rows[j].similarity
		}
		return x.corpus[rows[i].row].ID < x.corpus[rows[j].row].ID
	})
	if topK > 0 && len(rows) > topK {
		rows = rows[:topK]
	}

	out := make([]domain.ScoredChunk, 0, len(rows))
	for rank, row := range rows {
		out = append(out, domain.ScoredChunk{
			Chunk:      x.corpus[row.row],
			Score:      row.similarity,
			SearchType: domain.SearchSparse,
			Rank:       rank + 1,
		})
	}
	return out, nil
}

func (x *Index) ensureBuilt(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.ready {
		return nil
	}

	if err := x.loadArtifacts(); err == nil {
		x.ready = true
		x.logger.Info("lexical_index_loaded", "documents", len(x.corpus), "features", len(x.vectorizer.IDF), "corpus_version", x.version)
		return nil
	} else if !os.IsNotExist(err) {
		x.logger.Warn("lexical_index_cache_unusable", "error", err)
	}

	if err := x.build(ctx); err != nil {
		return err
	}
	x.ready = true
	return nil
}

func (x *Index) build(ctx context.Context) error {
	chunks, err := x.source.ExportCorpus(ctx)
	if err != nil {
		return domain.WrapError(domain.ErrIndexUnavailable, "export corpus", err)
	}
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrIndexUnavailable, "build lexical index", fmt.Errorf("corpus source returned no chunks"))
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectorizer := fitVectorizer(texts)
	matrix := make([]sparseVec, len(texts))
	for i, text := range texts {
		matrix[i] = vectorizer.Transform(text)
	}

	x.vectorizer = vectorizer
	x.corpus = chunks
	x.matrix = matrix

	if err := x.saveArtifacts(); err != nil {
		// The in-memory index still serves; only the next process
		// start pays the rebuild again.
		x.logger.Warn("lexical_index_cache_write_failed", "error", err)
	}

	x.logger.Info("lexical_index_built", "documents", len(chunks), "features", len(vectorizer.IDF), "corpus_version", x.version)
	return nil
}

func (x *Index) artifactPath(name string) string {
	return filepath.Join(x.cacheDir, fmt.Sprintf("%s-%s.json", name, x.version))
}

func (x *Index) loadArtifacts() error {
	var vectorizer Vectorizer
	if err := readJSONFile(x.artifactPath("vectorizer"), &vectorizer); err != nil {
		return err
	}
	var corpus []domain.Chunk
	if err := readJSONFile(x.artifactPath("corpus"), &corpus); err != nil {
		return err
	}
	var matrix []sparseVec
	if err := readJSONFile(x.artifactPath("matrix"), &matrix); err != nil {
		return err
	}
	if len(corpus) == 0 || len(corpus) != len(matrix) {
		return fmt.Errorf("lexical cache artifacts disagree: %d corpus rows, %d matrix rows", len(corpus), len(matrix))
	}

	x.vectorizer = &vectorizer
	x.corpus = corpus
	x.matrix = matrix
	return nil
}

func (x *Index) saveArtifacts() error {
	if err := os.MkdirAll(x.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := writeJSONFile(x.artifactPath("vectorizer"), x.vectorizer); err != nil {
		return err
	}
	if err := writeJSONFile(x.artifactPath("corpus"), x.corpus); err != nil {
		return err
	}
	return writeJSONFile(x.artifactPath("matrix"), x.matrix)
}

func readJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSONFile(path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}
