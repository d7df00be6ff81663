package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	ngramMin = 1
	ngramMax = 3

	maxFeatures = 10000

	// Terms in fewer than minDocFreq documents, or in more than
	// maxDocFreqRatio of them, carry no discriminating signal and are
	// dropped from the vocabulary.
	minDocFreq      = 2
	maxDocFreqRatio = 0.95
)

// sparseVec is one L2-normalized document (or query) vector. Indices
// are strictly increasing; dot products walk both slices in one pass.
type sparseVec struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

func (v sparseVec) dot(other sparseVec) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer is a fitted TF-IDF model: unigram through trigram
// features over stop-word-filtered tokens, sublinear term-frequency
// scaling, smoothed inverse document frequencies, L2-normalized output.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// fitVectorizer learns the vocabulary and document frequencies from the
// corpus texts. When more than maxFeatures terms survive the frequency
// cutoffs, the most frequent terms across the corpus are kept.
func fitVectorizer(texts []string) *Vectorizer {
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for _, text := range texts {
		counts := termCounts(text)
		for term, count := range counts {
			docFreq[term]++
			corpusFreq[term] += count
		}
	}

	numDocs := len(texts)
	maxDF := int(maxDocFreqRatio * float64(numDocs))

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < minDocFreq {
			continue
		}
		if numDocs >= minDocFreq && df > maxDF {
			continue
		}
		kept = append(kept, term)
	}

	if len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
				return corpusFreq[kept[i]] > corpusFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}
	sort.Strings(kept)

	vocabulary := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		vocabulary[term] = i
		// Smoothed idf: every term behaves as if seen in one extra
		// document, so idf never divides by zero and never goes
		// negative.
		idf[i] = math.Log(float64(1+numDocs)/float64(1+docFreq[term])) + 1
	}

	return &Vectorizer{Vocabulary: vocabulary, IDF: idf}
}

// Transform maps a text to its L2-normalized TF-IDF vector. Terms
// outside the vocabulary are ignored.
func (v *Vectorizer) Transform(text string) sparseVec {
	counts := termCounts(text)
	if len(counts) == 0 {
		return sparseVec{}
	}

	weights := make(map[int]float64, len(counts))
	for term, count := range counts {
		idx, ok := v.Vocabulary[term]
		if !ok {
			continue
		}
		// Sublinear tf: repeated terms gain, but logarithmically.
		weights[idx] = (1 + math.Log(float64(count))) * v.IDF[idx]
	}
	if len(weights) == 0 {
		return sparseVec{}
	}

	indices := make([]int, 0, len(weights))
	for idx := range weights {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var norm float64
	for _, w := range weights {
		norm += w * w
	}
	norm = math.Sqrt(norm)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx] / norm
	}
	return sparseVec{Indices: indices, Values: values}
}

// termCounts tokenizes a text and counts its unigram-through-trigram
// features, with stop words removed before n-grams are formed.
func termCounts(text string) map[string]int {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens)*2)
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return counts
}

// tokenize lowercases and splits on non-alphanumeric runs, dropping
// single-character tokens and stop words.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	out := make([]string, 0, 32)
	var b strings.Builder
	flush := func() {
		if b.Len() >= 2 {
			token := b.String()
			if !isStopWord(token) {
				out = append(out, token)
			}
		}
		b.Reset()
	}

	for _, r := range text {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
