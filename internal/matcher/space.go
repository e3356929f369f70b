package matcher

import (
	"math"
	"sort"

	"github.com/spigell/hh-matcher/internal/textproc"
)

const (
	// Terms must appear in at least this many documents to enter the vocabulary.
	minDocFreq = 2
	// Terms present in more than this share of documents are dropped as noise.
	maxDocShare = 0.9
	// Hard cap on vocabulary size for large corpora.
	maxVocabulary = 10000
)

// Space is a tf-idf weighted vector space built over one corpus. Vector i
// corresponds to document i of the input, in order. All vectors are
// L2-normalized, so cosine similarity reduces to a dot product.
type Space struct {
	Vocabulary map[string]int
	Vectors    []map[int]float64
}

// Empty reports whether the space holds no usable vectors.
func (s *Space) Empty() bool {
	return s == nil || len(s.Vocabulary) == 0 || len(s.Vectors) == 0
}

// BuildSpace vectorizes the documents over unigrams and bigrams. Document
// order is preserved: callers index vectors by input position. With fewer
// than two documents no vocabulary can satisfy the document frequency
// bounds, so an empty space is returned instead of an error.
func BuildSpace(documents []string) *Space {
	if len(documents) < 2 {
		return &Space{}
	}

	docTerms := make([]map[string]int, len(documents))
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for i, doc := range documents {
		terms := termCounts(textproc.Normalize(doc))
		docTerms[i] = terms
		for term, count := range terms {
			docFreq[term]++
			totalFreq[term] += count
		}
	}

	n := len(documents)
	maxDF := int(maxDocShare * float64(n))

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDocFreq && df <= maxDF {
			candidates = append(candidates, term)
		}
	}

	if len(candidates) > maxVocabulary {
		// Keep the most frequent terms, ties resolved lexicographically
		// so repeated runs produce the same vocabulary.
		sort.Slice(candidates, func(i, j int) bool {
			if totalFreq[candidates[i]] != totalFreq[candidates[j]] {
				return totalFreq[candidates[i]] > totalFreq[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:maxVocabulary]
	}

	sort.Strings(candidates)

	vocab := make(map[string]int, len(candidates))
	idf := make([]float64, len(candidates))
	for idx, term := range candidates {
		vocab[term] = idx
		idf[idx] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	vectors := make([]map[int]float64, len(documents))
	for i, terms := range docTerms {
		vec := make(map[int]float64)
		for term, count := range terms {
			idx, ok := vocab[term]
			if !ok {
				continue
			}
			vec[idx] = float64(count) * idf[idx]
		}
		normalize(vec)
		vectors[i] = vec
	}

	return &Space{Vocabulary: vocab, Vectors: vectors}
}

// Cosine returns the cosine similarity of two L2-normalized sparse vectors.
// A zero vector scores 0.0 against anything.
func Cosine(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}

	return dot
}

// termCounts counts unigrams and adjacent-pair bigrams over a token stream.
func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens)*2)
	for i, token := range tokens {
		counts[token]++
		if i+1 < len(tokens) {
			counts[token+" "+tokens[i+1]]++
		}
	}
	return counts
}

func normalize(vec map[int]float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for idx, v := range vec {
		vec[idx] = v / norm
	}
}
