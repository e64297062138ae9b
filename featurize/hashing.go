package featurize

import (
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// tokenCache memoises tokenisation, which dominates the cost of re-featurizing the same text
// column for both sides of a trial.
var tokenCache, _ = lru.New(1 << 14)

type tokenizer func(s string) []string

func words(s string) []string {
	key := "w\x00" + s
	if t, ok := tokenCache.Get(key); ok {
		return t.([]string)
	}
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokenCache.Add(key, tokens)
	return tokens
}

func charGrams(n int) tokenizer {
	return func(s string) []string {
		key := "c\x00" + string(rune('0'+n)) + s
		if t, ok := tokenCache.Get(key); ok {
			return t.([]string)
		}
		r := []rune(" " + strings.ToLower(s) + " ")
		var tokens []string
		for i := 0; i+n <= len(r); i++ {
			tokens = append(tokens, string(r[i:i+n]))
		}
		tokenCache.Add(key, tokens)
		return tokens
	}
}

// hasher maps tokens into a fixed number of buckets using the hashing trick. Rows are L2
// normalised.
type hasher struct {
	dims     int
	tokenize tokenizer
}

func newHasher(kwargs map[string]interface{}, tok func(ngram int) tokenizer, defNgram int) (Transformer, error) {
	dims, err := intArg(kwargs, "dims", 256)
	if err != nil {
		return nil, err
	}
	if dims <= 0 {
		return nil, errors.Errorf("dims must be positive, got %d", dims)
	}
	ngram, err := intArg(kwargs, "ngram", defNgram)
	if err != nil {
		return nil, err
	}
	if ngram <= 0 || ngram > 9 {
		return nil, errors.Errorf("ngram must be between 1 and 9, got %d", ngram)
	}
	return &hasher{dims: dims, tokenize: tok(ngram)}, nil
}

// newWordHasher hashes words. With stop_words the stop words of the language kwarg are dropped,
// with stem English words are Porter stemmed.
func newWordHasher(kwargs map[string]interface{}) (Transformer, error) {
	tok, err := wordTokenizer(kwargs)
	if err != nil {
		return nil, err
	}
	return newHasher(kwargs, func(int) tokenizer { return tok }, 1)
}

func wordTokenizer(kwargs map[string]interface{}) (tokenizer, error) {
	stop, err := boolArg(kwargs, "stop_words", false)
	if err != nil {
		return nil, err
	}
	stem, err := boolArg(kwargs, "stem", false)
	if err != nil {
		return nil, err
	}
	return wordsIn(stringArg(kwargs, "language", "eng"), stop, stem), nil
}

func newCharHasher(kwargs map[string]interface{}) (Transformer, error) {
	return newHasher(kwargs, charGrams, 3)
}

func (h *hasher) Fit([]string, []float64) error {
	return nil
}

func (h *hasher) Transform(values []string) (mat.Matrix, error) {
	rows := make([]map[int]float64, len(values))
	for i, v := range values {
		row := make(map[int]float64)
		for _, t := range h.tokenize(v) {
			row[int(xxhash.Sum64String(t)%uint64(h.dims))]++
		}
		var norm float64
		for _, c := range row {
			norm += c * c
		}
		norm = math.Sqrt(norm)
		for j := range row {
			row[j] /= norm
		}
		rows[i] = row
	}
	return NewSparse(h.dims, rows), nil
}
