package featurize

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/reiver/go-porterstemmer"
)

// stopLanguages maps ISO 639-3 dataset languages to the codes of the stop word lists.
var stopLanguages = map[string]string{
	"ara": "ar",
	"bul": "bg",
	"ces": "cs",
	"dan": "da",
	"deu": "de",
	"ell": "el",
	"eng": "en",
	"spa": "es",
	"fas": "fa",
	"fin": "fi",
	"fra": "fr",
	"hun": "hu",
	"ind": "id",
	"ita": "it",
	"lav": "lv",
	"nld": "nl",
	"nor": "no",
	"pol": "pl",
	"por": "pt",
	"ron": "ro",
	"rus": "ru",
	"slk": "sk",
	"swe": "sv",
	"tur": "tr",
}

// isStopWord reports whether a lower cased token is on the stop list of code. Tokens without
// letters are never stop words.
func isStopWord(token, code string) bool {
	if strings.IndexFunc(token, unicode.IsLetter) < 0 {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(token, code, false)) == ""
}

// wordsIn splits into words like words, optionally dropping the stop words of language and
// Porter stemming English. Languages without a stop list keep every word.
func wordsIn(language string, stop, stem bool) tokenizer {
	code, ok := stopLanguages[language]
	stop = stop && ok
	stem = stem && language == "eng"
	if !stop && !stem {
		return words
	}

	prefix := "l\x00" + code + "\x00"
	if stop {
		prefix += "s"
	}
	if stem {
		prefix += "p"
	}
	return func(s string) []string {
		key := prefix + "\x00" + s
		if t, ok := tokenCache.Get(key); ok {
			return t.([]string)
		}
		var tokens []string
		for _, t := range words(s) {
			if stop && isStopWord(t, code) {
				continue
			}
			if stem {
				t = porterstemmer.StemString(t)
			}
			tokens = append(tokens, t)
		}
		tokenCache.Add(key, tokens)
		return tokens
	}
}
