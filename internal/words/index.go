// Package words provides the word index used to validate submissions and
// enumerate candidate words for a rack.
//
// Word lists:
//   - word list: one word per line, any case, duplicates tolerated.
//   - blocklist: same format; blocked words are never valid and never
//     offered as candidates, even when the word list contains them.
//
// Both lists are normalized to uppercase. Blank lines and lines starting
// with '#' are ignored, as are entries containing non A-Z characters.
//
// An Index is built once and is read-only afterwards; all methods are safe
// for concurrent use.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/samber/lo"

	"wordduel/internal/domain"
)

//go:embed default_words.txt
var embeddedWords string

//go:embed default_blocklist.txt
var embeddedBlocklist string

const (
	// DefaultMinLength is the process-wide floor; tiers may require more
	DefaultMinLength = 2

	// DefaultCacheSize is the number of rack queries kept in the LRU
	DefaultCacheSize = 4096
)

// DictionaryLoadError reports that a word source could not be read.
// No Index is returned alongside it.
type DictionaryLoadError struct {
	Source string
	Err    error
}

func (e *DictionaryLoadError) Error() string {
	return fmt.Sprintf("words: cannot load %s: %v", e.Source, e.Err)
}

func (e *DictionaryLoadError) Unwrap() error {
	return e.Err
}

// ErrEmptyWordList is wrapped in a DictionaryLoadError when a word list
// yields no usable entries
var ErrEmptyWordList = errors.New("word list is empty")

// Options tunes index construction
type Options struct {
	// MinLength discards shorter words at load time
	MinLength int
	// CacheSize bounds the FindBuildableWords cache; 0 disables it
	CacheSize int
}

// DefaultOptions returns the options used by the server
func DefaultOptions() Options {
	return Options{MinLength: DefaultMinLength, CacheSize: DefaultCacheSize}
}

// Index answers membership and anagram-signature queries
type Index struct {
	minLength  int
	words      map[string]struct{}
	blocked    map[string]struct{}
	signatures map[string][]string
	cache      *lru.Cache
}

// Stats reports the size of a loaded index
type Stats struct {
	Words      int `json:"words"`
	Blocked    int `json:"blocked"`
	Signatures int `json:"signatures"`
}

// Load builds an index from a word list and a blocklist. Loading is all or
// nothing: on error the returned index is nil.
func Load(wordList, blockList io.Reader, opts Options) (*Index, error) {
	if opts.MinLength < 1 {
		opts.MinLength = DefaultMinLength
	}

	var blockLines []string
	if blockList != nil {
		var err error
		if blockLines, err = readLines(blockList); err != nil {
			return nil, &DictionaryLoadError{Source: "blocklist", Err: err}
		}
	}
	wordLines, err := readLines(wordList)
	if err != nil {
		return nil, &DictionaryLoadError{Source: "word list", Err: err}
	}

	ix := &Index{
		minLength:  opts.MinLength,
		words:      make(map[string]struct{}, len(wordLines)),
		blocked:    make(map[string]struct{}, len(blockLines)),
		signatures: make(map[string][]string),
	}
	for _, w := range blockLines {
		ix.blocked[w] = struct{}{}
	}

	for _, w := range wordLines {
		if len(w) < ix.minLength {
			continue
		}
		if _, isBlocked := ix.blocked[w]; isBlocked {
			continue
		}
		if _, dup := ix.words[w]; dup {
			continue
		}
		ix.words[w] = struct{}{}
		sig := domain.Signature(w)
		ix.signatures[sig] = append(ix.signatures[sig], w)
	}

	if len(ix.words) == 0 {
		return nil, &DictionaryLoadError{Source: "word list", Err: ErrEmptyWordList}
	}

	for _, bucket := range ix.signatures {
		sort.Strings(bucket)
	}

	if opts.CacheSize > 0 {
		if ix.cache, err = lru.New(opts.CacheSize); err != nil {
			return nil, fmt.Errorf("words: create cache: %w", err)
		}
	}

	return ix, nil
}

// LoadFiles loads the word list at wordPath and, if blockPath is not empty,
// the blocklist at blockPath
func LoadFiles(wordPath, blockPath string, opts Options) (*Index, error) {
	wf, err := os.Open(wordPath)
	if err != nil {
		return nil, &DictionaryLoadError{Source: wordPath, Err: err}
	}
	defer wf.Close()

	var block io.Reader
	if blockPath != "" {
		bf, err := os.Open(blockPath)
		if err != nil {
			return nil, &DictionaryLoadError{Source: blockPath, Err: err}
		}
		defer bf.Close()
		block = bf
	}

	return Load(wf, block, opts)
}

// LoadDefault loads the small embedded word list and blocklist
func LoadDefault(opts Options) (*Index, error) {
	return Load(strings.NewReader(embeddedWords), strings.NewReader(embeddedBlocklist), opts)
}

// readLines reads newline-delimited entries, uppercasing and trimming them
// and dropping blanks, comments and non-alphabetic entries
func readLines(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, errors.New("no source")
	}
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := domain.Normalize(line)
		if domain.IsAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// MinLength returns the load-time minimum word length
func (ix *Index) MinLength() int {
	return ix.minLength
}

// IsValid reports whether word is in the index (case-insensitive).
// Blocked words are never valid.
func (ix *Index) IsValid(word string) bool {
	_, ok := ix.words[domain.Normalize(word)]
	return ok
}

// IsBlocked reports whether word is on the blocklist (case-insensitive),
// whether or not it is otherwise a dictionary word
func (ix *Index) IsBlocked(word string) bool {
	_, ok := ix.blocked[domain.Normalize(word)]
	return ok
}

// Anagrams returns the words whose signature is exactly sig
func (ix *Index) Anagrams(sig string) []string {
	return slices.Clone(ix.signatures[domain.Signature(sig)])
}

// FindBuildableWords returns every unblocked word of at least minLength
// letters that can be built from a sub-multiset of letters, sorted
// alphabetically. Each distinct sub-multiset is visited exactly once, so a
// rack with repeated letters does not re-derive the same signature.
func (ix *Index) FindBuildableWords(letters string, minLength int) []string {
	if minLength < ix.minLength {
		minLength = ix.minLength
	}
	sig := domain.Signature(letters)
	if !domain.IsAlpha(sig) {
		return nil
	}

	key := sig + "|" + strconv.Itoa(minLength)
	if ix.cache != nil {
		if cached, ok := ix.cache.Get(key); ok {
			return slices.Clone(cached.([]string))
		}
	}

	// Group the sorted letters into distinct letters with counts
	var distinct []byte
	var counts []int
	for i := 0; i < len(sig); i++ {
		if i > 0 && sig[i] == sig[i-1] {
			counts[len(counts)-1]++
			continue
		}
		distinct = append(distinct, sig[i])
		counts = append(counts, 1)
	}
	// remaining[i] is the number of letters available from i onwards
	remaining := make([]int, len(counts)+1)
	for i := len(counts) - 1; i >= 0; i-- {
		remaining[i] = remaining[i+1] + counts[i]
	}

	found := make(map[string]struct{})
	var walk func(i int, buf []byte)
	walk = func(i int, buf []byte) {
		if len(buf)+remaining[i] < minLength {
			return
		}
		if i == len(distinct) {
			for _, w := range ix.signatures[string(buf)] {
				if !ix.IsBlocked(w) {
					found[w] = struct{}{}
				}
			}
			return
		}
		next := buf
		for c := 0; c <= counts[i]; c++ {
			walk(i+1, next)
			next = append(next, distinct[i])
		}
	}
	walk(0, make([]byte, 0, len(sig)))

	result := lo.Keys(found)
	sort.Strings(result)

	if ix.cache != nil {
		ix.cache.Add(key, slices.Clone(result))
	}
	return result
}

// Stats returns the size of the index
func (ix *Index) Stats() Stats {
	return Stats{
		Words:      len(ix.words),
		Blocked:    len(ix.blocked),
		Signatures: len(ix.signatures),
	}
}
