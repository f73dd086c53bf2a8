// Package wordnet reads the WordNet 3.0 lexical database from its
// plain-text distribution files (index.*, data.* and *.exc) and answers
// synset, lemma and similarity queries.
package wordnet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Parts of speech as written in the database.
const (
	Noun   = "n"
	Verb   = "v"
	Adj    = "a"
	AdjSat = "s"
	Adv    = "r"
)

// POSList is the lookup order used when no part of speech is given.
var POSList = []string{Noun, Verb, Adj, Adv}

// fileNames maps a part of speech to the suffix of its database files.
var fileNames = map[string]string{
	Noun:   "noun",
	Verb:   "verb",
	Adj:    "adj",
	AdjSat: "adj",
	Adv:    "adv",
}

var (
	// ErrPOSMismatch is returned when comparing synsets of different
	// parts of speech where the measure requires the same one.
	ErrPOSMismatch = errors.New("wordnet: synsets have different parts of speech")
	// ErrNoSynset is returned by Synset for an unknown name.
	ErrNoSynset = errors.New("wordnet: no such synset")
	// ErrBadPOS is returned for a part of speech outside n, v, a, s, r.
	ErrBadPOS = errors.New("wordnet: unknown part of speech")
)

// WordNet is an opened database. It is safe for concurrent use.
type WordNet struct {
	dir string

	// index maps a lower-cased lemma to its synset offsets per part of
	// speech, in sense order. Satellites share the adjective entry.
	index map[string]map[string][]int64

	// exceptions maps part of speech → inflected form → base forms.
	exceptions map[string]map[string][]string

	// data holds the contents of data.noun, data.verb, data.adj and
	// data.adv, keyed by file suffix. Offsets index into these.
	data map[string][]byte

	mu       sync.Mutex
	synsets  map[synsetKey]*Synset
	maxDepth map[string]int
}

type synsetKey struct {
	file   string
	offset int64
}

// Open reads the database files in dir.
func Open(dir string) (*WordNet, error) {
	wn := &WordNet{
		dir:        dir,
		index:      make(map[string]map[string][]int64),
		exceptions: make(map[string]map[string][]string),
		data:       make(map[string][]byte),
		synsets:    make(map[synsetKey]*Synset),
		maxDepth:   make(map[string]int),
	}
	for _, pos := range POSList {
		name := fileNames[pos]
		if err := wn.loadIndex(filepath.Join(dir, "index."+name), pos); err != nil {
			return nil, err
		}
		if err := wn.loadExceptions(filepath.Join(dir, name+".exc"), pos); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, "data."+name))
		if err != nil {
			return nil, fmt.Errorf("read data.%s: %w", name, err)
		}
		wn.data[name] = data
	}
	wn.exceptions[AdjSat] = wn.exceptions[Adj]
	return wn, nil
}

// loadIndex reads one index file. Each entry reads
//
//	lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt synset_offset...
//
// and license lines start with a space.
func (wn *WordNet) loadIndex(path, pos string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || line[0] == ' ' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return fmt.Errorf("%s:%d: short index entry", filepath.Base(path), lineNo)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 || n > len(fields)-4 {
			return fmt.Errorf("%s:%d: bad synset count %q", filepath.Base(path), lineNo, fields[2])
		}
		offsets := make([]int64, 0, n)
		for _, s := range fields[len(fields)-n:] {
			off, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("%s:%d: bad offset %q", filepath.Base(path), lineNo, s)
			}
			offsets = append(offsets, off)
		}
		lemma := fields[0]
		m, ok := wn.index[lemma]
		if !ok {
			m = make(map[string][]int64)
			wn.index[lemma] = m
		}
		m[pos] = offsets
		if pos == Adj {
			m[AdjSat] = offsets
		}
	}
	return sc.Err()
}

// loadExceptions reads an exception list: an inflected form followed by
// one or more base forms per line. A missing file is not an error.
func (wn *WordNet) loadExceptions(path, pos string) error {
	exc := make(map[string][]string)
	wn.exceptions[pos] = exc

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		exc[fields[0]] = append(exc[fields[0]], fields[1:]...)
	}
	return sc.Err()
}

// Dir returns the directory the database was read from.
func (wn *WordNet) Dir() string { return wn.dir }

// Synsets returns the synsets containing word (or a base form of it
// found by Morphy). With no pos every part of speech is searched in
// the order of POSList.
func (wn *WordNet) Synsets(word string, pos ...string) []*Synset {
	word = normalizeLemma(word)
	if len(pos) == 0 {
		pos = POSList
	}
	var out []*Synset
	for _, p := range pos {
		for _, form := range wn.morphy(word, p) {
			for _, off := range wn.index[form][p] {
				ss, err := wn.synsetAt(p, off)
				if err != nil {
					continue
				}
				out = append(out, ss)
			}
		}
	}
	return out
}

// Known reports whether word, or a base form of it, has a synset.
func (wn *WordNet) Known(word string) bool {
	word = normalizeLemma(word)
	for _, p := range POSList {
		if len(wn.morphy(word, p)) > 0 {
			return true
		}
	}
	return false
}

// Synset looks up a synset by its name, e.g. "dog.n.01".
func (wn *WordNet) Synset(name string) (*Synset, error) {
	parts := strings.Split(strings.ToLower(name), ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("synset %q: %w", name, ErrNoSynset)
	}
	n := len(parts)
	lemma, pos := strings.Join(parts[:n-2], "."), parts[n-2]
	sense, err := strconv.Atoi(parts[n-1])
	if err != nil || sense < 1 {
		return nil, fmt.Errorf("synset %q: bad sense number: %w", name, ErrNoSynset)
	}
	if _, ok := fileNames[pos]; !ok {
		return nil, fmt.Errorf("synset %q: %w", name, ErrBadPOS)
	}
	offsets := wn.index[lemma][pos]
	if sense > len(offsets) {
		return nil, fmt.Errorf("synset %q: %w", name, ErrNoSynset)
	}
	ss, err := wn.synsetAt(pos, offsets[sense-1])
	if err != nil {
		return nil, err
	}
	if (pos == AdjSat) != (ss.pos == AdjSat) {
		return nil, fmt.Errorf("synset %q is %s.%s: %w", name, lemma, ss.pos, ErrNoSynset)
	}
	return ss, nil
}

// AllSynsets returns every synset of pos ("" for all), in file order.
// For Adj the satellites are included.
func (wn *WordNet) AllSynsets(pos string) []*Synset {
	posList := POSList
	if pos != "" {
		posList = []string{pos}
	}
	var out []*Synset
	for _, p := range posList {
		file := fileNames[p]
		data := wn.data[file]
		for off := 0; off < len(data); {
			end := bytes.IndexByte(data[off:], '\n')
			if end < 0 {
				end = len(data) - off
			}
			if end > 0 && data[off] != ' ' {
				if ss, err := wn.synsetAt(p, int64(off)); err == nil {
					if p != AdjSat || ss.pos == AdjSat {
						out = append(out, ss)
					}
				}
			}
			off += end + 1
		}
	}
	return out
}

// synsetAt returns the synset stored at offset in the data file of pos.
func (wn *WordNet) synsetAt(pos string, offset int64) (*Synset, error) {
	file, ok := fileNames[pos]
	if !ok {
		return nil, fmt.Errorf("%q: %w", pos, ErrBadPOS)
	}
	key := synsetKey{file: file, offset: offset}

	wn.mu.Lock()
	if ss, ok := wn.synsets[key]; ok {
		wn.mu.Unlock()
		return ss, nil
	}
	wn.mu.Unlock()

	data := wn.data[file]
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("data.%s offset %d: %w", file, offset, ErrNoSynset)
	}
	line := data[offset:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	ss, err := wn.parseSynset(string(line))
	if err != nil {
		return nil, fmt.Errorf("data.%s offset %d: %w", file, offset, err)
	}

	wn.mu.Lock()
	defer wn.mu.Unlock()
	if prev, ok := wn.synsets[key]; ok {
		return prev, nil
	}
	wn.synsets[key] = ss
	return ss, nil
}

// adjMarker is the syntactic marker some adjective lemmas carry, e.g.
// "galore(ip)".
var adjMarker = regexp.MustCompile(`\([a-z]+\)$`)

// parseSynset parses one data line:
//
//	offset lex_filenum ss_type w_cnt (word lex_id)... p_cnt (ptr offset pos src/tgt)... [frames] | gloss
func (wn *WordNet) parseSynset(line string) (*Synset, error) {
	body, gloss, _ := strings.Cut(line, "|")
	f := strings.Fields(body)
	if len(f) < 4 {
		return nil, errors.New("short data line")
	}
	offset, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad offset %q", f[0])
	}
	lexFile, _ := strconv.Atoi(f[1])
	ss := &Synset{wn: wn, offset: offset, pos: f[2], lexFile: lexFile}

	wcnt, err := strconv.ParseInt(f[3], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad word count %q", f[3])
	}
	i := 4
	for k := 0; k < int(wcnt); k++ {
		if i+1 >= len(f) {
			return nil, errors.New("truncated word list")
		}
		name := adjMarker.ReplaceAllString(f[i], "")
		ss.lemmas = append(ss.lemmas, &Lemma{name: name, synset: ss})
		i += 2
	}
	if i >= len(f) {
		return nil, errors.New("missing pointer count")
	}
	pcnt, err := strconv.Atoi(f[i])
	if err != nil {
		return nil, fmt.Errorf("bad pointer count %q", f[i])
	}
	i++
	for k := 0; k < pcnt; k++ {
		if i+3 >= len(f) {
			return nil, errors.New("truncated pointer list")
		}
		off, err := strconv.ParseInt(f[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad pointer offset %q", f[i+1])
		}
		st := f[i+3]
		if len(st) != 4 {
			return nil, fmt.Errorf("bad pointer source/target %q", st)
		}
		src, err := strconv.ParseInt(st[:2], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad pointer source %q: %w", st, err)
		}
		tgt, err := strconv.ParseInt(st[2:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad pointer target %q: %w", st, err)
		}
		ss.pointers = append(ss.pointers, pointer{
			symbol: f[i],
			offset: off,
			pos:    f[i+2],
			source: int(src),
			target: int(tgt),
		})
		i += 4
	}

	for _, part := range strings.Split(strings.TrimSpace(gloss), "; ") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, `"`):
			ss.examples = append(ss.examples, strings.Trim(part, `"`))
		default:
			if ss.definition != "" {
				ss.definition += "; "
			}
			ss.definition += part
		}
	}

	if len(ss.lemmas) > 0 {
		ss.name = wn.synsetName(ss)
	}
	return ss, nil
}

// synsetName builds the "lemma.pos.NN" name from the first lemma and
// the position of the synset among that lemma's senses.
func (wn *WordNet) synsetName(ss *Synset) string {
	lemma := strings.ToLower(ss.lemmas[0].name)
	sense := 1
	for i, off := range wn.index[lemma][ss.pos] {
		if off == ss.offset {
			sense = i + 1
			break
		}
	}
	return fmt.Sprintf("%s.%s.%02d", lemma, ss.pos, sense)
}

// normalizeLemma lower-cases word and joins multi-word expressions
// with underscores, the way lemmas are stored.
func normalizeLemma(word string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(word)), " ", "_")
}

// Synonyms returns the lemma names of every synset of word, without
// duplicates, in sense order.
func (wn *WordNet) Synonyms(word string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ss := range wn.Synsets(word) {
		for _, l := range ss.lemmas {
			if !seen[l.name] {
				seen[l.name] = true
				out = append(out, l.name)
			}
		}
	}
	return out
}

// Antonyms returns the names of the antonyms of every lemma of every
// synset of word, without duplicates.
func (wn *WordNet) Antonyms(word string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ss := range wn.Synsets(word) {
		for _, l := range ss.lemmas {
			for _, a := range l.Antonyms() {
				if !seen[a.name] {
					seen[a.name] = true
					out = append(out, a.name)
				}
			}
		}
	}
	return out
}
