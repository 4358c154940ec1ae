package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxLineBytes caps a single journal record. Node content is free text
// but bounded in practice; a record this large is corruption.
const maxLineBytes = 4 * 1024 * 1024

var errMissingID = errors.New("record has no id")

// replayFile reads a JSONL record log and returns the current value for
// each id, in order of first appearance, applying last-write-wins when
// an id was re-appended. Replay trusts the log: it performs no
// invariant checks beyond JSON well-formedness and a non-empty id.
//
// This is the generic log-replay-into-map primitive; the store's
// invariant checks apply only at append time, never here.
func replayFile[T any](path string, idOf func(*T) string, onBadLine func(int, error)) ([]*T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	latest := make(map[string]*T)
	var order []string

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec := new(T)
		if err := json.Unmarshal([]byte(text), rec); err != nil {
			onBadLine(line, err)
			continue
		}
		id := idOf(rec)
		if id == "" {
			onBadLine(line, errMissingID)
			continue
		}
		if _, seen := latest[id]; !seen {
			order = append(order, id)
		}
		latest[id] = rec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	out := make([]*T, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out, nil
}
