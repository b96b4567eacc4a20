// Package corpus flattens the nested mandala/hymn/verse document into ordered verse records.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
)

// Load reads and parses the corpus file and extracts its records
func Load(path string) ([]model.VerseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperrors.CorpusLoadError{Path: path, Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &apperrors.CorpusLoadError{Path: path, Err: err}
	}

	return Extract(doc), nil
}

// Parse decodes the corpus document. The root must be a JSON object.
func Parse(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid corpus JSON: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("corpus root must be an object")
	}
	return doc, nil
}

// Extract walks mandalas, hymns and verses in ascending numeric order.
// Malformed entries degrade to zero values instead of failing.
func Extract(doc map[string]interface{}) []model.VerseRecord {
	var records []model.VerseRecord
	seen := make(map[string]int)

	for _, mandala := range sortedByNumber(asSlice(doc["mandalas"])) {
		mandalaNum := asInt(mandala["number"])

		for _, hymn := range sortedByNumber(asSlice(mandala["hymns"])) {
			hymnNum := asInt(hymn["number"])
			title := asString(hymn["title"])
			if title == "" {
				title = fmt.Sprintf("Rig Veda Mandala %d Hymn %d", mandalaNum, hymnNum)
			}

			for _, verse := range sortedByNumber(asSlice(hymn["verses"])) {
				display := model.DisplayFields{
					Mandala:         mandalaNum,
					Hymn:            hymnNum,
					Verse:           asInt(verse["number"]),
					Title:           title,
					Sanskrit:        asString(verse["sanskrit"]),
					Transliteration: asString(verse["transliteration"]),
					Translation:     asString(verse["translation"]),
				}

				records = append(records, model.VerseRecord{
					ID:             uniqueID(seen, VerseID(display.Mandala, display.Hymn, display.Verse)),
					SearchableText: SearchableText(display),
					Display:        display,
				})
			}
		}
	}

	return records
}

// VerseID builds the stable composite key of a verse
func VerseID(mandala, hymn, verse int) string {
	return fmt.Sprintf("M%02dH%03dV%03d", mandala, hymn, verse)
}

// SearchableText is the exact string submitted for embedding
func SearchableText(d model.DisplayFields) string {
	return strings.TrimSpace(strings.TrimSpace(d.Translation) + " " + strings.TrimSpace(d.Transliteration))
}

func uniqueID(seen map[string]int, id string) string {
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

// sortedByNumber keeps only object entries, ordered by their "number" field.
// The sort is stable so entries without numbers keep document order.
func sortedByNumber(items []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return asInt(out[i]["number"]) < asInt(out[j]["number"])
	})
	return out
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) {
			return int(f)
		}
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
