package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"verse-embed/internal/app/model"
)

// TestVerses is a small corpus in ascending order. The fourth verse has no
// searchable text.
var TestVerses = []model.VerseRecord{
	newVerse(1, 1, 1, "Agni", "I praise Agni, the chosen priest", "agnim īḷe purohitaṃ"),
	newVerse(1, 1, 2, "Agni", "Worthy is Agni to be praised", "agniḥ pūrvebhir ṛṣibhir"),
	newVerse(1, 2, 1, "Vayu", "Beautiful Vayu, come", "vāyav ā yāhi darśateme"),
	newVerse(1, 2, 2, "Vayu", "", ""),
	newVerse(2, 1, 1, "Indra", "Indra, the thunderer", "indra vajrin"),
	newVerse(2, 1, 2, "Indra", "Soma pressed for Indra", "somaḥ sutaḥ"),
}

func newVerse(mandala, hymn, verse int, title, translation, transliteration string) model.VerseRecord {
	text := translation
	if transliteration != "" {
		if text != "" {
			text += " "
		}
		text += transliteration
	}
	return model.VerseRecord{
		ID:             fmt.Sprintf("M%02dH%03dV%03d", mandala, hymn, verse),
		SearchableText: text,
		Display: model.DisplayFields{
			Mandala:         mandala,
			Hymn:            hymn,
			Verse:           verse,
			Title:           title,
			Transliteration: transliteration,
			Translation:     translation,
		},
	}
}

// GenerateVerseRecords creates n records spread over hymns of ten verses
func GenerateVerseRecords(n int) []model.VerseRecord {
	records := make([]model.VerseRecord, n)
	for i := 0; i < n; i++ {
		hymn := i/10 + 1
		verse := i%10 + 1
		records[i] = newVerse(1, hymn, verse,
			fmt.Sprintf("Hymn %d", hymn),
			fmt.Sprintf("verse %d of hymn %d", verse, hymn),
			fmt.Sprintf("ṛc %d", i+1))
	}
	return records
}

// WriteTestCorpus writes TestVerses as a nested corpus document and returns its path
func WriteTestCorpus(t *testing.T, dir string) string {
	t.Helper()

	type verse struct {
		Number          int    `json:"number"`
		Sanskrit        string `json:"sanskrit"`
		Transliteration string `json:"transliteration"`
		Translation     string `json:"translation"`
	}
	type hymn struct {
		Number int     `json:"number"`
		Title  string  `json:"title"`
		Verses []verse `json:"verses"`
	}
	type mandala struct {
		Number int    `json:"number"`
		Hymns  []hymn `json:"hymns"`
	}

	var mandalas []mandala
	for _, r := range TestVerses {
		d := r.Display
		if len(mandalas) == 0 || mandalas[len(mandalas)-1].Number != d.Mandala {
			mandalas = append(mandalas, mandala{Number: d.Mandala})
		}
		m := &mandalas[len(mandalas)-1]
		if len(m.Hymns) == 0 || m.Hymns[len(m.Hymns)-1].Number != d.Hymn {
			m.Hymns = append(m.Hymns, hymn{Number: d.Hymn, Title: d.Title})
		}
		h := &m.Hymns[len(m.Hymns)-1]
		h.Verses = append(h.Verses, verse{
			Number:          d.Verse,
			Sanskrit:        d.Sanskrit,
			Transliteration: d.Transliteration,
			Translation:     d.Translation,
		})
	}

	data, err := json.MarshalIndent(map[string]interface{}{"mandalas": mandalas}, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test corpus: %v", err)
	}

	path := filepath.Join(dir, "rig_veda_texts.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write test corpus: %v", err)
	}
	return path
}
