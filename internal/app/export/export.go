package export

import (
	"fmt"

	"github.com/tealeg/xlsx"

	"verse-embed/internal/app/storage/snapshot"
)

// ToExcel writes the verse index and the run summary of ds to an .xlsx workbook
func ToExcel(ds *snapshot.Dataset, outputFilePath string) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Verses")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, title := range []string{"Index", "ID", "Mandala", "Hymn", "Verse", "Title", "Sanskrit", "Transliteration", "Translation"} {
		headerRow.AddCell().Value = title
	}

	for _, e := range ds.Index {
		row := sheet.AddRow()
		row.AddCell().SetInt(e.Index)
		row.AddCell().Value = e.ID
		row.AddCell().SetInt(e.Mandala)
		row.AddCell().SetInt(e.Hymn)
		row.AddCell().SetInt(e.Verse)
		row.AddCell().Value = e.Title
		row.AddCell().Value = e.Sanskrit
		row.AddCell().Value = e.Transliteration
		row.AddCell().Value = e.Translation
	}

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return err
	}
	s := ds.Summary
	for _, kv := range [][2]string{
		{"Created At", s.CreatedAt},
		{"Run ID", s.RunID},
		{"Label", s.Label},
		{"Model", s.EmbeddingModel},
		{"Dimension", fmt.Sprint(s.EmbeddingDimension)},
		{"Total Verses", fmt.Sprint(s.TotalVerses)},
		{"Attempted", fmt.Sprint(s.Attempted)},
		{"Succeeded", fmt.Sprint(s.Succeeded)},
		{"Failed", fmt.Sprint(s.Failed)},
		{"Skipped", fmt.Sprint(s.Skipped)},
	} {
		row := summary.AddRow()
		row.AddCell().Value = kv[0]
		row.AddCell().Value = kv[1]
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
