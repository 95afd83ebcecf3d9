// Package export writes filtered catalog records to an Excel workbook,
// one row per record with a header row naming the fields.
package export

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentdir/agentdir/internal/catalog"
)

// requiredKeys are always present, in this order, before the sorted
// union of extra field keys.
var requiredKeys = []string{catalog.FieldName, catalog.FieldCategory, catalog.FieldUseCase}

// wrapKeys are long-text fields that get wrap-text cell styling.
var wrapKeys = map[string]struct{}{
	catalog.FieldUseCase: {},
	"description":        {},
	"key_features":       {},
	"review":             {},
}

// Exporter filters a stored catalog by category and writes a spreadsheet.
type Exporter struct {
	store  *catalog.Store
	outDir string
}

// New creates an Exporter that reads from store and writes workbooks
// into outDir.
func New(store *catalog.Store, outDir string) *Exporter {
	return &Exporter{store: store, outDir: outDir}
}

// Run loads the catalog, selects records whose category equals category
// (exact, case-sensitive), and writes them to a workbook. An empty category
// exports every record. Zero matches still produce a valid header-only
// file. It returns the output path and the number of data rows written.
func (e *Exporter) Run(category string) (string, int, error) {
	cat, err := e.store.Load()
	if err != nil {
		return "", 0, err
	}

	var records []catalog.AgentRecord
	if category == "" {
		records = cat.Agents
	} else {
		records = cat.FilterByCategory(category)
	}

	path := filepath.Join(e.outDir, FileName(category))
	if err := writeWorkbook(path, sheetName(category), records); err != nil {
		return "", 0, err
	}

	log.Printf("export: wrote %d rows to %s", len(records), path)
	return path, len(records), nil
}

// FileName returns the deterministic output filename for a category.
func FileName(category string) string {
	return "ai_agents_" + sanitize(category) + ".xlsx"
}

// sheetName returns the worksheet title for a category, within Excel's
// 31-character sheet name limit.
func sheetName(category string) string {
	name := sanitize(category)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// sanitize maps a category string to a token safe for filenames and sheet
// names: unsafe runes become '-', runs collapse, and an empty result
// becomes "all".
func sanitize(category string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range category {
		safe := r == '.' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if safe {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "all"
	}
	return out
}

// columnsFor returns the field keys and header labels for the given record
// set: the required columns first, then the sorted union of extra keys.
func columnsFor(records []catalog.AgentRecord) (keys, labels []string) {
	keys = append(keys, requiredKeys...)
	keys = append(keys, catalog.ExtraFieldKeys(records)...)
	labels = make([]string, len(keys))
	for i, k := range keys {
		labels[i] = headerLabel(k)
	}
	return keys, labels
}

// headerLabel turns a snake_case field key into a title-cased column header
// ("key_features" -> "Key Features").
func headerLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if strings.EqualFold(w, "url") {
			words[i] = "URL"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// writeWorkbook writes the records to a new .xlsx file at path.
func writeWorkbook(path, sheet string, records []catalog.AgentRecord) error {
	keys, labels := columnsFor(records)

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("export: failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: failed to write header: %w", err)
	}

	for i, rec := range records {
		row := make([]interface{}, len(keys))
		for j, k := range keys {
			row[j] = rec.Get(k)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: bad row coordinate: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: failed to write row %d: %w", i+2, err)
		}
	}

	if err := applyColumnStyles(f, sheet, keys); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: failed to save %q: %w", path, err)
	}
	return nil
}

// applyColumnStyles widens columns and enables wrap text on long-text
// fields, mirroring the layout the directory data reads best with.
func applyColumnStyles(f *excelize.File, sheet string, keys []string) error {
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("export: failed to create style: %w", err)
	}

	for i, k := range keys {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("export: bad column index %d: %w", i+1, err)
		}
		width := 20.0
		if _, wrap := wrapKeys[k]; wrap {
			width = 50.0
			if err := f.SetColStyle(sheet, col, wrapStyle); err != nil {
				return fmt.Errorf("export: failed to style column %s: %w", col, err)
			}
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("export: failed to size column %s: %w", col, err)
		}
	}
	return nil
}
