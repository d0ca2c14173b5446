// Package workbook parses spreadsheet files into header-keyed rows and caches
// the parses by file modification time.
package workbook

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Row maps a column header to its cell value: float64 for numbers, bool,
// time.Time for ISO date cells, string otherwise. Blank cells are "".
type Row map[string]any

// Workbook is an immutable parsed spreadsheet.
type Workbook struct {
	Name   string
	order  []string
	sheets map[string][][]any
}

func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Parse reads a workbook. Legacy .xls files go through extrame/xls,
// everything else through excelize.
func Parse(name string, r io.Reader) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return parseXLS(name, data)
	default:
		return parseXLSX(name, data)
	}
}

func parseXLSX(name string, data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{Name: name, sheets: map[string][][]any{}}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, name, err)
		}
		grid := make([][]any, len(rows))
		for i, row := range rows {
			cells := make([]any, len(row))
			for j, raw := range row {
				if raw == "" {
					cells[j] = ""
					continue
				}
				axis, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					cells[j] = raw
					continue
				}
				typ, err := f.GetCellType(sheet, axis)
				if err != nil {
					cells[j] = raw
					continue
				}
				cells[j] = xlsxCell(raw, typ)
			}
			grid[i] = cells
		}
		wb.order = append(wb.order, sheet)
		wb.sheets[sheet] = grid
	}
	return wb, nil
}

func xlsxCell(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return raw
}

func parseXLS(name string, data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	wb := &Workbook{Name: name, sheets: map[string][][]any{}}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		grid := make([][]any, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]any, row.LastCol()+1)
			for c := range cells {
				cells[c] = ""
			}
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				cells[c] = xlsCell(row.Col(c))
			}
			grid = append(grid, cells)
		}
		wb.order = append(wb.order, sheet.Name)
		wb.sheets[sheet.Name] = grid
	}
	return wb, nil
}

// xlsCell types legacy cells, which only come back as text. Only canonical
// numbers become float64 so ids like "0042" keep their leading zeros.
func xlsCell(text string) any {
	if text == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == text {
		return f
	}
	return text
}

// Rows returns the sheet's data rows keyed by the header row. The header is
// the first non-blank row; columns span the sheet's used range. Blank header
// cells become __EMPTY, __EMPTY_1, ... and repeated headers get _1, _2, ...
// suffixes. Fully blank rows are skipped. The boolean is false when the sheet
// does not exist.
func (w *Workbook) Rows(sheet string) ([]Row, bool) {
	grid, ok := w.sheets[sheet]
	if !ok {
		return nil, false
	}

	minCol, maxCol := -1, 0
	headerIdx := -1
	for i, row := range grid {
		for j, v := range row {
			if isBlank(v) {
				continue
			}
			if minCol < 0 || j < minCol {
				minCol = j
			}
			if j+1 > maxCol {
				maxCol = j + 1
			}
			if headerIdx < 0 {
				headerIdx = i
			}
		}
	}
	if headerIdx < 0 {
		return []Row{}, true
	}

	headers := headerNames(grid[headerIdx], minCol, maxCol)
	out := make([]Row, 0, len(grid)-headerIdx-1)
	for _, cells := range grid[headerIdx+1:] {
		row := make(Row, len(headers))
		blank := true
		for k, h := range headers {
			col := minCol + k
			var v any = ""
			if col < len(cells) && cells[col] != nil {
				v = cells[col]
			}
			if !isBlank(v) {
				blank = false
			}
			row[h] = v
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out, true
}

func headerNames(cells []any, minCol, maxCol int) []string {
	seen := map[string]int{}
	names := make([]string, 0, maxCol-minCol)
	for col := minCol; col < maxCol; col++ {
		base := "__EMPTY"
		if col < len(cells) && !isBlank(cells[col]) {
			base = cellText(cells[col])
		}
		name := base
		if n := seen[base]; n == 0 {
			seen[base] = 1
		} else {
			for {
				name = base + "_" + strconv.Itoa(n)
				n++
				if seen[name] == 0 {
					break
				}
			}
			seen[base] = n
			seen[name] = 1
		}
		names = append(names, name)
	}
	return names
}

func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}
