package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// 导入模板列：材质、规格、数量、密度
var inventoryImportHeaders = []string{"材质", "规格", "数量", "密度"}

// ImportPreview 导入文件解析结果
type ImportPreview struct {
	Items   []apiclient.InventoryRequest `json:"items"`
	Errors  []string                     `json:"errors,omitempty"`
	Skipped int                          `json:"skipped"`
}

// ParseImport 解析 xlsx 或 csv（UTF-8/GBK），第一行为表头
func (s *InventoryService) ParseImport(filename string, r io.Reader) (*ImportPreview, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, apiclient.Validation("unsupported file type, use .xlsx or .csv")
	}
	if err != nil {
		return nil, apiclient.Validation("failed to read %s: %v", filename, err)
	}

	preview := &ImportPreview{Items: []apiclient.InventoryRequest{}}
	if len(rows) < 2 {
		return preview, nil
	}

	for i, row := range rows[1:] { // 跳过表头
		rowNo := i + 2
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		material, spec := cell(0), cell(1)
		if material == "" || spec == "" {
			preview.Skipped++
			continue
		}

		item := apiclient.InventoryRequest{Material: material, Specification: spec}
		qty, err := decimal.NewFromString(cell(2))
		if err != nil || qty.IsNegative() {
			preview.Errors = append(preview.Errors, fmt.Sprintf("row %d: invalid quantity %q", rowNo, cell(2)))
			continue
		}
		item.Quantity = qty

		if d := cell(3); d != "" {
			density, err := decimal.NewFromString(d)
			if err != nil || !density.IsPositive() {
				preview.Errors = append(preview.Errors, fmt.Sprintf("row %d: invalid density %q", rowNo, d))
				continue
			}
			item.Density = decimal.NewNullDecimal(density)
		}
		preview.Items = append(preview.Items, item)
	}
	return preview, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(f.GetSheetName(0))
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Excel 中文版默认另存为 GBK
		src = transform.NewReader(src, simplifiedchinese.GBK.NewDecoder())
	}
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// Import 整批导入；有任何解析错误时不提交
func (s *InventoryService) Import(ctx context.Context, filename string, r io.Reader) (*apiclient.ImportSummary, error) {
	preview, err := s.ParseImport(filename, r)
	if err != nil {
		return nil, err
	}
	if len(preview.Errors) > 0 {
		return nil, apiclient.Validation("%s", strings.Join(preview.Errors, "; "))
	}
	if len(preview.Items) == 0 {
		return nil, apiclient.Validation("no inventory rows found in %s", filename)
	}

	summary, err := s.api.ImportInventory(ctx, preview.Items)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Inventory imported",
		zap.String("file", filename),
		zap.Int("rows", len(preview.Items)),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// ImportTemplate 生成导入模板
func (s *InventoryService) ImportTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "库存导入"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range inventoryImportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		f.SetColWidth(sheet, col, col, 14)
	}
	f.SetCellValue(sheet, "A2", "201")
	f.SetCellValue(sheet, "B2", "2mm")
	f.SetCellValue(sheet, "C2", 100)
	f.SetCellValue(sheet, "D2", 7.93)
	return f, nil
}
