package financial

import (
	"bytes"
	"fmt"

	"guvenlik-backend/internal/money"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the response type of the export endpoints.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportLabels carries the localized sheet and header texts.
type ExportLabels struct {
	Sheet   string
	Headers []string
	Total   string
}

var (
	PLLabelsTR = ExportLabels{
		Sheet:   "Kar-Zarar",
		Headers: []string{"Dönem", "Gelir", "SMM", "Brüt Kar", "Giderler", "Net Kar"},
		Total:   "Toplam",
	}
	PLLabelsEN = ExportLabels{
		Sheet:   "Profit-Loss",
		Headers: []string{"Period", "Revenue", "COGS", "Gross Profit", "Expenses", "Net Profit"},
		Total:   "Total",
	}
	VATLabelsTR = ExportLabels{
		Sheet:   "KDV",
		Headers: []string{"Dönem", "Hesaplanan KDV", "İndirilecek KDV", "Ödenecek KDV"},
		Total:   "Toplam",
	}
	VATLabelsEN = ExportLabels{
		Sheet:   "VAT",
		Headers: []string{"Period", "Output VAT", "Input VAT", "Net VAT"},
		Total:   "Total",
	}
)

// ExportPL writes per-period rows plus a totals row to an XLSX workbook.
func ExportPL(rows []PeriodPL, totals PLTotals, labels ExportLabels) (*bytes.Buffer, error) {
	data := make([][]any, 0, len(rows)+1)
	for _, r := range rows {
		data = append(data, plCells(r.Period, r.PLTotals))
	}
	data = append(data, plCells(labels.Total, totals))
	return writeSheet(labels, data)
}

func plCells(label string, t PLTotals) []any {
	return []any{label, num(t.Revenue), num(t.COGS), num(t.GrossProfit), num(t.Expenses), num(t.NetProfit)}
}

// ExportVAT writes VAT rows plus a totals row.
func ExportVAT(rows []VATRow, labels ExportLabels) (*bytes.Buffer, error) {
	var total vatSums
	data := make([][]any, 0, len(rows)+1)
	for _, r := range rows {
		data = append(data, []any{r.Period, num(r.OutputVAT), num(r.InputVAT), num(r.NetVAT)})
		total.output = total.output.Add(r.OutputVAT)
		total.input = total.input.Add(r.InputVAT)
	}
	t := total.row(labels.Total)
	data = append(data, []any{t.Period, num(t.OutputVAT), num(t.InputVAT), num(t.NetVAT)})
	return writeSheet(labels, data)
}

// num: Excel hücresine sayı olarak yazılsın diye float64.
func num(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func writeSheet(labels ExportLabels, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := labels.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("sheet adı: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	// tutarlar TL cinsinden
	moneyFmt := `#,##0.00 "` + money.Symbol(money.TRY) + `"`
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, err
	}

	header := make([]any, len(labels.Headers))
	for i, h := range labels.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(labels.Headers))
	lastRow := len(rows) + 1
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if lastRow > 1 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("%s%d", lastCol, lastRow), amount); err != nil {
			return nil, err
		}
		// toplam satırı
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", lastRow), fmt.Sprintf("A%d", lastRow), bold); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx yazılamadı: %w", err)
	}
	return buf, nil
}
