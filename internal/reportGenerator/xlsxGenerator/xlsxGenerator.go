package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FileExtension = ".xlsx"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxSheetNameLen = 31
	assetsHeaderRow = 7
)

var assetColumns = []string{"symbol", "quantity", "avg price", "current price", "value", "profit", "profit %", "day change %"}

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders one sheet per performance view.
func (g *XLSXGenerator) Generate(ctx context.Context, views []model.PerformanceView) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(views) == 0 {
		return nil, "", errors.New("empty portfolios")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	for i, view := range views {
		if err := g.fillSheet(f, view, i+1); err != nil {
			slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	// лист по умолчанию больше не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), FileExtension, nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, view model.PerformanceView, ordinal int) error {
	sheetName := SheetName(ordinal, view.PortfolioName)
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	titleStyle, err := headerStyle(f, "#cfe2f3")
	if err != nil {
		return err
	}
	tableStyle, err := headerStyle(f, "#d9ead3")
	if err != nil {
		return err
	}

	if err = f.MergeCell(sheetName, "A1", "D1"); err != nil {
		return err
	}
	_ = f.SetCellStr(sheetName, "A1", view.PortfolioName)
	if err = f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	summary := []struct {
		label string
		value *decimal.Decimal
	}{
		{"total value", &view.TotalValue},
		{"total cost", &view.TotalCost},
		{"total profit", &view.TotalProfit},
		{"total profit %", &view.TotalProfitPercentage},
		{"day change %", view.DayChange},
	}
	for i, row := range summary {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", i+2), row.label)
		setDecimal(f, sheetName, fmt.Sprintf("B%d", i+2), row.value)
	}

	for i, title := range assetColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, assetsHeaderRow)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(sheetName, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(assetColumns), assetsHeaderRow)
	if err = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", assetsHeaderRow), lastHeader, tableStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	row := assetsHeaderRow
	for _, asset := range view.Assets {
		row++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), asset.Symbol)
		setDecimal(f, sheetName, fmt.Sprintf("B%d", row), &asset.Quantity)
		setDecimal(f, sheetName, fmt.Sprintf("C%d", row), &asset.AveragePrice)
		setDecimal(f, sheetName, fmt.Sprintf("D%d", row), &asset.CurrentPrice)
		setDecimal(f, sheetName, fmt.Sprintf("E%d", row), &asset.Value)
		setDecimal(f, sheetName, fmt.Sprintf("F%d", row), &asset.Profit)
		setDecimal(f, sheetName, fmt.Sprintf("G%d", row), &asset.ProfitPercentage)
		setDecimal(f, sheetName, fmt.Sprintf("H%d", row), asset.DayChange)
	}

	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "total")
	setDecimal(f, sheetName, fmt.Sprintf("E%d", row), &view.TotalValue)
	setDecimal(f, sheetName, fmt.Sprintf("F%d", row), &view.TotalProfit)
	setDecimal(f, sheetName, fmt.Sprintf("G%d", row), &view.TotalProfitPercentage)
	setDecimal(f, sheetName, fmt.Sprintf("H%d", row), view.DayChange)

	return nil
}

// SheetName builds a unique sheet title that excel accepts.
func SheetName(ordinal int, portfolioName string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, portfolioName)

	name := []rune(fmt.Sprintf("%d. %s", ordinal, cleaned))
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return string(name)
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

// setDecimal leaves the cell empty for undefined values.
func setDecimal(f *excelize.File, sheet, cell string, value *decimal.Decimal) {
	if value == nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, value.InexactFloat64())
}
