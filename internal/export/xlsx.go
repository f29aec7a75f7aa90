// Package export gera os ficheiros descarregáveis do inventário: o livro XLSX
// com as quatro coleções e as etiquetas PDF (com QR code) dos cortes.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"acristock/internal/domain"
)

// Nomes das folhas do livro exportado.
const (
	SheetChapas   = "Chapas"
	SheetRetalhos = "Retalhos"
	SheetSobras   = "Sobras"
	SheetCortes   = "Cortes"
	SheetResumo   = "Resumo"
)

var pieceHeader = []interface{}{
	"ID", "Largura (mm)", "Altura (mm)", "Espessura (mm)", "Cor", "Quantidade",
	"Localização", "Origem", "Área (m²)", "Área cortada (m²)", "Criado em",
}

// WriteInventoryWorkbook escreve em w um livro XLSX com uma folha por coleção e
// uma folha de resumo.
func WriteInventoryWorkbook(w io.Writer, snap domain.InventorySnapshot, sum domain.InventorySummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// A folha por omissão passa a ser a das chapas.
	if err := f.SetSheetName(f.GetSheetName(0), SheetChapas); err != nil {
		return fmt.Errorf("falha ao renomear folha: %w", err)
	}

	collections := []struct {
		name   string
		pieces []domain.Piece
	}{
		{SheetChapas, snap.Sheets},
		{SheetRetalhos, snap.Scraps},
		{SheetSobras, snap.Leftovers},
		{SheetCortes, snap.Cuts},
	}
	for _, c := range collections {
		if c.name != SheetChapas {
			if _, err := f.NewSheet(c.name); err != nil {
				return fmt.Errorf("falha ao criar folha %s: %w", c.name, err)
			}
		}
		if err := writePieces(f, c.name, c.pieces); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetResumo); err != nil {
		return fmt.Errorf("falha ao criar folha %s: %w", SheetResumo, err)
	}
	if err := writeSummary(f, sum); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("falha ao escrever o livro: %w", err)
	}
	return nil
}

func writePieces(f *excelize.File, sheet string, pieces []domain.Piece) error {
	header := pieceHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho de %s: %w", sheet, err)
	}
	for i, p := range pieces {
		row := []interface{}{
			p.ID,
			p.Width,
			p.Height,
			p.Thickness.InexactFloat64(),
			p.Color,
			p.Quantity,
			p.Location,
			p.OriginSheet,
			p.Area(),
			p.CutArea,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("falha ao escrever linha %d de %s: %w", i+2, sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 38)
}

func writeSummary(f *excelize.File, sum domain.InventorySummary) error {
	rows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Registos de chapa", sum.SheetRecords},
		{"Unidades de chapa", sum.SheetUnits},
		{"Chapas esgotadas", sum.DepletedSheets},
		{"Área de chapas (m²)", sum.SheetArea},
		{"Retalhos", sum.ScrapCount},
		{"Área de retalhos (m²)", sum.ScrapArea},
		{"Sobras", sum.LeftoverCount},
		{"Área de sobras (m²)", sum.LeftoverArea},
		{"Área disponível em sobras (m²)", sum.LeftoverAvailableArea},
		{"Cortes", sum.CutCount},
		{"Área cortada (m²)", sum.CutArea},
	}
	for _, c := range sum.SheetUnitsByColor {
		rows = append(rows, []interface{}{"Chapas " + c.Color, c.Units})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetResumo, cell, &rows[i]); err != nil {
			return fmt.Errorf("falha ao escrever resumo: %w", err)
		}
	}
	return f.SetColWidth(SheetResumo, "A", "A", 34)
}
