package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"acristock/internal/domain"
)

// CutLabel são os dados de um corte codificados no QR code da etiqueta.
type CutLabel struct {
	ID        string `json:"id"`
	Width     int    `json:"width_mm"`
	Height    int    `json:"height_mm"`
	Thickness string `json:"thickness_mm"`
	Color     string `json:"color"`
	Origin    string `json:"origin"`
	CreatedAt string `json:"created_at"`
}

// Grelha de etiquetas em A4: 3 colunas x 8 linhas de 70 x 33,8 mm.
const (
	labelMarginTop  = 13.3
	labelMarginLeft = 0.0
	labelWidth      = 70.0
	labelHeight     = 33.8
	labelCols       = 3
	labelRows       = 8
	labelsPerPage   = labelCols * labelRows
	qrSize          = 26.0
	labelPadding    = 2.5
)

// ErrNoCuts é devolvido quando não há cortes para etiquetar.
var ErrNoCuts = errors.New("nenhum corte para gerar etiquetas")

// CollectLabels converte registos de corte nos dados das etiquetas.
func CollectLabels(cuts []domain.Piece) []CutLabel {
	labels := make([]CutLabel, 0, len(cuts))
	for _, c := range cuts {
		labels = append(labels, CutLabel{
			ID:        c.ID,
			Width:     c.Width,
			Height:    c.Height,
			Thickness: c.Thickness.String(),
			Color:     c.Color,
			Origin:    c.OriginSheet,
			CreatedAt: c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return labels
}

// WriteCutLabels escreve em w um PDF com uma etiqueta por corte.
func WriteCutLabels(w io.Writer, cuts []domain.Piece) error {
	labels := CollectLabels(cuts)
	if len(labels) == 0 {
		return ErrNoCuts
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, tr, x, y, i, label); err != nil {
			return fmt.Errorf("falha ao gerar etiqueta do corte %s: %w", label.ID, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("falha ao escrever PDF: %w", err)
	}
	return nil
}

func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, idx int, label CutLabel) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(label)
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return err
	}
	imgName := fmt.Sprintf("qr_%d", idx)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("%d x %d mm", label.Width, label.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 4, tr(fmt.Sprintf("%s mm %s", label.Thickness, label.Color)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+11)
	pdf.MultiCell(textW, 3, tr(label.Origin), "", "L", false)
	pdf.SetXY(textX, y+labelHeight-labelPadding-6)
	pdf.CellFormat(textW, 3, label.CreatedAt, "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelHeight-labelPadding-3)
	pdf.CellFormat(textW, 3, shortID(label.ID), "", 1, "L", false, 0, "")

	return pdf.Error()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
