package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind é o discriminador da união etiquetada Piece.
// Os valores coincidem com os nomes usados nas rotas e na coluna "kind" da tabela pecas.
type Kind string

const (
	KindSheet    Kind = "chapa"   // stock fungível, controlado por quantidade
	KindScrap    Kind = "retalho" // retalho pré-existente, uma peça física
	KindCut      Kind = "corte"   // registo histórico de um corte
	KindLeftover Kind = "sobra"   // sobra gerada por uma operação de corte
)

// Kinds lista todos os tipos de registo na ordem em que são apresentados.
var Kinds = []Kind{KindSheet, KindScrap, KindLeftover, KindCut}

// ParseKind converte uma string (case-insensitive) num Kind conhecido.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Valid indica se o Kind é um dos quatro tipos conhecidos.
func (k Kind) Valid() bool {
	switch k {
	case KindSheet, KindScrap, KindCut, KindLeftover:
		return true
	}
	return false
}

// IsSource indica se o tipo pode servir de origem para um corte.
func (k Kind) IsSource() bool {
	return k == KindSheet || k == KindScrap || k == KindLeftover
}

// Title devolve o nome do tipo com inicial maiúscula (usado nos rótulos de origem).
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// MM2PerM2 converte milímetros quadrados em metros quadrados.
const MM2PerM2 = 1_000_000

// AreaM2 devolve a área, em m², de um retângulo com dimensões em mm.
func AreaM2(width, height int) float64 {
	return float64(width) * float64(height) / MM2PerM2
}

// Piece representa qualquer registo de inventário (chapa, retalho, corte ou sobra).
// Dimensões lineares em milímetros; áreas em metros quadrados.
type Piece struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Thickness decimal.Decimal `json:"thickness"`
	Color     string          `json:"color"`

	// Quantity só tem significado para chapas.
	Quantity int `json:"quantity"`
	// Location aplica-se a chapas, retalhos e sobras.
	Location string `json:"location,omitempty"`
	// OriginSheet é um rótulo descritivo da peça de onde este registo veio.
	OriginSheet string `json:"origin_sheet,omitempty"`
	// CutArea (m²) só tem significado para sobras.
	CutArea float64 `json:"cut_area"`

	CreatedAt time.Time `json:"created_at"`
}

// Area devolve a área total da peça em m².
func (p Piece) Area() float64 {
	return AreaM2(p.Width, p.Height)
}

// AvailableArea devolve a área ainda disponível (área total menos a já cortada).
func (p Piece) AvailableArea() float64 {
	return p.Area() - p.CutArea
}

// Label devolve o rótulo descritivo usado como OriginSheet nos registos derivados,
// por exemplo "Chapa Transparente (2000x3000mm)".
func (p Piece) Label() string {
	return fmt.Sprintf("%s %s (%dx%dmm)", p.Kind.Title(), p.Color, p.Width, p.Height)
}

// Selectable indica se a peça pode ser escolhida como origem de um corte.
// Chapas esgotadas (quantidade 0) continuam listadas mas não são selecionáveis.
func (p Piece) Selectable() bool {
	if !p.Kind.IsSource() {
		return false
	}
	if p.Kind == KindSheet {
		return p.Quantity > 0
	}
	return true
}

// PiecePatch descreve uma atualização parcial. Campos nil não são alterados.
// ID, Kind e CreatedAt são imutáveis e por isso não fazem parte do patch.
type PiecePatch struct {
	Width       *int             `json:"width,omitempty"`
	Height      *int             `json:"height,omitempty"`
	Thickness   *decimal.Decimal `json:"thickness,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Location    *string          `json:"location,omitempty"`
	OriginSheet *string          `json:"origin_sheet,omitempty"`
	CutArea     *float64         `json:"cut_area,omitempty"`
}

// Empty indica se o patch não altera nenhum campo.
func (p PiecePatch) Empty() bool {
	return p.Width == nil && p.Height == nil && p.Thickness == nil && p.Color == nil &&
		p.Quantity == nil && p.Location == nil && p.OriginSheet == nil && p.CutArea == nil
}

// Apply devolve uma cópia da peça com os campos do patch aplicados.
func (p PiecePatch) Apply(piece Piece) Piece {
	if p.Width != nil {
		piece.Width = *p.Width
	}
	if p.Height != nil {
		piece.Height = *p.Height
	}
	if p.Thickness != nil {
		piece.Thickness = *p.Thickness
	}
	if p.Color != nil {
		piece.Color = *p.Color
	}
	if p.Quantity != nil {
		piece.Quantity = *p.Quantity
	}
	if p.Location != nil {
		piece.Location = *p.Location
	}
	if p.OriginSheet != nil {
		piece.OriginSheet = *p.OriginSheet
	}
	if p.CutArea != nil {
		piece.CutArea = *p.CutArea
	}
	return piece
}
