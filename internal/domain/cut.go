package domain

import "strings"

// CutRequest é um corte retangular pedido (dimensões em mm).
type CutRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AreaMM2 devolve a área do corte em mm², sem perda de precisão.
func (c CutRequest) AreaMM2() int64 {
	return int64(c.Width) * int64(c.Height)
}

// RemnantPolicy define como a sobra de um lote de cortes é calculada.
type RemnantPolicy string

const (
	// PolicyFullFootprint: a sobra herda as dimensões da origem e acumula a área cortada.
	PolicyFullFootprint RemnantPolicy = "integral"
	// PolicyProportional: a sobra é reduzida ao que resta, preservando a proporção da origem.
	PolicyProportional RemnantPolicy = "proporcional"
	// PolicyManual: as dimensões da sobra são indicadas pelo operador.
	PolicyManual RemnantPolicy = "manual"
)

// ParseRemnantPolicy converte uma string numa política conhecida.
func ParseRemnantPolicy(s string) (RemnantPolicy, bool) {
	p := RemnantPolicy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PolicyFullFootprint, PolicyProportional, PolicyManual:
		return p, true
	}
	return "", false
}

// CommitRequest é o payload para registar um lote de cortes sobre uma peça de origem.
type CommitRequest struct {
	SourceKind Kind          `json:"source_kind"`
	SourceID   string        `json:"source_id"`
	Cuts       []CutRequest  `json:"cuts"`
	Policy     RemnantPolicy `json:"policy"`
	// ManualRemnant só é usado com a política "manual".
	ManualRemnant *CutRequest `json:"manual_remnant,omitempty"`
}

// CommitResult descreve os efeitos de um lote de cortes registado com sucesso.
type CommitResult struct {
	CutsCreated     int     `json:"cuts_created"`
	Cuts            []Piece `json:"cuts"`
	LeftoverCreated Piece   `json:"leftover_created"`
	// Source é o estado da origem depois do registo (quantidade decrementada, no caso de chapas).
	Source        Piece `json:"source"`
	SourceRemoved bool  `json:"source_removed"`
}

// CutVerdict é o resultado da validação de um corte individual de um lote pendente.
type CutVerdict struct {
	Index   int    `json:"index"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// RemnantPreview é a simulação de um lote: a sobra que seria criada e a contabilidade de áreas (m²).
type RemnantPreview struct {
	Source        Piece         `json:"source"`
	Policy        RemnantPolicy `json:"policy"`
	Leftover      Piece         `json:"leftover"`
	SourceArea    float64       `json:"source_area"`
	CutArea       float64       `json:"cut_area"`
	RemainingArea float64       `json:"remaining_area"`
}
