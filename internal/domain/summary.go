package domain

// InventorySummary agrega os totais do inventário (áreas em m²).
type InventorySummary struct {
	SheetRecords          int          `json:"sheet_records"`
	SheetUnits            int          `json:"sheet_units"`
	DepletedSheets        int          `json:"depleted_sheets"`
	SheetArea             float64      `json:"sheet_area"`
	ScrapCount            int          `json:"scrap_count"`
	ScrapArea             float64      `json:"scrap_area"`
	LeftoverCount         int          `json:"leftover_count"`
	LeftoverArea          float64      `json:"leftover_area"`
	LeftoverAvailableArea float64      `json:"leftover_available_area"`
	CutCount              int          `json:"cut_count"`
	CutArea               float64      `json:"cut_area"`
	SheetUnitsByColor     []ColorCount `json:"sheet_units_by_color"`
}

// ColorCount agrupa unidades de chapa por cor.
type ColorCount struct {
	Color string `json:"color"`
	Units int    `json:"units"`
}

// InventorySnapshot é uma fotografia das quatro coleções (usada nas exportações).
type InventorySnapshot struct {
	Sheets    []Piece `json:"sheets"`
	Scraps    []Piece `json:"scraps"`
	Leftovers []Piece `json:"leftovers"`
	Cuts      []Piece `json:"cuts"`
}
