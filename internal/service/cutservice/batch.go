package cutservice

import (
	"acristock/internal/domain"
)

// pendingBatch é um lote de cortes em construção sobre uma origem já resolvida.
// Cada corte é validado no momento em que é adicionado; um corte rejeitado não
// afeta os cortes já aceites.
type pendingBatch struct {
	source domain.Piece
	cuts   []domain.CutRequest
}

func newPendingBatch(source domain.Piece) *pendingBatch {
	return &pendingBatch{source: source}
}

// add valida o corte e, se for aceite, junta-o ao lote.
func (b *pendingBatch) add(cut domain.CutRequest) error {
	if err := Validate(b.source, cut); err != nil {
		return err
	}
	b.cuts = append(b.cuts, cut)
	return nil
}
