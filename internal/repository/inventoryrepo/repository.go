package inventoryrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/cache"
	"acristock/internal/pkg/database"
	"acristock/internal/pkg/logger"
	"acristock/internal/service/cutservice"
)

// Chave de cache de uma peça: kind + id.
const pieceCacheKey = "peca:%s:%s"

const selectColumns = `id, kind, width, height, thickness, color, quantity, location, origin_sheet, cut_area, created_at`

// querier é o subconjunto comum a *sql.DB e *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository implementa cutservice.TxStore sobre a tabela pecas (PostgreSQL),
// com cache-aside em Redis para leituras por ID. Cache pode ser nil.
type Repository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewRepository cria e retorna uma nova instância do Repositório de inventário.
func NewRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *Repository {
	return &Repository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

func checkKind(kind domain.Kind) error {
	if !kind.Valid() {
		return apperror.NewValidationError(fmt.Sprintf("Tipo de registo desconhecido: %q.", kind))
	}
	return nil
}

func cacheKey(kind domain.Kind, id string) string {
	return fmt.Sprintf(pieceCacheKey, kind, id)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPiece(row scanner) (domain.Piece, error) {
	var p domain.Piece
	err := row.Scan(
		&p.ID,
		&p.Kind,
		&p.Width,
		&p.Height,
		&p.Thickness,
		&p.Color,
		&p.Quantity,
		&p.Location,
		&p.OriginSheet,
		&p.CutArea,
		&p.CreatedAt,
	)
	return p, err
}

// --- Operações sobre um querier (DB ou Tx) ---

func list(ctx context.Context, q querier, kind domain.Kind) ([]domain.Piece, error) {
	query := `SELECT ` + selectColumns + ` FROM pecas WHERE kind = $1 ORDER BY created_at, id`
	rows, err := q.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar registos", err)
	}
	defer rows.Close()

	pieces := []domain.Piece{}
	for rows.Next() {
		p, err := scanPiece(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler registo", err)
		}
		pieces = append(pieces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar registos", err)
	}
	return pieces, nil
}

func get(ctx context.Context, q querier, kind domain.Kind, id string, forUpdate bool) (domain.Piece, error) {
	query := `SELECT ` + selectColumns + ` FROM pecas WHERE kind = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanPiece(q.QueryRowContext(ctx, query, kind, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Piece{}, apperror.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", kind.Title(), id))
	}
	if err != nil {
		return domain.Piece{}, apperror.NewDBError("Falha ao buscar registo", err)
	}
	return p, nil
}

func insert(ctx context.Context, q querier, kind domain.Kind, p domain.Piece) (domain.Piece, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Kind = kind

	const insertSQL = `INSERT INTO pecas (` + selectColumns + `)
                       VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := q.ExecContext(ctx, insertSQL,
		p.ID,
		p.Kind,
		p.Width,
		p.Height,
		p.Thickness,
		p.Color,
		p.Quantity,
		p.Location,
		p.OriginSheet,
		p.CutArea,
		p.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Piece{}, apperror.NewConflictError(fmt.Sprintf("%s com ID %s já existe.", kind.Title(), p.ID))
		}
		return domain.Piece{}, apperror.NewDBError("Falha ao inserir registo", err)
	}
	return p, nil
}

// buildUpdate monta a cláusula SET de um patch parcial. Os argumentos começam em $3
// ($1 = kind, $2 = id).
func buildUpdate(patch domain.PiecePatch) (string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+2))
	}
	if patch.Width != nil {
		add("width", *patch.Width)
	}
	if patch.Height != nil {
		add("height", *patch.Height)
	}
	if patch.Thickness != nil {
		add("thickness", *patch.Thickness)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.OriginSheet != nil {
		add("origin_sheet", *patch.OriginSheet)
	}
	if patch.CutArea != nil {
		add("cut_area", *patch.CutArea)
	}
	return strings.Join(sets, ", "), args
}

func update(ctx context.Context, q querier, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	if patch.Empty() {
		return get(ctx, q, kind, id, false)
	}
	set, args := buildUpdate(patch)
	query := `UPDATE pecas SET ` + set + ` WHERE kind = $1 AND id = $2 RETURNING ` + selectColumns

	p, err := scanPiece(q.QueryRowContext(ctx, query, append([]interface{}{kind, id}, args...)...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Piece{}, apperror.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", kind.Title(), id))
	}
	if err != nil {
		return domain.Piece{}, apperror.NewDBError("Falha ao atualizar registo", err)
	}
	return p, nil
}

func remove(ctx context.Context, q querier, kind domain.Kind, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM pecas WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return apperror.NewDBError("Falha ao remover registo", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar remoção", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", kind.Title(), id))
	}
	return nil
}

func decrement(ctx context.Context, q querier, id string, by int) (int, error) {
	if by < 0 {
		return 0, apperror.NewValidationError("O decremento não pode ser negativo.")
	}
	var qty int
	err := q.QueryRowContext(ctx,
		`UPDATE pecas SET quantity = GREATEST(quantity - $2, 0) WHERE kind = 'chapa' AND id = $1 RETURNING quantity`,
		id, by,
	).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperror.NewNotFoundError(fmt.Sprintf("Chapa com ID %s não encontrado.", id))
	}
	if err != nil {
		return 0, apperror.NewDBError("Falha ao decrementar quantidade", err)
	}
	return qty, nil
}

// --- cutservice.Store ---

// List devolve todos os registos de um tipo, do mais antigo para o mais recente.
func (r *Repository) List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	pieces, err := list(ctxTimeout, r.DB, kind)
	if err != nil {
		r.logger.Error("Falha ao listar registos no DB.", err)
		return nil, err
	}
	r.logger.Debug("Registos listados.", map[string]interface{}{"kind": kind, "count": len(pieces)})
	return pieces, nil
}

// Get busca um registo pelo ID, utilizando a estratégia Cache-Aside.
func (r *Repository) Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cacheKey(kind, id)

	// 1. Cache (READ)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var p domain.Piece
			if json.Unmarshal([]byte(cached), &p) == nil {
				r.logger.Debug("Registo encontrado no cache.", map[string]interface{}{"key": key})
				return p, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	// 2. Banco de dados
	p, err := get(ctxTimeout, r.DB, kind, id, false)
	if err != nil {
		if !apperror.IsNotFound(err) {
			r.logger.Error("Falha ao buscar registo no DB.", err)
		}
		return domain.Piece{}, err
	}

	// 3. Cache (WRITE)
	r.cacheSet(ctxTimeout, key, p)
	return p, nil
}

// Insert persiste um novo registo. ID e CreatedAt são gerados quando vazios.
func (r *Repository) Insert(ctx context.Context, kind domain.Kind, p domain.Piece) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	created, err := insert(ctxTimeout, r.DB, kind, p)
	if err != nil {
		r.logger.Error("Falha ao inserir registo no DB.", err)
		return domain.Piece{}, err
	}
	r.logger.Info("Registo inserido.", map[string]interface{}{"kind": kind, "id": created.ID})
	return created, nil
}

// Update aplica um patch parcial e invalida o cache do registo.
func (r *Repository) Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	p, err := update(ctxTimeout, r.DB, kind, id, patch)
	if err != nil {
		return domain.Piece{}, err
	}
	r.invalidate(ctxTimeout, cacheKey(kind, id))
	return p, nil
}

// Remove apaga um registo e invalida o cache.
func (r *Repository) Remove(ctx context.Context, kind domain.Kind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if err := remove(ctxTimeout, r.DB, kind, id); err != nil {
		return err
	}
	r.invalidate(ctxTimeout, cacheKey(kind, id))
	return nil
}

// DecrementQuantity reduz a quantidade de uma chapa (mínimo 0) e devolve o novo valor.
func (r *Repository) DecrementQuantity(ctx context.Context, id string, by int) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	qty, err := decrement(ctxTimeout, r.DB, id, by)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctxTimeout, cacheKey(domain.KindSheet, id))
	return qty, nil
}

// RunInTx executa fn numa transação SQL. Leituras dentro da transação usam
// SELECT ... FOR UPDATE; o cache das chaves tocadas é invalidado após o COMMIT.
func (r *Repository) RunInTx(ctx context.Context, fn func(tx cutservice.Store) error) (err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sqlTx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer func() {
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Error("Falha no rollback da transação.", rbErr)
			}
		}
	}()

	tx := &txStore{q: sqlTx}
	if err = fn(tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		r.logger.Error("Falha ao fazer commit da transação.", err)
		return apperror.NewDBError("Falha ao fazer commit da transação", err)
	}

	r.invalidate(ctxTimeout, tx.touched...)
	return nil
}

func (r *Repository) cacheSet(ctx context.Context, key string, p domain.Piece) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao escrever no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *Repository) invalidate(ctx context.Context, keys ...string) {
	if r.Cache == nil || len(keys) == 0 {
		return
	}
	if err := r.Cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache.", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

// txStore é a visão transacional do repositório; regista as chaves alteradas.
type txStore struct {
	q       querier
	touched []string
}

func (t *txStore) List(ctx context.Context, kind domain.Kind) ([]domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	return list(ctx, t.q, kind)
}

func (t *txStore) Get(ctx context.Context, kind domain.Kind, id string) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	return get(ctx, t.q, kind, id, true)
}

func (t *txStore) Insert(ctx context.Context, kind domain.Kind, p domain.Piece) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	return insert(ctx, t.q, kind, p)
}

func (t *txStore) Update(ctx context.Context, kind domain.Kind, id string, patch domain.PiecePatch) (domain.Piece, error) {
	if err := checkKind(kind); err != nil {
		return domain.Piece{}, err
	}
	t.touched = append(t.touched, cacheKey(kind, id))
	return update(ctx, t.q, kind, id, patch)
}

func (t *txStore) Remove(ctx context.Context, kind domain.Kind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	t.touched = append(t.touched, cacheKey(kind, id))
	return remove(ctx, t.q, kind, id)
}

func (t *txStore) DecrementQuantity(ctx context.Context, id string, by int) (int, error) {
	t.touched = append(t.touched, cacheKey(domain.KindSheet, id))
	return decrement(ctx, t.q, id, by)
}

var _ cutservice.TxStore = (*Repository)(nil)
