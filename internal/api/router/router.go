package router

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"acristock/internal/api/cut"
	"acristock/internal/api/inventory"
	"acristock/internal/api/user"
	_ "acristock/internal/docs" // regista a especificação servida em /swagger/
	"acristock/internal/domain"
	"acristock/internal/pkg/cache"
	"acristock/internal/pkg/logger"
	"acristock/internal/pkg/metrics"
	"acristock/internal/pkg/middleware"
)

// Handlers agrupa os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Inventory *inventory.Handler
	Cut       *cut.Handler
	User      *user.Handler
}

// Options agrupa a infraestrutura partilhada pelas rotas.
type Options struct {
	TokenService middleware.TokenService
	// Cache nil desliga o rate limiting.
	Cache           cache.Client
	RateLimitMax    int
	RateLimitPeriod time.Duration
	// Gatherer nil desliga o endpoint /metrics.
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

// collection associa o segmento da rota ao tipo de registo.
type collection struct {
	path      string
	kind      domain.Kind
	creatable bool
}

// Cortes e sobras só nascem do registo de cortes.
var collections = []collection{
	{path: "chapas", kind: domain.KindSheet, creatable: true},
	{path: "retalhos", kind: domain.KindScrap, creatable: true},
	{path: "sobras", kind: domain.KindLeftover},
	{path: "cortes", kind: domain.KindCut},
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health check, métricas e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(opts.Gatherer))
	}
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// --- 2. API v1 ---
	auth := middleware.NewAuthMiddleware(opts.TokenService)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	v1 := http.NewServeMux()

	v1.HandleFunc("POST /v1/register", h.User.RegisterUserHandler)
	v1.HandleFunc("POST /v1/login", h.User.LoginUserHandler)

	for _, c := range collections {
		base := "/v1/" + c.path
		v1.HandleFunc("GET "+base, h.Inventory.ListHandler(c.kind))
		v1.HandleFunc("GET "+base+"/{id}", h.Inventory.GetHandler(c.kind))
		if c.creatable {
			v1.HandleFunc("POST "+base, auth(h.Inventory.CreateHandler(c.kind)))
		}
		v1.HandleFunc("PUT "+base+"/{id}", auth(h.Inventory.UpdateHandler(c.kind)))
		v1.HandleFunc("DELETE "+base+"/{id}", auth(adminOnly(h.Inventory.DeleteHandler(c.kind))))
	}

	// Motor de cortes. "etiquetas" tem precedência sobre "/v1/cortes/{id}" por ser mais específica.
	v1.HandleFunc("POST /v1/cortes/validar", h.Cut.ValidateHandler)
	v1.HandleFunc("POST /v1/cortes/simular", h.Cut.PreviewHandler)
	v1.HandleFunc("POST /v1/cortes/registar", auth(h.Cut.CommitHandler))
	v1.HandleFunc("GET /v1/cortes/etiquetas", h.Cut.LabelsHandler)

	v1.HandleFunc("GET /v1/inventario/resumo", h.Inventory.SummaryHandler)
	v1.HandleFunc("GET /v1/inventario/exportar", h.Inventory.ExportHandler)

	// --- 3. Middlewares ---
	var api http.Handler = v1
	if opts.Cache != nil {
		api = middleware.RateLimiter(opts.Cache, opts.RateLimitMax, opts.RateLimitPeriod, opts.Logger)(api)
	}
	mux.Handle("/v1/", api)

	return mux
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
