package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Infraestrutura e utilitários
	"acristock/config"
	"acristock/internal/pkg/cache"
	"acristock/internal/pkg/database"
	"acristock/internal/pkg/logger"
	"acristock/internal/pkg/metrics"
	"acristock/internal/pkg/token"
	"acristock/migrations"

	// Camadas para Injeção de Dependências
	"acristock/internal/api/cut"
	"acristock/internal/api/inventory"
	"acristock/internal/api/router"
	"acristock/internal/api/user"
	"acristock/internal/repository/inventoryrepo"
	"acristock/internal/repository/memstore"
	"acristock/internal/repository/userrepo"
	"acristock/internal/service/cutservice"
	"acristock/internal/service/inventoryservice"
	"acristock/internal/service/userservice"
)

func main() {
	// 0. Variáveis de ambiente (.env)
	log.Println("⚡ Inicializando serviço AcriStock...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{
		"env":            cfg.Environment,
		"store":          cfg.StoreDriver,
		"default_policy": cfg.DefaultRemnantPolicy,
	})

	// 2. Métricas
	var recorder metrics.Recorder = metrics.Nop{}
	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheus(reg)
		gatherer = reg
	}

	// 3. Armazenamento
	var (
		store       cutservice.TxStore
		users       userservice.UserRepository
		cacheClient cache.Client
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store = memstore.New()
		users = memstore.NewUsers()
		log.Warn("Armazenamento em memória: os dados perdem-se ao reiniciar.", nil)

	case config.StorePostgres:
		// A. Banco de Dados (PostgreSQL)
		db, err := database.NewPostgresDB(cfg.DatabaseURL, cfg.DBTimeout, database.DefaultPoolConfig())
		if err != nil {
			log.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer db.Close()
		log.Info("Conexão PostgreSQL estabelecida.", nil)

		if cfg.MigrateOnStart {
			if err := migrate(db); err != nil {
				log.Fatal("Falha ao aplicar migrações.", err)
			}
			log.Info("Migrações aplicadas.", nil)
		}

		// B. Cache (Redis), opcional
		if cfg.RedisAddr != "" {
			rc, err := cache.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				log.Warn("Redis indisponível; cache e rate limiting desligados.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
				rc.Close()
			} else {
				defer rc.Close()
				cacheClient = rc
				log.Info("Conexão Redis estabelecida.", nil)
			}
		}

		store = inventoryrepo.NewRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
		users = userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	}

	// 4. Injeção de Dependências: Repository -> Service -> Handler
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	engine := cutservice.NewService(store, log,
		cutservice.WithMetrics(recorder),
		cutservice.WithDefaultPolicy(cfg.DefaultRemnantPolicy),
	)
	inventorySvc := inventoryservice.NewService(store, log)
	userSvc := userservice.NewService(users, tokenSvc, log, cfg.AdminEmails...)
	log.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Inventory: inventory.NewHandler(inventorySvc, log),
		Cut:       cut.NewHandler(engine, store, log),
		User:      user.NewHandler(userSvc, log),
	}

	// 5. Roteador e Servidor
	r := router.NewRouter(handlers, router.Options{
		TokenService:    tokenSvc,
		Cache:           cacheClient,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		Gatherer:        gatherer,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // exportações XLSX e PDF
		IdleTimeout:  60 * time.Second,
	}

	// 6. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor AcriStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}

// migrate aplica as migrações embutidas (equivalente a "cmd/migrate up").
func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
