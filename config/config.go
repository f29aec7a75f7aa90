package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"acristock/internal/domain"
)

// Drivers de armazenamento suportados.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config armazena todas as configurações do serviço AcriStock.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento: "postgres" (com cache Redis) ou "memory".
	StoreDriver    string
	MigrateOnStart bool

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis). RedisAddr vazio desliga o cache e o rate limiting.
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration
	AdminEmails  []string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Motor de cortes
	DefaultRemnantPolicy domain.RemnantPolicy

	// Observabilidade
	MetricsEnabled bool
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Valores numéricos inválidos caem para o padrão com um aviso; o resto é verificado em Validate.
func LoadConfig() *Config {
	return &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Armazenamento
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		MigrateOnStart: getBoolEnv("MIGRATE_ON_START", false),

		// 3. Banco de Dados (PostgreSQL)
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second, // 5s padrão

		// 4. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second, // 5 min padrão

		// 5. Segurança (JWT)
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute, // 60 min padrão
		AdminEmails:  getListEnv("ADMIN_EMAILS"),

		// 6. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute, // 1 min padrão

		// 7. Motor de cortes
		DefaultRemnantPolicy: domain.RemnantPolicy(getEnv("DEFAULT_REMNANT_POLICY", string(domain.PolicyFullFootprint))),

		// 8. Observabilidade
		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
	}
}

// Validate verifica as combinações obrigatórias e normaliza a política de sobra.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL deve ser definida quando STORE_DRIVER=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q desconhecido (use %s ou %s)", c.StoreDriver, StorePostgres, StoreMemory))
	}

	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY deve ser definida"))
	}
	if c.DBTimeout <= 0 {
		errs = append(errs, errors.New("DB_TIMEOUT_SEC deve ser positivo"))
	}
	if c.TokenExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MIN deve ser positivo"))
	}
	if c.RateLimitMaxRequests <= 0 || c.RateLimitPeriod <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX_REQUESTS e RATE_LIMIT_PERIOD_MIN devem ser positivos"))
	}

	if policy, ok := domain.ParseRemnantPolicy(string(c.DefaultRemnantPolicy)); ok {
		c.DefaultRemnantPolicy = policy
	} else {
		errs = append(errs, fmt.Errorf("DEFAULT_REMNANT_POLICY %q desconhecida", c.DefaultRemnantPolicy))
	}

	return errors.Join(errs...)
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv aceita os formatos de strconv.ParseBool ("true", "1", "false", ...).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um booleano válido. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, ignorando entradas vazias.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
