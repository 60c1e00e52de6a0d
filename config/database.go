package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	tenantMu  sync.RWMutex
	tenantDBs = map[string]*gorm.DB{}
	lookupDB  *gorm.DB
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// GetTenantDB returns the connection for one tenant database, or nil if that
// tenant was never connected.
func GetTenantDB(tenantKey string) *gorm.DB {
	tenantMu.RLock()
	defer tenantMu.RUnlock()
	return tenantDBs[strings.ToLower(tenantKey)]
}

// GetLookupDB returns the shared dimension-lookup connection (brand and
// advisor-team tables). It is read-only reference data, not tenant-owned.
func GetLookupDB() *gorm.DB {
	tenantMu.RLock()
	defer tenantMu.RUnlock()
	return lookupDB
}

// TenantKeys returns the connected tenant keys in deterministic order.
func TenantKeys() []string {
	tenantMu.RLock()
	defer tenantMu.RUnlock()
	keys := make([]string, 0, len(tenantDBs))
	for k := range tenantDBs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConnectTenantDatabases opens one MySQL connection per tenant key plus the
// shared lookup database, with bounded retry. All tenant databases share host
// credentials; each tenant's schema lives in its own database, named by
// TENANT_<KEY>_DB_NAME (default: the tenant key itself).
//
// Env:
//   - DB_USER, DB_PASSWORD, DB_HOST, DB_PORT
//   - TENANT_<KEY>_DB_NAME (optional per-tenant override)
//   - LOOKUP_DB_NAME (default "lookups")
//   - DB_MAX_OPEN_CONNS (default 50), DB_MAX_IDLE_CONNS (default 25),
//     DB_CONN_MAX_LIFETIME_SECONDS (default 300),
//     DB_CONN_MAX_IDLE_TIME_SECONDS (default 60)
//
// DB_HOST values of the form "/cloudsql/<CONNECTION_NAME>" connect over the
// Cloud SQL Auth Proxy unix socket.
func ConnectTenantDatabases(tenantKeys []string) error {
	for _, key := range tenantKeys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		dbName := os.Getenv("TENANT_" + strings.ToUpper(key) + "_DB_NAME")
		if dbName == "" {
			dbName = key
		}
		db, err := openWithRetry(dbName)
		if err != nil {
			return fmt.Errorf("tenant %s: %w", key, err)
		}
		tenantMu.Lock()
		tenantDBs[key] = db
		tenantMu.Unlock()
	}

	lookupName := os.Getenv("LOOKUP_DB_NAME")
	if lookupName == "" {
		lookupName = "lookups"
	}
	db, err := openWithRetry(lookupName)
	if err != nil {
		return fmt.Errorf("lookup database: %w", err)
	}
	tenantMu.Lock()
	lookupDB = db
	tenantMu.Unlock()
	return nil
}

const maxConnectAttempts = 5

func openWithRetry(dbName string) (*gorm.DB, error) {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")

	network := "tcp"
	address := fmt.Sprintf("%s:%s", dbHost, dbPort)
	if strings.HasPrefix(dbHost, "/cloudsql/") {
		network = "unix"
		address = dbHost
	}

	dsn := fmt.Sprintf("%s:%s@%s(%s)/%s?parseTime=true",
		dbUser,
		dbPassword,
		network,
		address,
		dbName,
	)

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		db, err := gorm.Open(mysql.Open(dsn), initConfig())
		if err == nil {
			if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
				maxOpen := intFromEnv("DB_MAX_OPEN_CONNS", 50)
				maxIdle := intFromEnv("DB_MAX_IDLE_CONNS", 25)
				connMaxLife := time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second
				connMaxIdle := time.Duration(intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second

				if maxOpen > 0 {
					sqlDB.SetMaxOpenConns(maxOpen)
				}
				if maxIdle >= 0 {
					sqlDB.SetMaxIdleConns(maxIdle)
				}
				if connMaxLife > 0 {
					sqlDB.SetConnMaxLifetime(connMaxLife)
				}
				if connMaxIdle > 0 {
					sqlDB.SetConnMaxIdleTime(connMaxIdle)
				}
			}

			if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
				log.Printf("db %s connected but failed to install otelgorm plugin: %v", dbName, pluginErr)
			}
			if pluginErr := db.Use(NewReadOnlyGuardPlugin()); pluginErr != nil {
				log.Printf("db %s connected but failed to install read-only guard plugin: %v", dbName, pluginErr)
			}
			log.Printf("connected to database %s (attempt=%d)", dbName, attempt)
			return db, nil
		}
		lastErr = err

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect database %s (attempt=%d): %v; retrying in %s", dbName, attempt, err, sleep)
		time.Sleep(sleep)
	}
	return nil, lastErr
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
