package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// =======================
// APP CONFIG
// =======================

// AppConfig memuat seluruh knob operasional (interval, limit, kredensial API transaksi).
// Divalidasi sekali saat boot - salah set ENV langsung ketahuan, bukan saat sync jalan.
type AppConfig struct {
	// Upstream transaction API (akses kontrol / turnstile)
	TransactionAPIBaseURL string `validate:"required,url"`
	TransactionAPIToken   string `validate:"required"`

	// Fetch
	FetchConcurrency     int `validate:"gte=1,lte=64"`
	FetchTimeoutSeconds  int `validate:"gte=1,lte=120"`
	FetchCacheTTLMinutes int `validate:"gte=1,lte=720"`

	// Recognition
	MinConfidence float64 `validate:"gte=0,lte=1"`

	// Lesson session
	SessionMaxOpenHours int `validate:"gte=1,lte=24"`

	// Hub snapshot cache
	SnapshotCacheTTLSeconds int `validate:"gte=1,lte=300"`

	// Scheduler
	SyncIntervalMinutes      int `validate:"gte=1"`
	CorrectorIntervalMinutes int `validate:"gte=1"`
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		TransactionAPIBaseURL: GetEnv("TRANSACTION_API_BASE_URL"),
		TransactionAPIToken:   GetEnv("TRANSACTION_API_TOKEN"),

		FetchConcurrency:     GetEnvInt("FETCH_CONCURRENCY", 6),
		FetchTimeoutSeconds:  GetEnvInt("FETCH_TIMEOUT_SECONDS", 10),
		FetchCacheTTLMinutes: GetEnvInt("FETCH_CACHE_TTL_MINUTES", 10),

		MinConfidence: float64(GetEnvInt("MIN_CONFIDENCE_PERCENT", 75)) / 100.0,

		SessionMaxOpenHours: GetEnvInt("SESSION_MAX_OPEN_HOURS", 3),

		SnapshotCacheTTLSeconds: GetEnvInt("SNAPSHOT_CACHE_TTL_SECONDS", 5),

		SyncIntervalMinutes:      GetEnvInt("SYNC_INTERVAL_MINUTES", 60),
		CorrectorIntervalMinutes: GetEnvInt("CORRECTOR_INTERVAL_MINUTES", 30),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c *AppConfig) FetchCacheTTL() time.Duration {
	return time.Duration(c.FetchCacheTTLMinutes) * time.Minute
}

func (c *AppConfig) SessionMaxOpen() time.Duration {
	return time.Duration(c.SessionMaxOpenHours) * time.Hour
}

func (c *AppConfig) SnapshotCacheTTL() time.Duration {
	return time.Duration(c.SnapshotCacheTTLSeconds) * time.Second
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
