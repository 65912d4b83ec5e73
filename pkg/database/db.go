package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/seating-api-go/pkg/config"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalGuests  int    `gorm:"default:0" json:"total_guests"`
	TotalTables  int    `gorm:"default:0" json:"total_tables"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SeatingRun represents the seating_runs table, one row per optimization request
type SeatingRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"uniqueIndex;size:36;not null" json:"run_id"`
	KeyID      uint      `gorm:"index;not null" json:"key_id"`
	InputHash  string    `gorm:"size:64" json:"input_hash"`
	Guests     int       `json:"guests"`
	Tables     int       `json:"tables"`
	Score      int       `json:"score"`
	Unassigned int       `json:"unassigned"`
	StoppedBy  string    `json:"stopped_by"`
	Cached     bool      `json:"cached"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// InitDB opens postgres when a URL is configured and sqlite otherwise, then
// migrates the schema.
func InitDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if cfg.URL != "" {
		gormCfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), gormCfg)
		log.Info("using postgres database")
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		log.Info("using sqlite database", zap.String("path", cfg.Path))
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &SeatingRun{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// RecordUsage adds one request to the key's counters for the given day using
// a single upsert (supported by both postgres and sqlite).
func RecordUsage(db *gorm.DB, keyID uint, day time.Time, guests, tables int) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_guests":  gorm.Expr("total_guests + ?", guests),
			"total_tables":  gorm.Expr("total_tables + ?", tables),
		}),
	}).Create(&APIUsage{
		KeyID:        keyID,
		Date:         day.Format("2006-01-02"),
		RequestCount: 1,
		TotalGuests:  guests,
		TotalTables:  tables,
	}).Error
}

// UsageHistory returns the latest 30 days of usage for a key
func UsageHistory(db *gorm.DB, keyID uint) ([]APIUsage, error) {
	var usage []APIUsage
	err := db.Where("key_id = ?", keyID).Order("date desc").Limit(30).Find(&usage).Error
	return usage, err
}

// RecentRuns returns the latest 30 optimization runs for a key
func RecentRuns(db *gorm.DB, keyID uint) ([]SeatingRun, error) {
	var runs []SeatingRun
	err := db.Where("key_id = ?", keyID).Order("created_at desc, id desc").Limit(30).Find(&runs).Error
	return runs, err
}
