package credstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
)

type credential struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

func (credential) TableName() string { return "credentials" }

// SQLiteStore keeps credential entries in a local sqlite file.
type SQLiteStore struct {
	conn *gorm.DB
}

// OpenSQLite opens (or creates) the credential database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credential database path is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening credential database: %w", err)
	}
	if err := conn.AutoMigrate(&credential{}); err != nil {
		return nil, fmt.Errorf("migrating credential database: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var row credential
	err := s.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound(key)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read credential entry")
	}
	return row.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	row := credential{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).Save(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write credential entry")
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	err := s.conn.WithContext(ctx).Delete(&credential{}, "key = ?", key).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove credential entry")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
