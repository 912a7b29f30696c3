// Copyright (C) 2025 NTT Communications Corporation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/nttcom/threatconnectome-sub000/monitoring"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// alertingLogger forwards database errors to the error tracking in addition
// to the default gorm logger.
type alertingLogger struct {
	defaultLogger logger.Interface
}

func (l *alertingLogger) LogMode(level logger.LogLevel) logger.Interface {
	var newDefault logger.Interface
	if l.defaultLogger != nil {
		newDefault = l.defaultLogger.LogMode(level)
	}
	return &alertingLogger{defaultLogger: newDefault}
}

func (l *alertingLogger) Info(ctx context.Context, msg string, data ...any) {
	l.defaultLogger.Info(ctx, msg, data...)
}

func (l *alertingLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.defaultLogger.Warn(ctx, msg, data...)
}

func (l *alertingLogger) Error(ctx context.Context, msg string, data ...any) {
	if len(data) > 0 {
		if err, ok := data[0].(error); ok && !isRecordNotFound(err) {
			monitoring.Alert(msg, err)
		}
	}
	l.defaultLogger.Error(ctx, msg, data...)
}

func (l *alertingLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err != nil && !isRecordNotFound(err) {
		monitoring.Alert("database error", err)
	}
	l.defaultLogger.Trace(ctx, begin, fc, err)
}

func isRecordNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

type PoolConfig struct {
	Host            string
	User            string
	Password        string
	DBName          string
	Port            string
	MaxOpenConns    int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func getDSN(host, user, password, dbname, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

// NewConnection opens a gorm handle backed by a pgx connection pool.
func NewConnection(host, user, password, dbname, port string) (*gorm.DB, error) {
	cfg := PoolConfig{
		Host:            host,
		User:            user,
		Password:        password,
		DBName:          dbname,
		Port:            port,
		MaxOpenConns:    20,
		MinConns:        2,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}

	config, err := pgxpool.ParseConfig(getDSN(cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("could not parse pgx pool config: %w", err)
	}
	config.MaxConnIdleTime = cfg.ConnMaxIdleTime
	config.MaxConnLifetime = cfg.ConnMaxLifetime
	config.MaxConns = cfg.MaxOpenConns
	config.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}

	slog.Info("database connection pool configured",
		"maxOpenConns", cfg.MaxOpenConns,
		"connMaxLifetime", cfg.ConnMaxLifetime,
		"connMaxIdleTime", cfg.ConnMaxIdleTime,
	)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{
		Logger: &alertingLogger{
			defaultLogger: logger.Default,
		},
	})
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func IsDuplicateKeyError(err error) bool {
	return strings.HasPrefix(err.Error(), "ERROR: duplicate key value violates unique constraint")
}
