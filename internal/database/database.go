package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Поддерживаемые драйверы: sqlite3 (cgo) и sqlite (чистый Go)
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

//go:embed schema.sql
var schema string

type Database struct {
	DBConn *sql.DB
}

// NewDatabase открывает соединение и проверяет его. Схему применяет Migrate.
func NewDatabase(driver, dsn string) (*Database, error) {
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("неизвестный драйвер базы данных: %q", driver)
	}

	dbconn, err := sql.Open(driver, withConnParams(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	// Каждое соединение с :memory: - отдельная пустая база
	if strings.Contains(dsn, ":memory:") {
		dbconn.SetMaxOpenConns(1)
	}

	if err := dbconn.Ping(); err != nil {
		dbconn.Close()
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	return &Database{DBConn: dbconn}, nil
}

// BusyTimeout - сколько миллисекунд запись ждет освобождения блокировки базы
const BusyTimeout = 5000

// withConnParams включает внешние ключи и ожидание блокировки для каждого
// соединения. Транзакции сразу берут блокировку на запись.
func withConnParams(driver, dsn string) string {
	var params []string
	switch driver {
	case DriverCGO:
		params = []string{
			"_busy_timeout=" + strconv.Itoa(BusyTimeout),
			"_foreign_keys=1",
			"_txlock=immediate",
		}
	case DriverPureGo:
		params = []string{
			"_pragma=busy_timeout(" + strconv.Itoa(BusyTimeout) + ")",
			"_pragma=foreign_keys(1)",
			"_txlock=immediate",
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Migrate создает недостающие таблицы и индексы
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.DBConn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ошибка выполнения схемы: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.DBConn != nil {
		return d.DBConn.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.DBConn.PingContext(ctx)
}
