package sqlstore

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"worker-payroll/internal/config"
)

// dialect keeps the few statements and error codes that differ between the
// supported engines. Everything else is plain SQL shared by both.
type dialect struct {
	name         string
	driverName   string
	schema       []string
	upsertRate   string
	isUnique     func(err error) bool
	isForeignKey func(err error) bool
}

func dialectFor(cfg config.Storage) (dialect, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return dialect{}, "", fmt.Errorf("create data dir %s: %w", dir, err)
			}
		}
		return sqliteDialect, sqliteDSN(cfg.Path), nil
	case config.DriverMySQL:
		return mysqlDialect, mysqlDSN(cfg), nil
	default:
		return dialect{}, "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func mysqlDSN(cfg config.Storage) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	// rename to the same value must still count as a matched row
	mc.ClientFoundRows = true
	mc.Collation = "utf8mb4_unicode_ci"

	return mc.FormatDSN()
}

var sqliteDialect = dialect{
	name:       config.DriverSQLite,
	driverName: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS workers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS areas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS worker_area_rates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			worker_id INTEGER NOT NULL REFERENCES workers(id),
			area_id INTEGER NOT NULL REFERENCES areas(id),
			salary TEXT NOT NULL,
			UNIQUE (worker_id, area_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			area_id INTEGER NOT NULL REFERENCES areas(id),
			address TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			worker_id INTEGER NOT NULL REFERENCES workers(id),
			salary TEXT NOT NULL,
			transport TEXT NOT NULL DEFAULT '0',
			UNIQUE (order_id, worker_id)
		)`,
	},
	upsertRate: `INSERT INTO worker_area_rates (worker_id, area_id, salary) VALUES (?, ?, ?)
		ON CONFLICT (worker_id, area_id) DO UPDATE SET salary = excluded.salary`,
	isUnique: func(err error) bool {
		return sqliteConstraint(err, "UNIQUE", sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
	},
	isForeignKey: func(err error) bool {
		return sqliteConstraint(err, "FOREIGN KEY", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
	},
}

var mysqlDialect = dialect{
	name:       config.DriverMySQL,
	driverName: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS workers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(191) NOT NULL UNIQUE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS areas (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(191) NOT NULL UNIQUE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS worker_area_rates (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			worker_id BIGINT NOT NULL,
			area_id BIGINT NOT NULL,
			salary DECIMAL(14,2) NOT NULL,
			UNIQUE KEY uq_worker_area (worker_id, area_id),
			FOREIGN KEY (worker_id) REFERENCES workers(id),
			FOREIGN KEY (area_id) REFERENCES areas(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			area_id BIGINT NOT NULL,
			address VARCHAR(512) NOT NULL DEFAULT '',
			created_at VARCHAR(40) NOT NULL,
			FOREIGN KEY (area_id) REFERENCES areas(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			worker_id BIGINT NOT NULL,
			salary DECIMAL(14,2) NOT NULL,
			transport DECIMAL(14,2) NOT NULL DEFAULT 0,
			UNIQUE KEY uq_order_worker (order_id, worker_id),
			FOREIGN KEY (order_id) REFERENCES orders(id),
			FOREIGN KEY (worker_id) REFERENCES workers(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	upsertRate: `INSERT INTO worker_area_rates (worker_id, area_id, salary) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE salary = VALUES(salary)`,
	isUnique: func(err error) bool {
		return mysqlErrorNumber(err) == 1062
	},
	isForeignKey: func(err error) bool {
		n := mysqlErrorNumber(err)
		// 1451: parent row still referenced, 1452: child references a missing parent
		return n == 1451 || n == 1452
	},
}

func sqliteConstraint(err error, marker string, codes ...int) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}

	code := se.Code()
	for _, c := range codes {
		if code == c {
			return true
		}
	}

	// without extended result codes only the primary SQLITE_CONSTRAINT is set
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), marker)
}

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}
