/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	"github.com/wso2/engagement-service/internal/system/log"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
	dbType     string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetDBType() string
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

var (
	pool     *sql.DB
	poolType string
	poolMu   sync.Mutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns a client over the process wide connection pool, opening it on first use.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	poolMu.Lock()
	defer poolMu.Unlock()

	if pool != nil {
		return client.NewDBClient(pool, poolType), nil
	}

	dbConfig := getDBConfig(config.GetRuntime().Config.DataSource)
	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}
	if maxOpen := config.GetRuntime().Config.DataSource.MaxOpenConns; maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}

	pool = db
	poolType = dbConfig.dbType
	return client.NewDBClient(pool, poolType), nil
}

// GetDBType returns the dialect of the configured data source.
func (d *DBProvider) GetDBType() string {

	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return poolType
	}
	return normalizeType(config.GetRuntime().Config.DataSource.Type)
}

// SetTestDB installs an already opened pool. Used by tests.
func SetTestDB(db *sql.DB, dbType string) {

	poolMu.Lock()
	defer poolMu.Unlock()
	pool = db
	poolType = dbType
}

// ClosePool closes the shared pool. Called on shutdown.
func ClosePool() error {

	poolMu.Lock()
	defer poolMu.Unlock()
	if pool == nil {
		return nil
	}
	err := pool.Close()
	pool = nil
	return err
}

// OpenSQLite opens a SQLite database file with the pragmas the stores rely on.
func OpenSQLite(path string) (*sql.DB, error) {

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// InitSchema creates the tables for the given dialect. Statements are idempotent.
func InitSchema(ctx context.Context, db *sql.DB, dbType string) error {

	schema, err := scripts.Schema(dbType)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	log.GetLogger().Info("Database schema initialized", log.String("dbType", dbType))
	return nil
}

// InitConfiguredSchema creates the tables on the configured data source.
func InitConfiguredSchema(ctx context.Context) error {

	if _, err := NewDBProvider().GetDBClient(); err != nil {
		return err
	}
	poolMu.Lock()
	db, dbType := pool, poolType
	poolMu.Unlock()
	return InitSchema(ctx, db, dbType)
}

// sqliteDSN attaches the pragmas every pooled connection needs. Pragmas set through Exec would
// only reach one connection of the pool.
func sqliteDSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func normalizeType(dbType string) string {
	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		return constants.DBTypeSQLite
	default:
		return constants.DBTypePostgres
	}
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(dataSource config.DataSourceConfig) DBConfig {

	var dbConfig DBConfig

	dbConfig.dbType = normalizeType(dataSource.Type)
	if dbConfig.dbType == constants.DBTypeSQLite {
		dbConfig.driverName = "sqlite"
		dbConfig.dsn = sqliteDSN(dataSource.Path)
		return dbConfig
	}

	dbConfig.driverName = "postgres"
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
		dataSource.Name, dataSource.SSLMode)

	return dbConfig
}
