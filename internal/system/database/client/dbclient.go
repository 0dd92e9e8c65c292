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

package client

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/wso2/engagement-service/internal/system/constants"
)

var postgresPlaceholder = regexp.MustCompile(`\$(\d+)`)

// Querier is implemented by both a pooled DBClient and a TxClient, so store functions can run
// the same statement inside or outside a transaction.
type Querier interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	Execute(ctx context.Context, query string, args ...interface{}) (int64, error)
	DBType() string
}

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	Querier
	BeginTx(ctx context.Context) (TxInterface, error)
	Close() error
}

// TxInterface is a running transaction.
type TxInterface interface {
	Querier
	Commit() error
	Rollback() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     *sql.DB
	dbType string
	owned  bool
}

// NewDBClient creates a client over a shared pool. Close on such a client leaves the pool open.
func NewDBClient(db *sql.DB, dbType string) DBClientInterface {

	return &DBClient{
		db:     db,
		dbType: dbType,
	}
}

// NewOwnedDBClient creates a client that closes the pool when it is closed.
func NewOwnedDBClient(db *sql.DB, dbType string) DBClientInterface {

	return &DBClient{
		db:     db,
		dbType: dbType,
		owned:  true,
	}
}

func (client *DBClient) DBType() string {
	return client.dbType
}

// ExecuteQuery executes a SELECT query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (
	[]map[string]interface{}, error) {

	rows, err := client.db.QueryContext(ctx, Rebind(client.dbType, query), args...)
	if err != nil {
		return nil, err
	}
	return ScanRows(rows)
}

// Execute runs a statement that returns no rows and reports the number of affected rows.
func (client *DBClient) Execute(ctx context.Context, query string, args ...interface{}) (int64, error) {

	result, err := client.db.ExecContext(ctx, Rebind(client.dbType, query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context) (TxInterface, error) {

	tx, err := client.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxClient{tx: tx, dbType: client.dbType}, nil
}

// Close closes the database connection when the client owns it.
func (client *DBClient) Close() error {
	if !client.owned {
		return nil
	}
	return client.db.Close()
}

// TxClient runs statements inside a single transaction.
type TxClient struct {
	tx     *sql.Tx
	dbType string
}

func (t *TxClient) DBType() string {
	return t.dbType
}

func (t *TxClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (
	[]map[string]interface{}, error) {

	rows, err := t.tx.QueryContext(ctx, Rebind(t.dbType, query), args...)
	if err != nil {
		return nil, err
	}
	return ScanRows(rows)
}

func (t *TxClient) Execute(ctx context.Context, query string, args ...interface{}) (int64, error) {

	result, err := t.tx.ExecContext(ctx, Rebind(t.dbType, query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *TxClient) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Rolling back a finished transaction is not an error.
func (t *TxClient) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// Rebind rewrites $N placeholders into the numbered ?N form SQLite binds positionally.
func Rebind(dbType, query string) string {
	if dbType != constants.DBTypeSQLite {
		return query
	}
	return postgresPlaceholder.ReplaceAllString(query, "?$1")
}

// ScanRows drains rows into column keyed maps and closes them.
func ScanRows(rows *sql.Rows) ([]map[string]interface{}, error) {

	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
