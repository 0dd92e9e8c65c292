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

package setup

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/provider"
)

// TestConfig is the runtime configuration package tests run with.
func TestConfig() config.Config {
	return config.Config{
		Log: config.LogConfig{LogLevel: "ERROR"},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			Issuer:    "engagement-test",
			Audience:  "engagement",
		},
		DataSource: config.DataSourceConfig{Type: constants.DBTypeSQLite},
		Interest:   config.InterestConfig{StoreRetries: 1},
	}
}

// SetupTestSQLite gives the test a fresh SQLite database with the service schema, installed as
// the shared pool. The database lives in the test's temp dir and is dropped with it.
func SetupTestSQLite(t *testing.T) *sql.DB {
	t.Helper()

	config.OverrideRuntime(TestConfig())

	db, err := provider.OpenSQLite(filepath.Join(t.TempDir(), "engagement.db"))
	require.NoError(t, err)
	// A single connection serializes writers so concurrent tests never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	require.NoError(t, provider.InitSchema(context.Background(), db, constants.DBTypeSQLite))
	provider.SetTestDB(db, constants.DBTypeSQLite)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
