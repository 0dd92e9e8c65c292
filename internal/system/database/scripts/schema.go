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

package scripts

import (
	"embed"
	"fmt"

	"github.com/wso2/engagement-service/internal/system/constants"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Schema returns the DDL for the given dialect.
func Schema(dbType string) (string, error) {
	var file string
	switch dbType {
	case constants.DBTypePostgres:
		file = "schema/postgres.sql"
	case constants.DBTypeSQLite:
		file = "schema/sqlite.sql"
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
	content, err := schemaFiles.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// portable registers a statement that both dialects accept as written.
func portable(query string) map[string]string {
	return map[string]string{
		constants.DBTypePostgres: query,
		constants.DBTypeSQLite:   query,
	}
}

// ReadinessProbe touches the tables every request path depends on.
var ReadinessProbe = portable(`SELECT
	(SELECT COUNT(*) FROM user_profiles WHERE 1 = 0) AS profiles,
	(SELECT COUNT(*) FROM auto_response_jobs WHERE 1 = 0) AS jobs`)
