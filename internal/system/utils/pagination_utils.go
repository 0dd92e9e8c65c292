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

package utils

import (
	"net/http"

	customerrors "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/pagination"
)

// ParsePageParams reads the cursor and limit query parameters of a list request.
func ParsePageParams(r *http.Request) (pagination.Cursor, int, error) {

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		return pagination.Cursor{}, 0, customerrors.NewClientError(
			customerrors.INVALID_CURSOR.WithDescription(err.Error()), http.StatusBadRequest)
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		return pagination.Cursor{}, 0, customerrors.NewClientError(
			customerrors.INVALID_LIMIT.WithDescription("limit must be a positive integer."), http.StatusBadRequest)
	}
	return cursor, limit, nil
}
