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

package pagination

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cursor marks the last item of a page ordered by (created_at DESC, id DESC).
type Cursor struct {
	CreatedAt int64
	Id        string
}

// Start is the bound that admits every row, used for the first page.
var Start = Cursor{CreatedAt: math.MaxInt64, Id: ""}

func EncodeCursor(c Cursor) string {
	raw := fmt.Sprintf("%d|%s", c.CreatedAt, c.Id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor. An empty string yields Start.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Start, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor encoding")
	}

	parts := strings.SplitN(string(b), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor timestamp")
	}

	id := strings.TrimSpace(parts[1])
	if id == "" {
		return Cursor{}, fmt.Errorf("invalid cursor id")
	}

	return Cursor{CreatedAt: createdAt, Id: id}, nil
}

// Bound returns the (created_at, id) pair rows must sort strictly below.
func (c Cursor) Bound() (int64, string) {
	if c.Id == "" {
		return c.CreatedAt, "\U0010FFFF"
	}
	return c.CreatedAt, c.Id
}

// Pagination is returned with every page.
type Pagination struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
