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
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(Cursor{CreatedAt: 1700000000, Id: "edge-1"})

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), decoded.CreatedAt)
	assert.Equal(t, "edge-1", decoded.Id)
}

func TestDecodeCursor_EmptyIsStart(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, Start, decoded)

	createdAt, id := decoded.Bound()
	assert.Equal(t, int64(math.MaxInt64), createdAt)
	assert.Greater(t, id, "ffffffff-ffff-ffff-ffff-ffffffffffff")
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, raw := range []string{"%%%", "bm9waXBl", "YWJjfGVkZ2U"} {
		_, err := DecodeCursor(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", DefaultLimit, false},
		{"?limit=5", 5, false},
		{"?limit=5000", MaxLimit, false},
		{"?limit=0", 0, true},
		{"?limit=abc", 0, true},
	}
	for _, c := range cases {
		r := httptest.NewRequest("GET", "/x"+c.query, nil)
		got, err := ParseLimit(r)
		if c.wantErr {
			assert.Error(t, err, c.query)
			continue
		}
		require.NoError(t, err, c.query)
		assert.Equal(t, c.want, got, c.query)
	}
}
