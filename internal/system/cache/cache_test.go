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

package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/engagement-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestCache_SetGetExpire(t *testing.T) {
	current := time.Unix(1000, 0)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return current }

	c.Set("rules:acc1:message_received", []string{"r1"})
	value, found := c.Get("rules:acc1:message_received")
	assert.True(t, found)
	assert.Equal(t, []string{"r1"}, value)

	current = current.Add(2 * time.Minute)
	_, found = c.Get("rules:acc1:message_received")
	assert.False(t, found, "expired entries are not returned")
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)

	c.Clear()
	_, found = c.Get("b")
	assert.False(t, found)
}
