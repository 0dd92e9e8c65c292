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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestSendMessage_PostsPayload(t *testing.T) {
	var received sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := NewMessagingClient(config.MessagingConfig{BaseURL: server.URL + "/", ApiKey: "key-1"})
	require.NoError(t, c.SendMessage(context.Background(), "acc1", "u1", "hi there"))

	assert.Equal(t, "acc1", received.SenderId)
	assert.Equal(t, "u1", received.RecipientId)
	assert.Equal(t, "hi there", received.Content)
	assert.True(t, received.Automated)
}

func TestSendMessage_FailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewMessagingClient(config.MessagingConfig{BaseURL: server.URL})
	err := c.SendMessage(context.Background(), "acc1", "u1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendMessage_RequiresBaseURL(t *testing.T) {
	c := NewMessagingClient(config.MessagingConfig{})
	assert.Error(t, c.SendMessage(context.Background(), "acc1", "u1", "hi"))
}
