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

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/engagement-service/internal/notification/model"
	"github.com/wso2/engagement-service/internal/notification/provider"
	"github.com/wso2/engagement-service/internal/notification/service"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/test/setup"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func seedNotification(t *testing.T, recipientId string) model.NotificationEvent {
	n := service.NewNotification(recipientId, "alice", constants.NotificationLike, time.Now())
	require.NoError(t, service.GetNotificationService().CreateNotification(context.Background(), n))
	return n
}

func TestListNotifications_RequiresToken(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())

	rec := httptest.NewRecorder()
	h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListNotifications_RequiresScope(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Authorization", setup.BearerToken(t, "bob", "profile"))
	rec := httptest.NewRecorder()
	h.ListNotifications(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotificationFlow(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())
	n := seedNotification(t, "bob")
	seedNotification(t, "bob")
	token := setup.BearerToken(t, "bob", "engagement")

	req := httptest.NewRequest(http.MethodGet, "/notifications?unread=true&limit=1", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	h.ListNotifications(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page model.NotificationPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
	assert.True(t, page.Pagination.HasMore)

	req = httptest.NewRequest(http.MethodPost, "/notifications/"+n.NotificationId+"/read", nil)
	req.SetPathValue("id", n.NotificationId)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	h.MarkRead(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	h.CountUnread(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var count model.UnreadCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Unread)

	req = httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	h.MarkAllRead(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.MarkAllReadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, int64(1), updated.Updated)
}

func TestMarkRead_UnknownNotification(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())

	req := httptest.NewRequest(http.MethodPost, "/notifications/missing/read", nil)
	req.SetPathValue("id", "missing")
	req.Header.Set("Authorization", setup.BearerToken(t, "bob", "engagement"))
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetNotification_OwnAndOthers(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())
	n := seedNotification(t, "bob")

	req := httptest.NewRequest(http.MethodGet, "/notifications/"+n.NotificationId, nil)
	req.SetPathValue("id", n.NotificationId)
	req.Header.Set("Authorization", setup.BearerToken(t, "bob", "engagement"))
	rec := httptest.NewRecorder()
	h.GetNotification(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched model.NotificationEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, n.NotificationId, fetched.NotificationId)
	assert.Equal(t, "bob", fetched.RecipientId)

	req = httptest.NewRequest(http.MethodGet, "/notifications/"+n.NotificationId, nil)
	req.SetPathValue("id", n.NotificationId)
	req.Header.Set("Authorization", setup.BearerToken(t, "carol", "engagement"))
	rec = httptest.NewRecorder()
	h.GetNotification(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListNotifications_InvalidQuery(t *testing.T) {
	setup.SetupTestSQLite(t)
	h := NewNotificationHandlerWithProvider(provider.NewNotificationProvider())
	token := setup.BearerToken(t, "bob", "engagement")

	for _, query := range []string{"unread=maybe", "cursor=%25%25", "limit=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/notifications?"+query, nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
