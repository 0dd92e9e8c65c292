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

package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/engagement-service/internal/notification/store"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/utils"
	"github.com/wso2/engagement-service/test/setup"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func newService(t *testing.T) *NotificationService {
	setup.SetupTestSQLite(t)
	return NewNotificationServiceWithPolicy(utils.DefaultRetryPolicy(1))
}

func TestListNotifications_NewestFirstWithCursor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	for i, actor := range []string{"a1", "a2", "a3"} {
		n := NewNotification("bob", actor, constants.NotificationLike, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, svc.CreateNotification(ctx, n))
	}

	page, err := svc.ListNotifications(ctx, "bob", false, pagination.Start, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a3", page.Items[0].ActorId)
	assert.Equal(t, "a2", page.Items[1].ActorId)
	assert.True(t, page.Pagination.HasMore)

	cursor, err := pagination.DecodeCursor(page.Pagination.NextCursor)
	require.NoError(t, err)
	rest, err := svc.ListNotifications(ctx, "bob", false, cursor, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Equal(t, "a1", rest.Items[0].ActorId)
	assert.Equal(t, "Someone liked your profile.", rest.Items[0].Content)
	assert.False(t, rest.Pagination.HasMore)
}

func TestMarkRead_OnlyRecipientCanMark(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	n := NewNotification("bob", "alice", constants.NotificationFootprint, time.Now())
	require.NoError(t, svc.CreateNotification(ctx, n))

	err := svc.MarkRead(ctx, "carol", n.NotificationId)
	assert.True(t, errors2.HasCode(err, errors2.NOTIFICATION_NOT_FOUND))

	require.NoError(t, svc.MarkRead(ctx, "bob", n.NotificationId))
	require.NoError(t, svc.MarkRead(ctx, "bob", n.NotificationId), "marking twice is a no-op")

	unread, err := svc.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	stored, err := svc.GetNotification(ctx, "bob", n.NotificationId)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestGetNotification_OnlyRecipientCanRead(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	n := NewNotification("bob", "alice", constants.NotificationLike, time.Now())
	require.NoError(t, svc.CreateNotification(ctx, n))

	stored, err := svc.GetNotification(ctx, "bob", n.NotificationId)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.ActorId)
	assert.Equal(t, constants.NotificationLike, stored.Type)
	assert.False(t, stored.IsRead)

	_, err = svc.GetNotification(ctx, "carol", n.NotificationId)
	assert.True(t, errors2.HasCode(err, errors2.NOTIFICATION_NOT_FOUND))

	_, err = svc.GetNotification(ctx, "bob", "missing")
	assert.True(t, errors2.HasCode(err, errors2.NOTIFICATION_NOT_FOUND))

	_, err = svc.GetNotification(ctx, "", n.NotificationId)
	assert.True(t, errors2.HasCode(err, errors2.UN_AUTHENTICATED))
}

func TestMarkAllRead_AndUnreadFilter(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	now := time.Now()
	for _, actor := range []string{"a1", "a2"} {
		require.NoError(t, svc.CreateNotification(ctx, NewNotification("bob", actor, constants.NotificationLike, now)))
	}
	require.NoError(t, svc.CreateNotification(ctx, NewNotification("carol", "a1", constants.NotificationLike, now)))

	unread, err := svc.ListNotifications(ctx, "bob", true, pagination.Start, 10)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	updated, err := svc.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err = svc.ListNotifications(ctx, "bob", true, pagination.Start, 10)
	require.NoError(t, err)
	assert.Empty(t, unread.Items)

	all, err := svc.ListNotifications(ctx, "bob", false, pagination.Start, 10)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	carolUnread, err := svc.CountUnread(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(1), carolUnread)
}

func TestCreateLikeNotification_SkippedOnceMatched(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	now := time.Now()

	first := NewNotification("alice", "bob", constants.NotificationMatch, now)
	second := NewNotification("bob", "alice", constants.NotificationMatch, now)

	like := NewNotification("bob", "alice", constants.NotificationLike, now)
	written, err := svc.CreateLikeNotification(ctx, like)
	require.NoError(t, err)
	assert.True(t, written)

	require.NoError(t, svc.CreateNotificationPair(ctx, first, second, constants.NotificationLike))
	likes, err := store.CountByType(ctx, "bob", constants.NotificationLike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes, "the match supersedes the like")
}

func TestOrderedPair(t *testing.T) {
	low, high := OrderedPair("bob", "alice")
	assert.Equal(t, "alice", low)
	assert.Equal(t, "bob", high)

	low, high = OrderedPair("alice", "bob")
	assert.Equal(t, "alice", low)
	assert.Equal(t, "bob", high)
}

func TestUnauthenticatedCaller(t *testing.T) {
	svc := newService(t)

	_, err := svc.ListNotifications(context.Background(), "", false, pagination.Start, 10)
	assert.True(t, errors2.HasCode(err, errors2.UN_AUTHENTICATED))
}
