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

package store

import (
	"context"
	"fmt"

	"github.com/wso2/engagement-service/internal/notification/model"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/database/lock"
	"github.com/wso2/engagement-service/internal/system/database/provider"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
)

func getDBClient(purpose string) (client.DBClientInterface, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for %s", purpose)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}
	return dbClient, nil
}

// AddNotification inserts a notification through q. Re-inserting the same id is a no-op.
func AddNotification(ctx context.Context, q client.Querier, n model.NotificationEvent) error {

	_, err := q.Execute(ctx, scripts.InsertNotification[q.DBType()], n.NotificationId, n.RecipientId, n.Type,
		n.Content, n.ActorId, n.IsRead, n.CreatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in creating %s notification for %s", n.Type, n.RecipientId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(errorMsg), err)
	}
	return nil
}

// CreateNotification inserts a notification on its own connection.
func CreateNotification(ctx context.Context, n model.NotificationEvent) error {

	dbClient, err := getDBClient("creating notification")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	return AddNotification(ctx, dbClient, n)
}

// PairLockKey is the advisory lock key serializing notification writes between the users of an
// unordered pair.
func PairLockKey(userLow, userHigh string) string {
	return fmt.Sprintf("notification-pair:%s:%s", userLow, userHigh)
}

// AddNotificationUnlessMatched inserts a notification unless the users of the given unordered
// pair already matched. It reports whether a row was written. The insert holds the pair lock, so
// it either commits before a match fan-out starts or observes the match row.
func AddNotificationUnlessMatched(ctx context.Context, n model.NotificationEvent, userLow, userHigh string) (
	bool, error) {

	dbClient, err := getDBClient("creating notification")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		log.GetLogger().Debug("Failed to begin notification transaction", log.Error(err))
		return false, errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(
			"Failed to begin notification transaction"), err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lock.NewAdvisoryLock().Acquire(ctx, tx, PairLockKey(userLow, userHigh)); err != nil {
		return false, err
	}

	inserted, err := tx.Execute(ctx, scripts.InsertLikeNotificationUnlessMatched[tx.DBType()],
		n.NotificationId, n.RecipientId, n.Type, n.Content, n.ActorId, n.CreatedAt, userLow, userHigh)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in creating %s notification for %s", n.Type, n.RecipientId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(errorMsg), err)
	}

	if err := tx.Commit(); err != nil {
		log.GetLogger().Debug("Failed to commit notification", log.Error(err))
		return false, errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(
			"Failed to commit notification"), err)
	}
	return inserted > 0, nil
}

// AddNotificationPair writes both notifications in one transaction and drops, in the same
// transaction, earlier notifications of supersededType between the two users.
func AddNotificationPair(ctx context.Context, first, second model.NotificationEvent, supersededType string) error {

	logger := log.GetLogger()
	dbClient, err := getDBClient("creating notification pair")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		logger.Debug("Failed to begin notification pair transaction", log.Error(err))
		return errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(
			"Failed to begin notification pair transaction"), err)
	}
	defer func() { _ = tx.Rollback() }()

	userLow, userHigh := first.RecipientId, second.RecipientId
	if userHigh < userLow {
		userLow, userHigh = userHigh, userLow
	}
	if err := lock.NewAdvisoryLock().Acquire(ctx, tx, PairLockKey(userLow, userHigh)); err != nil {
		return err
	}

	if supersededType != "" {
		for _, n := range []model.NotificationEvent{first, second} {
			if _, err := tx.Execute(ctx, scripts.DeleteNotificationsOfType[tx.DBType()], n.RecipientId, n.ActorId,
				supersededType); err != nil {
				errorMsg := fmt.Sprintf("Failed in removing %s notifications for %s", supersededType, n.RecipientId)
				logger.Debug(errorMsg, log.Error(err))
				return errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(errorMsg), err)
			}
		}
	}
	if err := AddNotification(ctx, tx, first); err != nil {
		return err
	}
	if err := AddNotification(ctx, tx, second); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Debug("Failed to commit notification pair", log.Error(err))
		return errors2.NewServerError(errors2.ADD_NOTIFICATION.WithDescription(
			"Failed to commit notification pair"), err)
	}
	return nil
}

// GetNotification fetches a notification by id. A missing notification yields nil.
func GetNotification(ctx context.Context, notificationId string) (*model.NotificationEvent, error) {

	dbClient, err := getDBClient("fetching notification")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetNotification[dbClient.DBType()], notificationId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching notification: %s", notificationId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_NOTIFICATIONS.WithDescription(errorMsg), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	n := notificationOf(results[0])
	return &n, nil
}

// ListNotifications returns a recipient's notifications newest first.
func ListNotifications(ctx context.Context, recipientId string, unreadOnly bool, cursor pagination.Cursor,
	limit int) ([]model.NotificationEvent, error) {

	dbClient, err := getDBClient("listing notifications")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	query := scripts.ListNotifications[dbClient.DBType()]
	if unreadOnly {
		query = scripts.ListUnreadNotifications[dbClient.DBType()]
	}
	createdBefore, idBefore := cursor.Bound()
	results, err := dbClient.ExecuteQuery(ctx, query, recipientId, createdBefore, idBefore, limit)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in listing notifications of %s", recipientId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_NOTIFICATIONS.WithDescription(errorMsg), err)
	}

	notifications := make([]model.NotificationEvent, 0, len(results))
	for _, row := range results {
		notifications = append(notifications, notificationOf(row))
	}
	return notifications, nil
}

// CountUnread counts the unread notifications of a recipient.
func CountUnread(ctx context.Context, recipientId string) (int64, error) {

	return count(ctx, scripts.CountUnreadNotifications, "unread", recipientId)
}

// CountByType counts a recipient's notifications of one type.
func CountByType(ctx context.Context, recipientId, notificationType string) (int64, error) {

	return count(ctx, scripts.CountNotificationsByType, "total", recipientId, notificationType)
}

func count(ctx context.Context, query map[string]string, column string, args ...interface{}) (int64, error) {

	dbClient, err := getDBClient("counting notifications")
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, query[dbClient.DBType()], args...)
	if err != nil {
		log.GetLogger().Debug("Failed in counting notifications", log.Error(err))
		return 0, errors2.NewServerError(errors2.FETCH_NOTIFICATIONS.WithDescription(
			"Failed in counting notifications"), err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return client.AsInt64(results[0][column]), nil
}

// MarkRead marks one of the recipient's notifications read and reports whether it exists.
func MarkRead(ctx context.Context, recipientId, notificationId string) (bool, error) {

	dbClient, err := getDBClient("updating notification")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, scripts.MarkNotificationRead[dbClient.DBType()], notificationId, recipientId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in marking notification %s read", notificationId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.UPDATE_NOTIFICATION.WithDescription(errorMsg), err)
	}
	return updated > 0, nil
}

// MarkAllRead marks every unread notification of the recipient read.
func MarkAllRead(ctx context.Context, recipientId string) (int64, error) {

	dbClient, err := getDBClient("updating notifications")
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, scripts.MarkAllNotificationsRead[dbClient.DBType()], recipientId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in marking notifications of %s read", recipientId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.UPDATE_NOTIFICATION.WithDescription(errorMsg), err)
	}
	return updated, nil
}

func notificationOf(row map[string]interface{}) model.NotificationEvent {
	return model.NotificationEvent{
		NotificationId: client.AsString(row["notification_id"]),
		RecipientId:    client.AsString(row["recipient_id"]),
		Type:           client.AsString(row["type"]),
		Content:        client.AsString(row["content"]),
		ActorId:        client.AsString(row["actor_id"]),
		IsRead:         client.AsBool(row["is_read"]),
		CreatedAt:      client.AsInt64(row["created_at"]),
	}
}
