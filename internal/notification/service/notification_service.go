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
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/engagement-service/internal/notification/model"
	"github.com/wso2/engagement-service/internal/notification/store"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/client"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/utils"
)

// NotificationServiceInterface defines the service interface.
type NotificationServiceInterface interface {
	CreateNotification(ctx context.Context, notification model.NotificationEvent) error
	CreateNotificationInTx(ctx context.Context, tx client.Querier, notification model.NotificationEvent) error
	CreateLikeNotification(ctx context.Context, notification model.NotificationEvent) (bool, error)
	CreateNotificationPair(ctx context.Context, first, second model.NotificationEvent, supersededType string) error
	ListNotifications(ctx context.Context, recipientId string, unreadOnly bool, cursor pagination.Cursor,
		limit int) (*model.NotificationPage, error)
	GetNotification(ctx context.Context, recipientId, notificationId string) (*model.NotificationEvent, error)
	CountUnread(ctx context.Context, recipientId string) (int64, error)
	MarkRead(ctx context.Context, recipientId, notificationId string) error
	MarkAllRead(ctx context.Context, recipientId string) (int64, error)
}

// NotificationService is the default implementation.
type NotificationService struct {
	retryPolicy utils.RetryPolicy
}

// GetNotificationService returns a new instance.
func GetNotificationService() NotificationServiceInterface {
	retries := config.GetRuntime().Config.Interest.Retries()
	return &NotificationService{retryPolicy: utils.DefaultRetryPolicy(retries)}
}

// NewNotificationServiceWithPolicy returns a service retrying store writes with the given policy.
func NewNotificationServiceWithPolicy(policy utils.RetryPolicy) *NotificationService {
	return &NotificationService{retryPolicy: policy}
}

// NewNotification builds a notification with a fresh id. The id is fixed here so that a retried
// insert of the same value stays a no-op.
func NewNotification(recipientId, actorId, notificationType string, createdAt time.Time) model.NotificationEvent {
	return model.NotificationEvent{
		NotificationId: uuid.New().String(),
		RecipientId:    recipientId,
		Type:           notificationType,
		Content:        contentOf(notificationType),
		ActorId:        actorId,
		CreatedAt:      createdAt.Unix(),
	}
}

func contentOf(notificationType string) string {
	switch notificationType {
	case constants.NotificationMatch:
		return model.MatchContent
	case constants.NotificationLike:
		return model.LikeContent
	case constants.NotificationFootprint:
		return model.FootprintContent
	}
	return ""
}

// CreateNotification writes a single notification, retrying transient store failures.
func (ns *NotificationService) CreateNotification(ctx context.Context, notification model.NotificationEvent) error {

	return utils.Retry(ctx, ns.retryPolicy, "create-notification", func() error {
		return store.CreateNotification(ctx, notification)
	})
}

// CreateNotificationInTx writes a notification inside the caller's transaction. The caller owns
// retrying the transaction.
func (ns *NotificationService) CreateNotificationInTx(ctx context.Context, tx client.Querier,
	notification model.NotificationEvent) error {

	return store.AddNotification(ctx, tx, notification)
}

// CreateLikeNotification writes a like notification unless the actor and the recipient have
// matched meanwhile. It reports whether the notification was written.
func (ns *NotificationService) CreateLikeNotification(ctx context.Context, notification model.NotificationEvent) (
	bool, error) {

	userLow, userHigh := OrderedPair(notification.RecipientId, notification.ActorId)
	written := false
	err := utils.Retry(ctx, ns.retryPolicy, "create-like-notification", func() error {
		inserted, err := store.AddNotificationUnlessMatched(ctx, notification, userLow, userHigh)
		if err != nil {
			return err
		}
		written = written || inserted
		return nil
	})
	return written, err
}

// CreateNotificationPair writes both notifications atomically, replacing earlier notifications of
// supersededType between the two users.
func (ns *NotificationService) CreateNotificationPair(ctx context.Context, first, second model.NotificationEvent,
	supersededType string) error {

	return utils.Retry(ctx, ns.retryPolicy, "create-notification-pair", func() error {
		return store.AddNotificationPair(ctx, first, second, supersededType)
	})
}

// ListNotifications returns a page of the recipient's notifications, newest first.
func (ns *NotificationService) ListNotifications(ctx context.Context, recipientId string, unreadOnly bool,
	cursor pagination.Cursor, limit int) (*model.NotificationPage, error) {

	if recipientId == "" {
		return nil, unauthenticated()
	}
	limit = pagination.NormalizeLimit(limit)

	notifications, err := store.ListNotifications(ctx, recipientId, unreadOnly, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &model.NotificationPage{Pagination: pagination.Pagination{Limit: limit}}
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[limit-1]
		page.Pagination.HasMore = true
		page.Pagination.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			Id:        last.NotificationId,
		})
	}
	page.Items = notifications
	return page, nil
}

func (ns *NotificationService) CountUnread(ctx context.Context, recipientId string) (int64, error) {

	if recipientId == "" {
		return 0, unauthenticated()
	}
	return store.CountUnread(ctx, recipientId)
}

// GetNotification returns one of the caller's notifications. Notifications of other users are
// reported as not found.
func (ns *NotificationService) GetNotification(ctx context.Context, recipientId, notificationId string) (
	*model.NotificationEvent, error) {

	if recipientId == "" {
		return nil, unauthenticated()
	}
	notification, err := store.GetNotification(ctx, notificationId)
	if err != nil {
		return nil, err
	}
	if notification == nil || notification.RecipientId != recipientId {
		return nil, notFound(notificationId)
	}
	return notification, nil
}

// MarkRead marks one notification read. Notifications of other users are reported as not found.
func (ns *NotificationService) MarkRead(ctx context.Context, recipientId, notificationId string) error {

	if recipientId == "" {
		return unauthenticated()
	}
	updated, err := store.MarkRead(ctx, recipientId, notificationId)
	if err != nil {
		return err
	}
	if !updated {
		return notFound(notificationId)
	}
	return nil
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, recipientId string) (int64, error) {

	if recipientId == "" {
		return 0, unauthenticated()
	}
	return store.MarkAllRead(ctx, recipientId)
}

// OrderedPair returns the two user ids in ascending order, the key of the pair's match row.
func OrderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func notFound(notificationId string) error {
	return errors2.NewClientError(errors2.NOTIFICATION_NOT_FOUND.WithDescription(
		"No notification with id "+notificationId+" exists for the caller."), http.StatusNotFound)
}

func unauthenticated() error {
	return errors2.NewClientError(errors2.UN_AUTHENTICATED, http.StatusUnauthorized)
}
