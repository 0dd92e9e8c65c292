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

var InsertNotification = portable(`INSERT INTO notifications
	(notification_id, recipient_id, type, content, actor_id, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`)

var DeleteNotificationsOfType = portable(`DELETE FROM notifications
	WHERE recipient_id = $1 AND actor_id = $2 AND type = $3`)

var GetNotification = portable(`SELECT notification_id, recipient_id, type, content, actor_id, is_read, created_at
	FROM notifications WHERE notification_id = $1`)

var ListNotifications = portable(`SELECT notification_id, recipient_id, type, content, actor_id, is_read, created_at
	FROM notifications WHERE recipient_id = $1
	AND (created_at < $2 OR (created_at = $2 AND notification_id < $3))
	ORDER BY created_at DESC, notification_id DESC LIMIT $4`)

var ListUnreadNotifications = portable(`SELECT notification_id, recipient_id, type, content, actor_id, is_read, created_at
	FROM notifications WHERE recipient_id = $1 AND is_read = FALSE
	AND (created_at < $2 OR (created_at = $2 AND notification_id < $3))
	ORDER BY created_at DESC, notification_id DESC LIMIT $4`)

var CountNotificationsByType = portable(`SELECT COUNT(*) AS total FROM notifications
	WHERE recipient_id = $1 AND type = $2`)

var CountUnreadNotifications = portable(`SELECT COUNT(*) AS unread FROM notifications
	WHERE recipient_id = $1 AND is_read = FALSE`)

var MarkNotificationRead = portable(`UPDATE notifications SET is_read = TRUE
	WHERE notification_id = $1 AND recipient_id = $2`)

var MarkAllNotificationsRead = portable(`UPDATE notifications SET is_read = TRUE
	WHERE recipient_id = $1 AND is_read = FALSE`)

// Like notifications are skipped once the pair has matched; the match fan-out supersedes them.
var InsertLikeNotificationUnlessMatched = portable(`INSERT INTO notifications
	(notification_id, recipient_id, type, content, actor_id, is_read, created_at)
	SELECT $1, $2, $3, $4, $5, FALSE, CAST($6 AS BIGINT)
	WHERE NOT EXISTS (SELECT 1 FROM matches WHERE user_low = $7 AND user_high = $8)
	ON CONFLICT DO NOTHING`)
