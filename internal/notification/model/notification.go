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

package model

import "github.com/wso2/engagement-service/internal/system/pagination"

// NotificationEvent is the in-app signal produced for a recipient. It is write-once apart
// from its read flag.
type NotificationEvent struct {
	NotificationId string `json:"notification_id"`
	RecipientId    string `json:"recipient_id"`
	Type           string `json:"type"`
	Content        string `json:"content"`
	ActorId        string `json:"actor_id,omitempty"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      int64  `json:"created_at"`
}

type NotificationPage struct {
	Items      []NotificationEvent   `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

const (
	MatchContent     = "It's a match! You both liked each other."
	LikeContent      = "Someone liked your profile."
	FootprintContent = "Someone visited your profile."
)
