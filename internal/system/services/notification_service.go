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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/engagement-service/internal/notification/handler"
)

// NotificationService routes /notifications.
type NotificationService struct {
	handler *handler.NotificationHandler
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		handler: handler.NewNotificationHandler(),
	}
}

func (s *NotificationService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	pathParts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case method == http.MethodGet && path == "/notifications":
		s.handler.ListNotifications(w, r)
	case method == http.MethodGet && path == "/notifications/unread-count":
		s.handler.CountUnread(w, r)
	case method == http.MethodGet && len(pathParts) == 2:
		r.SetPathValue("id", pathParts[1])
		s.handler.GetNotification(w, r)
	case method == http.MethodPost && path == "/notifications/read-all":
		s.handler.MarkAllRead(w, r)
	case method == http.MethodPost && len(pathParts) == 3 && pathParts[2] == "read":
		r.SetPathValue("id", pathParts[1])
		s.handler.MarkRead(w, r)
	default:
		http.NotFound(w, r)
	}
}
