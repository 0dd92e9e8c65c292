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
	"net/http"
	"strconv"

	"github.com/wso2/engagement-service/internal/notification/model"
	"github.com/wso2/engagement-service/internal/notification/provider"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/security"
	"github.com/wso2/engagement-service/internal/system/utils"
)

type NotificationHandler struct {
	provider provider.NotificationProviderInterface
}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{provider: provider.NewNotificationProvider()}
}

// NewNotificationHandlerWithProvider builds a handler over the given provider. Used by tests.
func NewNotificationHandlerWithProvider(p provider.NotificationProviderInterface) *NotificationHandler {
	return &NotificationHandler{provider: p}
}

// ListNotifications handles GET /notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadNotification)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	cursor, limit, err := utils.ParsePageParams(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		if unreadOnly, err = strconv.ParseBool(raw); err != nil {
			utils.HandleError(w, r, errors.NewClientError(
				errors.BAD_REQUEST.WithDescription("unread must be true or false."), http.StatusBadRequest))
			return
		}
	}

	service := h.provider.GetNotificationService()
	page, err := service.ListNotifications(r.Context(), userId, unreadOnly, cursor, limit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// CountUnread handles GET /notifications/unread-count
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadNotification)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetNotificationService()
	unread, err := service.CountUnread(r.Context(), userId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.UnreadCountResponse{Unread: unread})
}

// GetNotification handles GET /notifications/{id}
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadNotification)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetNotificationService()
	notification, err := service.GetNotification(r.Context(), userId, r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, notification)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationWriteNotification)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetNotificationService()
	if err := service.MarkRead(r.Context(), userId, r.PathValue("id")); err != nil {
		utils.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationWriteNotification)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetNotificationService()
	updated, err := service.MarkAllRead(r.Context(), userId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.MarkAllReadResponse{Updated: updated})
}
