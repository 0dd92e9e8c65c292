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

	"github.com/wso2/engagement-service/internal/interest/model"
	"github.com/wso2/engagement-service/internal/interest/provider"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/security"
	"github.com/wso2/engagement-service/internal/system/utils"
)

type InterestHandler struct {
	provider provider.InterestProviderInterface
}

func NewInterestHandler() *InterestHandler {
	return &InterestHandler{provider: provider.NewInterestProvider()}
}

// NewInterestHandlerWithProvider builds a handler over the given provider. Used by tests.
func NewInterestHandlerWithProvider(p provider.InterestProviderInterface) *InterestHandler {
	return &InterestHandler{provider: p}
}

// RecordInterest handles POST /interests
func (h *InterestHandler) RecordInterest(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationWriteInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.RecordInterestRequest
	if err := utils.DecodeJSONBody(r, &request, "interest"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetInterestService()
	result, err := service.RecordInterest(r.Context(), userId, request.TargetId, request.Kind)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Status == model.StatusAlreadyExists {
		status = http.StatusOK
	}
	utils.WriteJSON(w, status, result)
}

// CheckInterest handles GET /interests/check
func (h *InterestHandler) CheckInterest(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	query := r.URL.Query()
	service := h.provider.GetInterestService()
	exists, err := service.CheckInterest(r.Context(), userId, query.Get("target_id"), kindOf(r))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.CheckInterestResponse{Exists: exists})
}

// ListReceived handles GET /interests/received
func (h *InterestHandler) ListReceived(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	cursor, limit, err := utils.ParsePageParams(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetInterestService()
	page, err := service.ListReceived(r.Context(), userId, r.URL.Query().Get("user_id"), kindOf(r), cursor, limit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// ListSent handles GET /interests/sent
func (h *InterestHandler) ListSent(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	cursor, limit, err := utils.ParsePageParams(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetInterestService()
	page, err := service.ListSent(r.Context(), userId, r.URL.Query().Get("user_id"), kindOf(r), cursor, limit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// RemoveInterest handles DELETE /interests
func (h *InterestHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationWriteInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetInterestService()
	removed, err := service.RemoveInterest(r.Context(), userId, r.URL.Query().Get("target_id"), kindOf(r))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.RemoveInterestResponse{Removed: removed})
}

// ListMatches handles GET /matches
func (h *InterestHandler) ListMatches(w http.ResponseWriter, r *http.Request) {

	userId, err := security.AuthnAndAuthz(r, constants.OperationReadInterest)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetInterestService()
	matches, err := service.ListMatches(r.Context(), userId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.MatchListResponse{Matches: matches})
}

// kindOf reads the kind query parameter, defaulting to like.
func kindOf(r *http.Request) string {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		return constants.InterestLike
	}
	return kind
}
