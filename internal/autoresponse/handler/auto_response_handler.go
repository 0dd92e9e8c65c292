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

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/provider"
	"github.com/wso2/engagement-service/internal/system/constants"
	reqcontext "github.com/wso2/engagement-service/internal/system/context"
	"github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/security"
	"github.com/wso2/engagement-service/internal/system/utils"
)

type AutoResponseHandler struct {
	provider provider.AutoResponseProviderInterface
}

func NewAutoResponseHandler() *AutoResponseHandler {
	return &AutoResponseHandler{provider: provider.NewAutoResponseProvider()}
}

// NewAutoResponseHandlerWithProvider builds a handler over the given provider. Used by tests.
func NewAutoResponseHandlerWithProvider(p provider.AutoResponseProviderInterface) *AutoResponseHandler {
	return &AutoResponseHandler{provider: p}
}

// AddRule handles POST /auto-response/rules
func (h *AutoResponseHandler) AddRule(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.AutoResponseRuleRequest
	if err := utils.DecodeJSONBody(r, &request, "auto-response rule"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	rule, err := service.AddRule(r.Context(), request)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, rule.RuleId, log.TargetTypeAutoResponseRule, log.ActionAddAutoResponseRule,
		map[string]string{"name": rule.Name, "condition_type": rule.Condition.Type})
	utils.WriteJSON(w, http.StatusCreated, rule)
}

// ListRules handles GET /auto-response/rules
func (h *AutoResponseHandler) ListRules(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var active *bool
	if raw := r.URL.Query().Get("active"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			utils.HandleError(w, r, errors.NewClientError(
				errors.BAD_REQUEST.WithDescription("active must be true or false."), http.StatusBadRequest))
			return
		}
		active = &value
	}

	service := h.provider.GetAutoResponseService()
	rules, err := service.ListRules(r.Context(), r.URL.Query().Get("account_id"), active)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rules)
}

// GetRule handles GET /auto-response/rules/{id}
func (h *AutoResponseHandler) GetRule(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	rule, err := service.GetRule(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rule)
}

// UpdateRule handles PUT /auto-response/rules/{id}
func (h *AutoResponseHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.AutoResponseRuleRequest
	if err := utils.DecodeJSONBody(r, &request, "auto-response rule"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	ruleId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	rule, err := service.UpdateRule(r.Context(), ruleId, request)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, ruleId, log.TargetTypeAutoResponseRule, log.ActionUpdateAutoResponseRule, nil)
	utils.WriteJSON(w, http.StatusOK, rule)
}

// PatchRule handles PATCH /auto-response/rules/{id}
func (h *AutoResponseHandler) PatchRule(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	active, err := decodeActivation(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	ruleId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	rule, err := service.SetRuleActive(r.Context(), ruleId, active)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, ruleId, log.TargetTypeAutoResponseRule, log.ActionUpdateAutoResponseRule,
		map[string]string{"is_active": strconv.FormatBool(active)})
	utils.WriteJSON(w, http.StatusOK, rule)
}

// DeleteRule handles DELETE /auto-response/rules/{id}
func (h *AutoResponseHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	ruleId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	if err := service.DeleteRule(r.Context(), ruleId); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, ruleId, log.TargetTypeAutoResponseRule, log.ActionDeleteAutoResponseRule, nil)
	w.WriteHeader(http.StatusNoContent)
}

// AddTemplate handles POST /auto-response/templates
func (h *AutoResponseHandler) AddTemplate(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.AutoResponseTemplateRequest
	if err := utils.DecodeJSONBody(r, &request, "auto-response template"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	template, err := service.AddTemplate(r.Context(), request)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, template.TemplateId, log.TargetTypeTemplate, log.ActionAddAutoResponseTemplate,
		map[string]string{"name": template.Name})
	utils.WriteJSON(w, http.StatusCreated, template)
}

// ListTemplates handles GET /auto-response/templates
func (h *AutoResponseHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	templates, err := service.ListTemplates(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /auto-response/templates/{id}
func (h *AutoResponseHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	template, err := service.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, template)
}

// UpdateTemplate handles PUT /auto-response/templates/{id}
func (h *AutoResponseHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.AutoResponseTemplateRequest
	if err := utils.DecodeJSONBody(r, &request, "auto-response template"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	templateId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	template, err := service.UpdateTemplate(r.Context(), templateId, request)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, templateId, log.TargetTypeTemplate, log.ActionUpdateAutoResponseTemplate, nil)
	utils.WriteJSON(w, http.StatusOK, template)
}

// PatchTemplate handles PATCH /auto-response/templates/{id}
func (h *AutoResponseHandler) PatchTemplate(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	active, err := decodeActivation(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	templateId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	template, err := service.SetTemplateActive(r.Context(), templateId, active)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, templateId, log.TargetTypeTemplate, log.ActionUpdateAutoResponseTemplate,
		map[string]string{"is_active": strconv.FormatBool(active)})
	utils.WriteJSON(w, http.StatusOK, template)
}

// DeleteTemplate handles DELETE /auto-response/templates/{id}
func (h *AutoResponseHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {

	adminId, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	templateId := r.PathValue("id")
	service := h.provider.GetAutoResponseService()
	if err := service.DeleteTemplate(r.Context(), templateId); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	audit(r, adminId, templateId, log.TargetTypeTemplate, log.ActionDeleteAutoResponseTemplate, nil)
	w.WriteHeader(http.StatusNoContent)
}

// ListJobs handles GET /auto-response/jobs
func (h *AutoResponseHandler) ListJobs(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationManageAutoResponse); err != nil {
		utils.HandleError(w, r, err)
		return
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, r, errors.NewClientError(
			errors.INVALID_LIMIT.WithDescription("limit must be a positive integer."), http.StatusBadRequest))
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = constants.JobStatusDead
	}

	service := h.provider.GetAutoResponseService()
	jobs, err := service.ListDispatchJobs(r.Context(), status, limit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, model.DispatchJobList{Jobs: jobs})
}

// SubmitEvent handles POST /auto-response/events
func (h *AutoResponseHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationSubmitInboundEvents); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var event model.InboundEvent
	if err := utils.DecodeJSONBody(r, &event, "inbound event"); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	service := h.provider.GetAutoResponseService()
	outcome, err := service.EvaluateEvent(r.Context(), event)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, outcome)
}

func decodeActivation(r *http.Request) (bool, error) {

	var patch model.ActivationPatch
	if err := utils.DecodeJSONBody(r, &patch, "activation patch"); err != nil {
		return false, err
	}
	if patch.IsActive == nil {
		return false, errors.NewClientError(errors.BAD_REQUEST.WithDescription("is_active is required."),
			http.StatusBadRequest)
	}
	return *patch.IsActive, nil
}

func audit(r *http.Request, adminId, targetId, targetType, actionId string, data map[string]string) {

	event := log.AuditEvent{
		InitiatorID:   adminId,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      targetId,
		TargetType:    targetType,
		ActionID:      actionId,
		TraceID:       reqcontext.GetTraceID(r.Context()),
	}
	if data != nil {
		event.Data = data
	}
	log.GetLogger().Audit(event)
}
