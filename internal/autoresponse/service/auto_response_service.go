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
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/store"
	"github.com/wso2/engagement-service/internal/system/cache"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/utils"
)

// AutoResponseServiceInterface defines the service interface.
type AutoResponseServiceInterface interface {
	AddRule(ctx context.Context, request model.AutoResponseRuleRequest) (*model.AutoResponseRule, error)
	GetRule(ctx context.Context, ruleId string) (*model.AutoResponseRule, error)
	ListRules(ctx context.Context, accountId string, active *bool) ([]model.AutoResponseRule, error)
	UpdateRule(ctx context.Context, ruleId string, request model.AutoResponseRuleRequest) (*model.AutoResponseRule, error)
	SetRuleActive(ctx context.Context, ruleId string, active bool) (*model.AutoResponseRule, error)
	DeleteRule(ctx context.Context, ruleId string) error

	AddTemplate(ctx context.Context, request model.AutoResponseTemplateRequest) (*model.AutoResponseTemplate, error)
	GetTemplate(ctx context.Context, templateId string) (*model.AutoResponseTemplate, error)
	ListTemplates(ctx context.Context, category string) ([]model.AutoResponseTemplate, error)
	UpdateTemplate(ctx context.Context, templateId string, request model.AutoResponseTemplateRequest) (
		*model.AutoResponseTemplate, error)
	SetTemplateActive(ctx context.Context, templateId string, active bool) (*model.AutoResponseTemplate, error)
	DeleteTemplate(ctx context.Context, templateId string) error

	EvaluateEvent(ctx context.Context, event model.InboundEvent) (*model.EvaluationOutcome, error)
	ListDispatchJobs(ctx context.Context, status string, limit int) ([]model.DispatchJob, error)
}

// AutoResponseService is the default implementation.
type AutoResponseService struct {
	randomizer     Randomizer
	scheduler      Scheduler
	candidateCache *cache.Cache
	now            func() time.Time
}

var (
	sharedCandidateCache *cache.Cache
	cacheOnce            sync.Once
)

// GetAutoResponseService returns a service over the shared candidate cache and the job table.
func GetAutoResponseService() AutoResponseServiceInterface {

	cfg := config.GetRuntime().Config
	cacheOnce.Do(func() {
		sharedCandidateCache = cache.NewCache(cfg.AutoResponder.RuleCacheTTL())
	})
	scheduler := NewJobTableScheduler(utils.DefaultRetryPolicy(cfg.Interest.Retries()))
	return NewAutoResponseService(NewRandomizer(), scheduler, sharedCandidateCache, time.Now)
}

func NewAutoResponseService(randomizer Randomizer, scheduler Scheduler, candidateCache *cache.Cache,
	now func() time.Time) *AutoResponseService {
	return &AutoResponseService{
		randomizer:     randomizer,
		scheduler:      scheduler,
		candidateCache: candidateCache,
		now:            now,
	}
}

// AddRule validates and stores a new rule.
func (s *AutoResponseService) AddRule(ctx context.Context, request model.AutoResponseRuleRequest) (
	*model.AutoResponseRule, error) {

	if err := s.validateRule(ctx, request); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	rule := ruleOf(request)
	rule.RuleId = uuid.New().String()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := store.AddRule(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidateCandidates()
	return &rule, nil
}

func (s *AutoResponseService) GetRule(ctx context.Context, ruleId string) (*model.AutoResponseRule, error) {

	rule, err := store.GetRule(ctx, ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFound(ruleId)
	}
	return rule, nil
}

// ListRules lists rules newest first. accountId and active narrow the list when set.
func (s *AutoResponseService) ListRules(ctx context.Context, accountId string, active *bool) (
	[]model.AutoResponseRule, error) {

	rules, err := store.ListRules(ctx, accountId)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return rules, nil
	}
	filtered := make([]model.AutoResponseRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive == *active {
			filtered = append(filtered, rule)
		}
	}
	return filtered, nil
}

// UpdateRule replaces a rule. Jobs already scheduled keep their binding and are re-checked when
// they fire.
func (s *AutoResponseService) UpdateRule(ctx context.Context, ruleId string, request model.AutoResponseRuleRequest) (
	*model.AutoResponseRule, error) {

	existing, err := s.GetRule(ctx, ruleId)
	if err != nil {
		return nil, err
	}
	if err := s.validateRule(ctx, request); err != nil {
		return nil, err
	}

	rule := ruleOf(request)
	rule.RuleId = ruleId
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = s.now().Unix()

	updated, err := store.UpdateRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ruleNotFound(ruleId)
	}
	s.invalidateCandidates()
	return &rule, nil
}

func (s *AutoResponseService) SetRuleActive(ctx context.Context, ruleId string, active bool) (
	*model.AutoResponseRule, error) {

	updated, err := store.SetRuleActive(ctx, ruleId, active, s.now().Unix())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ruleNotFound(ruleId)
	}
	s.invalidateCandidates()
	return s.GetRule(ctx, ruleId)
}

func (s *AutoResponseService) DeleteRule(ctx context.Context, ruleId string) error {

	deleted, err := store.DeleteRule(ctx, ruleId)
	if err != nil {
		return err
	}
	if !deleted {
		return ruleNotFound(ruleId)
	}
	s.invalidateCandidates()
	return nil
}

func (s *AutoResponseService) AddTemplate(ctx context.Context, request model.AutoResponseTemplateRequest) (
	*model.AutoResponseTemplate, error) {

	if err := validateTemplate(request); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	template := templateOf(request)
	template.TemplateId = uuid.New().String()
	template.CreatedAt = now
	template.UpdatedAt = now

	if err := store.AddTemplate(ctx, template); err != nil {
		return nil, err
	}
	return &template, nil
}

func (s *AutoResponseService) GetTemplate(ctx context.Context, templateId string) (*model.AutoResponseTemplate, error) {

	template, err := store.GetTemplate(ctx, templateId)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, templateNotFound(templateId)
	}
	return template, nil
}

func (s *AutoResponseService) ListTemplates(ctx context.Context, category string) ([]model.AutoResponseTemplate, error) {

	return store.ListTemplates(ctx, category)
}

func (s *AutoResponseService) UpdateTemplate(ctx context.Context, templateId string,
	request model.AutoResponseTemplateRequest) (*model.AutoResponseTemplate, error) {

	if err := validateTemplate(request); err != nil {
		return nil, err
	}
	existing, err := s.GetTemplate(ctx, templateId)
	if err != nil {
		return nil, err
	}

	template := templateOf(request)
	template.TemplateId = templateId
	template.UseCount = existing.UseCount
	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = s.now().Unix()

	updated, err := store.UpdateTemplate(ctx, template)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, templateNotFound(templateId)
	}
	return &template, nil
}

func (s *AutoResponseService) SetTemplateActive(ctx context.Context, templateId string, active bool) (
	*model.AutoResponseTemplate, error) {

	updated, err := store.SetTemplateActive(ctx, templateId, active, s.now().Unix())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, templateNotFound(templateId)
	}
	return s.GetTemplate(ctx, templateId)
}

// DeleteTemplate removes a template no rule refers to.
func (s *AutoResponseService) DeleteTemplate(ctx context.Context, templateId string) error {

	refs, err := store.CountTemplateReferences(ctx, templateId)
	if err != nil {
		return err
	}
	if refs > 0 {
		return errors2.NewClientError(errors2.AUTO_RESPONSE_TEMPLATE_IN_USE.WithDescription(
			fmt.Sprintf("Template %s is used by %d rule(s). Remove it from those rules first.", templateId, refs)),
			http.StatusConflict)
	}

	deleted, err := store.DeleteTemplate(ctx, templateId)
	if err != nil {
		return err
	}
	if !deleted {
		return templateNotFound(templateId)
	}
	return nil
}

// EvaluateEvent selects at most one rule for the event and schedules its reply. It returns as
// soon as the reply is scheduled; the delay never blocks the caller.
func (s *AutoResponseService) EvaluateEvent(ctx context.Context, event model.InboundEvent) (
	*model.EvaluationOutcome, error) {

	logger := log.GetLogger()
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	now := s.now()
	if event.OccurredAt == 0 {
		event.OccurredAt = now.Unix()
	}

	account, err := store.GetManagedAccount(ctx, event.AccountId)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors2.NewClientError(errors2.MANAGED_ACCOUNT_NOT_FOUND.WithDescription(
			fmt.Sprintf("Account %s does not exist.", event.AccountId)), http.StatusNotFound)
	}
	if !account.IsManaged || !account.IsActive {
		return &model.EvaluationOutcome{Stage: constants.StageNoMatch}, nil
	}

	candidates, err := s.candidateRules(ctx, event.AccountId, event.EventType)
	if err != nil {
		return nil, err
	}
	var selected *model.AutoResponseRule
	for i := range candidates {
		if MatchesCondition(candidates[i].Condition, event.EventValue) {
			selected = &candidates[i]
			break
		}
	}
	if selected == nil {
		return &model.EvaluationOutcome{Stage: constants.StageNoMatch}, nil
	}

	outcome := &model.EvaluationOutcome{RuleId: selected.RuleId, Draw: s.randomizer.Draw()}
	if outcome.Draw > selected.Probability {
		outcome.Stage = constants.StageSuppressed
		return outcome, nil
	}

	templates, err := store.ListRuleTemplates(ctx, selected.RuleId)
	if err != nil {
		return nil, err
	}
	active := make([]model.AutoResponseTemplate, 0, len(templates))
	for _, template := range templates {
		if template.IsActive {
			active = append(active, template)
		}
	}
	if len(active) == 0 {
		logger.Info("Auto-response rule fired without an active template.", log.String("ruleId", selected.RuleId),
			log.String("accountId", event.AccountId))
		outcome.Stage = constants.StageNoTemplate
		return outcome, nil
	}
	template := active[s.randomizer.Pick(len(active))]

	job := model.DispatchJob{
		JobId:       uuid.New().String(),
		RuleId:      selected.RuleId,
		TemplateId:  template.TemplateId,
		AccountId:   event.AccountId,
		RecipientId: event.SenderId,
		EventType:   event.EventType,
		EventValue:  event.EventValue,
		Draw:        outcome.Draw,
		FireAt:      event.OccurredAt + selected.DelaySeconds,
		Status:      constants.JobStatusScheduled,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}
	if err := s.scheduler.Schedule(ctx, job); err != nil {
		return nil, err
	}

	logger.Debug("Auto-response scheduled.", log.String("jobId", job.JobId), log.String("ruleId", job.RuleId),
		log.String("templateId", job.TemplateId), log.Int64("fireAt", job.FireAt))
	outcome.Stage = constants.StageScheduled
	outcome.TemplateId = template.TemplateId
	outcome.JobId = job.JobId
	outcome.FireAt = job.FireAt
	return outcome, nil
}

func (s *AutoResponseService) candidateRules(ctx context.Context, accountId, eventType string) (
	[]model.AutoResponseRule, error) {

	key := accountId + "|" + eventType
	if s.candidateCache != nil {
		if cached, found := s.candidateCache.Get(key); found {
			return cached.([]model.AutoResponseRule), nil
		}
	}
	rules, err := store.ListCandidateRules(ctx, accountId, eventType)
	if err != nil {
		return nil, err
	}
	if s.candidateCache != nil {
		s.candidateCache.Set(key, rules)
	}
	return rules, nil
}

func (s *AutoResponseService) invalidateCandidates() {
	if s.candidateCache != nil {
		s.candidateCache.Clear()
	}
}

// ListDispatchJobs lists jobs in one state for the admin channel.
func (s *AutoResponseService) ListDispatchJobs(ctx context.Context, status string, limit int) (
	[]model.DispatchJob, error) {

	if !constants.AllowedJobStatuses[status] {
		return nil, errors2.NewClientError(errors2.INVALID_JOB_STATUS.WithDescription(
			fmt.Sprintf("Status '%s' is not supported.", status)), http.StatusBadRequest)
	}
	return store.ListDispatchJobs(ctx, status, pagination.NormalizeLimit(limit))
}

func (s *AutoResponseService) validateRule(ctx context.Context, request model.AutoResponseRuleRequest) error {

	if strings.TrimSpace(request.Name) == "" {
		return ruleValidation("name is required.")
	}
	if !constants.AllowedConditionTypes[request.Condition.Type] {
		return ruleValidation(fmt.Sprintf("Condition type '%s' is not supported.", request.Condition.Type))
	}
	operator := operatorOf(request.Condition)
	if !constants.AllowedConditionOperators[operator] {
		return ruleValidation(fmt.Sprintf("Condition operator '%s' is not supported.", request.Condition.Operator))
	}
	if constants.NumericConditionOperators[operator] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(request.Condition.Value), 64); err != nil {
			return ruleValidation(fmt.Sprintf("Operator '%s' needs a numeric condition value.", operator))
		}
	}
	if request.Probability < constants.MinRuleProbability || request.Probability > constants.MaxRuleProbability {
		return ruleValidation(fmt.Sprintf("probability must be between %d and %d.", constants.MinRuleProbability,
			constants.MaxRuleProbability))
	}
	if request.DelaySeconds < 0 {
		return ruleValidation("delay_seconds cannot be negative.")
	}
	if err := validateIds("template_ids", request.TemplateIds); err != nil {
		return err
	}
	if err := validateIds("account_ids", request.AccountIds); err != nil {
		return err
	}

	for _, templateId := range request.TemplateIds {
		template, err := store.GetTemplate(ctx, templateId)
		if err != nil {
			return err
		}
		if template == nil {
			return templateNotFound(templateId)
		}
	}
	for _, accountId := range request.AccountIds {
		account, err := store.GetManagedAccount(ctx, accountId)
		if err != nil {
			return err
		}
		if account == nil || !account.IsManaged {
			return errors2.NewClientError(errors2.MANAGED_ACCOUNT_NOT_FOUND.WithDescription(
				fmt.Sprintf("Account %s is not a managed account.", accountId)), http.StatusNotFound)
		}
	}
	return nil
}

func validateIds(field string, ids []string) error {

	if len(ids) == 0 {
		return ruleValidation(field + " must not be empty.")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ruleValidation(field + " must not contain blank ids.")
		}
		if seen[id] {
			return ruleValidation(fmt.Sprintf("%s contains %s more than once.", field, id))
		}
		seen[id] = true
	}
	return nil
}

func validateTemplate(request model.AutoResponseTemplateRequest) error {

	if strings.TrimSpace(request.Name) == "" || strings.TrimSpace(request.Message) == "" {
		return errors2.NewClientError(errors2.AUTO_RESPONSE_TEMPLATE_VALIDATION.WithDescription(
			"name and message are required."), http.StatusBadRequest)
	}
	return nil
}

func validateEvent(event model.InboundEvent) error {

	if event.AccountId == "" || event.SenderId == "" {
		return errors2.NewClientError(errors2.INVALID_INBOUND_EVENT.WithDescription(
			"account_id and sender_id are required."), http.StatusBadRequest)
	}
	if event.AccountId == event.SenderId {
		return errors2.NewClientError(errors2.INVALID_INBOUND_EVENT.WithDescription(
			"An account cannot reply to itself."), http.StatusBadRequest)
	}
	if !constants.AllowedConditionTypes[event.EventType] {
		return errors2.NewClientError(errors2.INVALID_INBOUND_EVENT.WithDescription(
			fmt.Sprintf("Event type '%s' is not supported.", event.EventType)), http.StatusBadRequest)
	}
	return nil
}

func ruleOf(request model.AutoResponseRuleRequest) model.AutoResponseRule {
	condition := request.Condition
	condition.Operator = operatorOf(condition)
	return model.AutoResponseRule{
		Name:         strings.TrimSpace(request.Name),
		Condition:    condition,
		TemplateIds:  request.TemplateIds,
		AccountIds:   request.AccountIds,
		DelaySeconds: request.DelaySeconds,
		Probability:  request.Probability,
		IsActive:     request.IsActive == nil || *request.IsActive,
	}
}

func templateOf(request model.AutoResponseTemplateRequest) model.AutoResponseTemplate {
	return model.AutoResponseTemplate{
		Name:     strings.TrimSpace(request.Name),
		Message:  request.Message,
		Category: request.Category,
		IsActive: request.IsActive == nil || *request.IsActive,
	}
}

func ruleValidation(description string) error {
	return errors2.NewClientError(errors2.AUTO_RESPONSE_RULE_VALIDATION.WithDescription(description),
		http.StatusBadRequest)
}

func ruleNotFound(ruleId string) error {
	return errors2.NewClientError(errors2.AUTO_RESPONSE_RULE_NOT_FOUND.WithDescription(
		fmt.Sprintf("Rule %s does not exist.", ruleId)), http.StatusNotFound)
}

func templateNotFound(templateId string) error {
	return errors2.NewClientError(errors2.AUTO_RESPONSE_TEMPLATE_NOT_FOUND.WithDescription(
		fmt.Sprintf("Template %s does not exist.", templateId)), http.StatusNotFound)
}
