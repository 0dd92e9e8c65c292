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
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/store"
	"github.com/wso2/engagement-service/internal/system/client"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/telemetry"
	"github.com/wso2/engagement-service/internal/system/utils"
)

// DispatchServiceInterface delivers scheduled replies.
type DispatchServiceInterface interface {
	DispatchJob(ctx context.Context, job model.DispatchJob) error
}

// DispatchService delivers a job with the rule and template pinned at evaluation time. A job may
// be handed over more than once; only a job still pending is delivered.
type DispatchService struct {
	messaging      client.MessagingClientInterface
	maxAttempts    int
	backoffInitial time.Duration
	backoffMax     time.Duration
	retryPolicy    utils.RetryPolicy
	now            func() time.Time
}

func GetDispatchService() DispatchServiceInterface {
	cfg := config.GetRuntime().Config
	return NewDispatchService(client.NewMessagingClient(cfg.Messaging), cfg.AutoResponder, time.Now)
}

func NewDispatchService(messaging client.MessagingClientInterface, cfg config.AutoResponderConfig,
	now func() time.Time) *DispatchService {
	return &DispatchService{
		messaging:      messaging,
		maxAttempts:    cfg.MaxAttempts(),
		backoffInitial: cfg.BackoffInitial(),
		backoffMax:     cfg.BackoffMax(),
		retryPolicy:    utils.DefaultRetryPolicy(3),
		now:            now,
	}
}

// DispatchJob re-checks the job against the current rule, template and account, sends the
// message and records the outcome. Delivery failures are rescheduled with backoff until the
// attempt limit, after which the job is dead.
func (d *DispatchService) DispatchJob(ctx context.Context, job model.DispatchJob) error {

	ctx, span := telemetry.Tracer().Start(ctx, "auto-response.dispatch", trace.WithAttributes(
		attribute.String("job.id", job.JobId),
		attribute.String("rule.id", job.RuleId),
		attribute.String("template.id", job.TemplateId),
	))
	defer span.End()

	logger := log.GetLogger().With(log.String("jobId", job.JobId), log.String("ruleId", job.RuleId))

	current, err := store.GetDispatchJob(ctx, job.JobId)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if current == nil {
		logger.Warn("Dispatch job no longer exists, skipping.")
		return nil
	}
	if current.Status != constants.JobStatusScheduled && current.Status != constants.JobStatusFailed {
		logger.Debug("Dispatch job already settled, skipping.", log.String("status", current.Status))
		return nil
	}

	template, reason, err := d.checkStillAllowed(ctx, *current)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if reason != "" {
		logger.Info("Dispatch job cancelled.", log.String("reason", reason))
		span.SetAttributes(attribute.String("dispatch.outcome", constants.JobStatusCancelled))
		_, err := store.MarkCancelled(ctx, current.JobId, reason, d.now().Unix())
		return err
	}

	if sendErr := d.messaging.SendMessage(ctx, current.AccountId, current.RecipientId, template.Message); sendErr != nil {
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, "delivery failed")
		if err := d.recordFailure(ctx, *current, sendErr); err != nil {
			return err
		}
		return errors2.NewServerError(errors2.DISPATCH_FAILED.WithDescription(
			fmt.Sprintf("Delivering job %s failed.", current.JobId)), sendErr)
	}

	err = utils.Retry(ctx, d.retryPolicy, "complete-dispatch", func() error {
		_, err := store.MarkDispatched(ctx, *current, d.now().Unix())
		return err
	})
	if err != nil {
		logger.Error("Message delivered but the dispatch job could not be completed.", log.Error(err))
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("dispatch.outcome", constants.JobStatusDispatched))
	logger.Debug("Auto-response dispatched.", log.String("templateId", current.TemplateId))
	return nil
}

// checkStillAllowed returns the template to send, or a reason when the reply must not fire
// anymore.
func (d *DispatchService) checkStillAllowed(ctx context.Context, job model.DispatchJob) (
	*model.AutoResponseTemplate, string, error) {

	rule, err := store.GetRule(ctx, job.RuleId)
	if err != nil {
		return nil, "", err
	}
	switch {
	case rule == nil:
		return nil, "rule deleted", nil
	case !rule.IsActive:
		return nil, "rule inactive", nil
	case !slices.Contains(rule.AccountIds, job.AccountId):
		return nil, "account removed from rule", nil
	}

	account, err := store.GetManagedAccount(ctx, job.AccountId)
	if err != nil {
		return nil, "", err
	}
	if account == nil || !account.IsManaged || !account.IsActive {
		return nil, "account inactive", nil
	}

	template, err := store.GetTemplate(ctx, job.TemplateId)
	if err != nil {
		return nil, "", err
	}
	if template == nil || !template.IsActive {
		return nil, "template inactive", nil
	}
	return template, "", nil
}

func (d *DispatchService) recordFailure(ctx context.Context, job model.DispatchJob, cause error) error {

	logger := log.GetLogger()
	now := d.now()
	attempts := job.Attempts + 1

	if attempts >= d.maxAttempts {
		if _, err := store.MarkFailed(ctx, job.JobId, constants.JobStatusDead, attempts, cause.Error(), job.FireAt,
			now.Unix()); err != nil {
			return err
		}
		logger.Audit(log.AuditEvent{
			InitiatorID:   constants.ServiceName,
			InitiatorType: log.InitiatorTypeSystem,
			TargetID:      job.JobId,
			TargetType:    log.TargetTypeDispatchJob,
			ActionID:      log.ActionDispatchExhausted,
			Data: map[string]string{
				"rule_id":     job.RuleId,
				"template_id": job.TemplateId,
				"account_id":  job.AccountId,
				"attempts":    fmt.Sprint(attempts),
				"last_error":  cause.Error(),
			},
		})
		logger.Error("Auto-response dispatch gave up.", log.String("jobId", job.JobId), log.Int("attempts", attempts),
			log.Error(cause))
		return nil
	}

	retryAt := now.Add(utils.NextDelay(attempts, d.backoffInitial, d.backoffMax)).Unix()
	if _, err := store.MarkFailed(ctx, job.JobId, constants.JobStatusFailed, attempts, cause.Error(), retryAt,
		now.Unix()); err != nil {
		return err
	}
	logger.Warn("Auto-response dispatch failed, rescheduled.", log.String("jobId", job.JobId),
		log.Int("attempts", attempts), log.Int64("retryAt", retryAt), log.Error(cause))
	return nil
}
