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
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/store"
	interestModel "github.com/wso2/engagement-service/internal/interest/model"
	interestStore "github.com/wso2/engagement-service/internal/interest/store"
	"github.com/wso2/engagement-service/internal/system/cache"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/utils"
	"github.com/wso2/engagement-service/test/setup"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type fixedRandomizer struct {
	draw int
	pick int
}

func (r *fixedRandomizer) Draw() int { return r.draw }

func (r *fixedRandomizer) Pick(n int) int { return r.pick % n }

type sentMessage struct {
	from, to, body string
}

type fakeMessenger struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (m *fakeMessenger) SendMessage(_ context.Context, fromId, toId, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{from: fromId, to: toId, body: body})
	return nil
}

type fixture struct {
	svc        *AutoResponseService
	randomizer *fixedRandomizer
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	setup.SetupTestSQLite(t)

	f := &fixture{randomizer: &fixedRandomizer{draw: 1}, now: time.Unix(1_700_000_000, 0)}
	f.svc = NewAutoResponseService(f.randomizer, NewJobTableScheduler(utils.DefaultRetryPolicy(1)),
		cache.NewCache(time.Minute), func() time.Time { return f.now })

	seedAccount(t, "managed-1", true, true)
	seedAccount(t, "fan-1", false, true)
	return f
}

func seedAccount(t *testing.T, userId string, managed, active bool) {
	require.NoError(t, interestStore.UpsertUserProfile(context.Background(), interestModel.UserProfile{
		ProfileSummary: interestModel.ProfileSummary{UserId: userId, DisplayName: userId},
		IsManaged:      managed,
		IsActive:       active,
		CreatedAt:      1_600_000_000,
	}))
}

func (f *fixture) addTemplate(t *testing.T, name, message string) *model.AutoResponseTemplate {
	template, err := f.svc.AddTemplate(context.Background(), model.AutoResponseTemplateRequest{
		Name:     name,
		Message:  message,
		Category: "greeting",
	})
	require.NoError(t, err)
	return template
}

func (f *fixture) addRule(t *testing.T, condition model.Condition, probability int, delay int64,
	templateIds ...string) *model.AutoResponseRule {
	rule, err := f.svc.AddRule(context.Background(), model.AutoResponseRuleRequest{
		Name:         "rule-" + condition.Value,
		Condition:    condition,
		TemplateIds:  templateIds,
		AccountIds:   []string{"managed-1"},
		DelaySeconds: delay,
		Probability:  probability,
	})
	require.NoError(t, err)
	return rule
}

func messageEvent(value string, occurredAt int64) model.InboundEvent {
	return model.InboundEvent{
		AccountId:  "managed-1",
		SenderId:   "fan-1",
		EventType:  constants.ConditionMessageReceived,
		EventValue: value,
		OccurredAt: occurredAt,
	}
}

func newDispatcher(messenger *fakeMessenger, now func() time.Time) *DispatchService {
	return NewDispatchService(messenger, config.AutoResponderConfig{
		MaxDispatchAttempts:   2,
		BackoffInitialSeconds: 10,
		BackoffMaxSeconds:     60,
	}, now)
}

func TestEvaluateEvent_DelayedReplyCountsUseOnlyOnDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	template := f.addTemplate(t, "Greeting", "Hi! Thanks for reaching out.")
	rule := f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "hello",
		Operator: constants.OperatorContains}, 100, 300, template.TemplateId)

	occurredAt := f.now.Unix()
	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("Hello there!", occurredAt))
	require.NoError(t, err)
	assert.Equal(t, constants.StageScheduled, outcome.Stage)
	assert.Equal(t, rule.RuleId, outcome.RuleId)
	assert.Equal(t, template.TemplateId, outcome.TemplateId)
	assert.Equal(t, occurredAt+300, outcome.FireAt)

	stored, err := f.svc.GetTemplate(ctx, template.TemplateId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.UseCount, "scheduling does not count a use")

	due, err := store.ClaimDueDispatchJobs(ctx, occurredAt+299, occurredAt+400, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "nothing fires before the delay")

	due, err = store.ClaimDueDispatchJobs(ctx, occurredAt+300, occurredAt+420, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	messenger := &fakeMessenger{}
	dispatcher := newDispatcher(messenger, func() time.Time { return time.Unix(occurredAt+300, 0) })
	require.NoError(t, dispatcher.DispatchJob(ctx, due[0]))

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, sentMessage{from: "managed-1", to: "fan-1", body: "Hi! Thanks for reaching out."},
		messenger.sent[0])

	stored, err = f.svc.GetTemplate(ctx, template.TemplateId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.UseCount)

	job, err := store.GetDispatchJob(ctx, outcome.JobId)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusDispatched, job.Status)

	// A duplicate hand-over of a settled job neither sends nor counts again.
	require.NoError(t, dispatcher.DispatchJob(ctx, due[0]))
	assert.Len(t, messenger.sent, 1)
	stored, err = f.svc.GetTemplate(ctx, template.TemplateId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.UseCount)
}

func TestEvaluateEvent_ProbabilityBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")

	always := f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "always"}, 100, 0,
		template.TemplateId)
	for _, draw := range []int{1, 50, 100} {
		f.randomizer.draw = draw
		outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("always", 0))
		require.NoError(t, err)
		assert.Equal(t, constants.StageScheduled, outcome.Stage, "draw %d", draw)
		assert.Equal(t, always.RuleId, outcome.RuleId)
	}

	f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "rarely"}, 1, 0,
		template.TemplateId)
	f.randomizer.draw = 1
	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("rarely", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageScheduled, outcome.Stage)

	f.randomizer.draw = 2
	outcome, err = f.svc.EvaluateEvent(ctx, messageEvent("rarely", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageSuppressed, outcome.Stage)
	assert.Empty(t, outcome.JobId)
	assert.Equal(t, 2, outcome.Draw)
}

func TestEvaluateEvent_DeterministicWithFixedRandomizer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.addTemplate(t, "First", "one")
	second := f.addTemplate(t, "Second", "two")
	f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived}, 60, 0,
		first.TemplateId, second.TemplateId)

	f.randomizer.draw = 60
	f.randomizer.pick = 1
	var templates []string
	for i := 0; i < 3; i++ {
		outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("anything", 0))
		require.NoError(t, err)
		require.Equal(t, constants.StageScheduled, outcome.Stage)
		templates = append(templates, outcome.TemplateId)
	}
	assert.Equal(t, []string{second.TemplateId, second.TemplateId, second.TemplateId}, templates)

	f.randomizer.draw = 61
	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("anything", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageSuppressed, outcome.Stage)
}

func TestEvaluateEvent_NewestMatchingRuleWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")

	f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "hi", Operator: "contains"}, 100, 0,
		template.TemplateId)
	f.now = f.now.Add(time.Minute)
	newer := f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "hi", Operator: "contains"},
		100, 0, template.TemplateId)

	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("oh hi", 0))
	require.NoError(t, err)
	assert.Equal(t, newer.RuleId, outcome.RuleId)

	jobs, err := f.svc.ListDispatchJobs(ctx, constants.JobStatusScheduled, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 1, "at most one reply per event")
}

func TestEvaluateEvent_RulesCreatedTogetherPickSmallestId(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")

	condition := model.Condition{Type: constants.ConditionMessageReceived, Value: "hi", Operator: "contains"}
	first := f.addRule(t, condition, 100, 0, template.TemplateId)
	second := f.addRule(t, condition, 100, 0, template.TemplateId)
	require.Equal(t, first.CreatedAt, second.CreatedAt)

	expected := first.RuleId
	if second.RuleId < expected {
		expected = second.RuleId
	}

	for i := 0; i < 2; i++ {
		outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("oh hi", 0))
		require.NoError(t, err)
		assert.Equal(t, constants.StageScheduled, outcome.Stage)
		assert.Equal(t, expected, outcome.RuleId)
	}

	jobs, err := f.svc.ListDispatchJobs(ctx, constants.JobStatusScheduled, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	for _, job := range jobs {
		assert.Equal(t, expected, job.RuleId)
	}
}

func TestEvaluateEvent_NoMatchAndNoTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")
	rule := f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived, Value: "hello"}, 100, 0,
		template.TemplateId)

	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("goodbye", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageNoMatch, outcome.Stage)

	outcome, err = f.svc.EvaluateEvent(ctx, model.InboundEvent{AccountId: "managed-1", SenderId: "fan-1",
		EventType: constants.ConditionProfileView, EventValue: "hello"})
	require.NoError(t, err)
	assert.Equal(t, constants.StageNoMatch, outcome.Stage, "rules only react to their own event type")

	_, err = f.svc.SetTemplateActive(ctx, template.TemplateId, false)
	require.NoError(t, err)
	outcome, err = f.svc.EvaluateEvent(ctx, messageEvent("hello", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageNoTemplate, outcome.Stage)
	assert.Equal(t, rule.RuleId, outcome.RuleId)

	_, err = f.svc.SetRuleActive(ctx, rule.RuleId, false)
	require.NoError(t, err)
	outcome, err = f.svc.EvaluateEvent(ctx, messageEvent("hello", 0))
	require.NoError(t, err)
	assert.Equal(t, constants.StageNoMatch, outcome.Stage, "inactive rules are skipped")
}

func TestEvaluateEvent_AccountChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.EvaluateEvent(ctx, model.InboundEvent{AccountId: "ghost", SenderId: "fan-1",
		EventType: constants.ConditionMessageReceived})
	assert.True(t, errors2.HasCode(err, errors2.MANAGED_ACCOUNT_NOT_FOUND))

	outcome, err := f.svc.EvaluateEvent(ctx, model.InboundEvent{AccountId: "fan-1", SenderId: "managed-1",
		EventType: constants.ConditionMessageReceived})
	require.NoError(t, err)
	assert.Equal(t, constants.StageNoMatch, outcome.Stage)

	for _, event := range []model.InboundEvent{
		{AccountId: "managed-1", EventType: constants.ConditionMessageReceived},
		{AccountId: "managed-1", SenderId: "managed-1", EventType: constants.ConditionMessageReceived},
		{AccountId: "managed-1", SenderId: "fan-1", EventType: "poke"},
	} {
		_, err := f.svc.EvaluateEvent(ctx, event)
		assert.True(t, errors2.HasCode(err, errors2.INVALID_INBOUND_EVENT), "%+v", event)
	}
}

func TestAddRule_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")

	valid := func() model.AutoResponseRuleRequest {
		return model.AutoResponseRuleRequest{
			Name:        "welcome",
			Condition:   model.Condition{Type: constants.ConditionMessageReceived, Value: "hello"},
			TemplateIds: []string{template.TemplateId},
			AccountIds:  []string{"managed-1"},
			Probability: 50,
		}
	}

	cases := map[string]struct {
		mutate func(r *model.AutoResponseRuleRequest)
		code   errors2.ErrorMessage
	}{
		"blank name":          {func(r *model.AutoResponseRuleRequest) { r.Name = " " }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"unknown condition":   {func(r *model.AutoResponseRuleRequest) { r.Condition.Type = "poke" }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"unknown operator":    {func(r *model.AutoResponseRuleRequest) { r.Condition.Operator = "regex" }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"non numeric value":   {func(r *model.AutoResponseRuleRequest) { r.Condition.Operator = "greater_than" }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"probability zero":    {func(r *model.AutoResponseRuleRequest) { r.Probability = 0 }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"probability too big": {func(r *model.AutoResponseRuleRequest) { r.Probability = 101 }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"negative delay":      {func(r *model.AutoResponseRuleRequest) { r.DelaySeconds = -1 }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"no templates":        {func(r *model.AutoResponseRuleRequest) { r.TemplateIds = nil }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"no accounts":         {func(r *model.AutoResponseRuleRequest) { r.AccountIds = nil }, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"duplicate account": {func(r *model.AutoResponseRuleRequest) {
			r.AccountIds = []string{"managed-1", "managed-1"}
		}, errors2.AUTO_RESPONSE_RULE_VALIDATION},
		"unknown template":  {func(r *model.AutoResponseRuleRequest) { r.TemplateIds = []string{"nope"} }, errors2.AUTO_RESPONSE_TEMPLATE_NOT_FOUND},
		"unmanaged account": {func(r *model.AutoResponseRuleRequest) { r.AccountIds = []string{"fan-1"} }, errors2.MANAGED_ACCOUNT_NOT_FOUND},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			request := valid()
			tc.mutate(&request)
			_, err := f.svc.AddRule(ctx, request)
			require.Error(t, err)
			assert.True(t, errors2.HasCode(err, tc.code), err.Error())
		})
	}

	rule, err := f.svc.AddRule(ctx, valid())
	require.NoError(t, err)
	assert.True(t, rule.IsActive)
	assert.Equal(t, constants.OperatorEquals, rule.Condition.Operator)
}

func TestRuleAndTemplateLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedAccount(t, "managed-2", true, true)

	first := f.addTemplate(t, "First", "one")
	second := f.addTemplate(t, "Second", "two")
	rule := f.addRule(t, model.Condition{Type: constants.ConditionLikeReceived}, 100, 60, first.TemplateId)

	inactive := false
	updated, err := f.svc.UpdateRule(ctx, rule.RuleId, model.AutoResponseRuleRequest{
		Name:        "renamed",
		Condition:   model.Condition{Type: constants.ConditionLikeReceived},
		TemplateIds: []string{second.TemplateId, first.TemplateId},
		AccountIds:  []string{"managed-1", "managed-2"},
		Probability: 40,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	fetched, err := f.svc.GetRule(ctx, rule.RuleId)
	require.NoError(t, err)
	assert.Equal(t, []string{second.TemplateId, first.TemplateId}, fetched.TemplateIds)
	assert.ElementsMatch(t, []string{"managed-1", "managed-2"}, fetched.AccountIds)
	assert.False(t, fetched.IsActive)
	assert.Equal(t, 40, fetched.Probability)

	active := true
	rules, err := f.svc.ListRules(ctx, "managed-2", &active)
	require.NoError(t, err)
	assert.Empty(t, rules)
	rules, err = f.svc.ListRules(ctx, "managed-2", nil)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	err = f.svc.DeleteTemplate(ctx, first.TemplateId)
	assert.True(t, errors2.HasCode(err, errors2.AUTO_RESPONSE_TEMPLATE_IN_USE))

	require.NoError(t, f.svc.DeleteRule(ctx, rule.RuleId))
	_, err = f.svc.GetRule(ctx, rule.RuleId)
	assert.True(t, errors2.HasCode(err, errors2.AUTO_RESPONSE_RULE_NOT_FOUND))
	assert.True(t, errors2.HasCode(f.svc.DeleteRule(ctx, rule.RuleId), errors2.AUTO_RESPONSE_RULE_NOT_FOUND))

	require.NoError(t, f.svc.DeleteTemplate(ctx, first.TemplateId))
	templates, err := f.svc.ListTemplates(ctx, "greeting")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, second.TemplateId, templates[0].TemplateId)

	_, err = f.svc.AddTemplate(ctx, model.AutoResponseTemplateRequest{Name: "empty"})
	assert.True(t, errors2.HasCode(err, errors2.AUTO_RESPONSE_TEMPLATE_VALIDATION))
}

func TestDispatchJob_FailureBacksOffThenDies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")
	f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived}, 100, 0, template.TemplateId)

	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("hey", f.now.Unix()))
	require.NoError(t, err)
	job, err := store.GetDispatchJob(ctx, outcome.JobId)
	require.NoError(t, err)

	messenger := &fakeMessenger{err: errors.New("gateway down")}
	now := f.now
	dispatcher := newDispatcher(messenger, func() time.Time { return now })

	err = dispatcher.DispatchJob(ctx, *job)
	assert.True(t, errors2.HasCode(err, errors2.DISPATCH_FAILED))

	failed, err := store.GetDispatchJob(ctx, job.JobId)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, failed.Status)
	assert.Equal(t, 1, failed.Attempts)
	assert.Equal(t, now.Unix()+10, failed.FireAt)
	assert.Contains(t, failed.LastError, "gateway down")

	now = now.Add(10 * time.Second)
	err = dispatcher.DispatchJob(ctx, *failed)
	assert.Error(t, err)

	dead, err := f.svc.ListDispatchJobs(ctx, constants.JobStatusDead, 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, 2, dead[0].Attempts)

	stored, err := f.svc.GetTemplate(ctx, template.TemplateId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.UseCount)
}

func TestDispatchJob_CancelledWhenRuleDeactivated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")
	rule := f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived}, 100, 600, template.TemplateId)

	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("hey", 0))
	require.NoError(t, err)
	_, err = f.svc.SetRuleActive(ctx, rule.RuleId, false)
	require.NoError(t, err)

	job, err := store.GetDispatchJob(ctx, outcome.JobId)
	require.NoError(t, err)
	messenger := &fakeMessenger{}
	require.NoError(t, newDispatcher(messenger, time.Now).DispatchJob(ctx, *job))

	assert.Empty(t, messenger.sent)
	cancelled, err := store.GetDispatchJob(ctx, job.JobId)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCancelled, cancelled.Status)
	assert.Equal(t, "rule inactive", cancelled.LastError)
}

func TestDispatchJob_CancelledWhenAccountDeactivated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.addTemplate(t, "Greeting", "Hi!")
	f.addRule(t, model.Condition{Type: constants.ConditionMessageReceived}, 100, 0, template.TemplateId)

	outcome, err := f.svc.EvaluateEvent(ctx, messageEvent("hey", 0))
	require.NoError(t, err)
	seedAccount(t, "managed-1", true, false)

	job, err := store.GetDispatchJob(ctx, outcome.JobId)
	require.NoError(t, err)
	messenger := &fakeMessenger{}
	require.NoError(t, newDispatcher(messenger, time.Now).DispatchJob(ctx, *job))

	assert.Empty(t, messenger.sent)
	cancelled, err := store.GetDispatchJob(ctx, job.JobId)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCancelled, cancelled.Status)
}
