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

// Condition decides whether a rule applies to an inbound event. Type is the event type the rule
// reacts to. An empty Operator means equals.
type Condition struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Operator string `json:"operator,omitempty"`
}

// AutoResponseRule is an admin configured reply policy for one or more managed accounts.
type AutoResponseRule struct {
	RuleId       string    `json:"rule_id"`
	Name         string    `json:"name"`
	Condition    Condition `json:"condition"`
	TemplateIds  []string  `json:"template_ids"`
	AccountIds   []string  `json:"account_ids"`
	DelaySeconds int64     `json:"delay_seconds"`
	Probability  int       `json:"probability"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    int64     `json:"created_at"`
	UpdatedAt    int64     `json:"updated_at"`
}

type AutoResponseTemplate struct {
	TemplateId string `json:"template_id"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Category   string `json:"category,omitempty"`
	IsActive   bool   `json:"is_active"`
	UseCount   int64  `json:"use_count"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// InboundEvent is something that happened to a managed account. SenderId is the user the reply
// goes to.
type InboundEvent struct {
	AccountId  string `json:"account_id"`
	SenderId   string `json:"sender_id"`
	EventType  string `json:"event_type"`
	EventValue string `json:"event_value"`
	OccurredAt int64  `json:"occurred_at"`
}

// DispatchJob is a scheduled reply. It pins the rule, the template and the probability draw so a
// retried delivery never re-selects.
type DispatchJob struct {
	JobId       string `json:"job_id"`
	RuleId      string `json:"rule_id"`
	TemplateId  string `json:"template_id"`
	AccountId   string `json:"account_id"`
	RecipientId string `json:"recipient_id"`
	EventType   string `json:"event_type"`
	EventValue  string `json:"event_value"`
	Draw        int    `json:"draw"`
	FireAt      int64  `json:"fire_at"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	LastError   string `json:"last_error,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// EvaluationOutcome reports how far an inbound event went through evaluation.
type EvaluationOutcome struct {
	Stage      string `json:"stage"`
	RuleId     string `json:"rule_id,omitempty"`
	TemplateId string `json:"template_id,omitempty"`
	Draw       int    `json:"draw,omitempty"`
	JobId      string `json:"job_id,omitempty"`
	FireAt     int64  `json:"fire_at,omitempty"`
}

// ManagedAccount is the part of a user profile the auto-responder cares about.
type ManagedAccount struct {
	AccountId string `json:"account_id"`
	IsManaged bool   `json:"is_managed"`
	IsActive  bool   `json:"is_active"`
}
