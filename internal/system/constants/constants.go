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

package constants

const ApiBasePath = "/api/v1"
const InterestsApiPath = "/interests"
const MatchesApiPath = "/matches"
const NotificationsApiPath = "/notifications"
const AutoResponseApiPath = "/auto-response"
const HealthApiPath = "/health"

const TraceIDHeader = "X-Trace-Id"

type contextKey string

const TraceIDContextKey contextKey = "trace_id"
const UserIDContextKey contextKey = "user_id"
const ScopesContextKey contextKey = "scopes"

const ServiceName = "engagement-service"

// Interest kinds
const (
	InterestLike      = "like"
	InterestFavorite  = "favorite"
	InterestFootprint = "footprint"
)

var AllowedInterestKinds = map[string]bool{
	InterestLike:      true,
	InterestFavorite:  true,
	InterestFootprint: true,
}

// DefaultFootprintWindowSeconds bounds footprints to one fresh record per ordered pair per day.
const DefaultFootprintWindowSeconds int64 = 24 * 60 * 60

// Notification types
const (
	NotificationMatch     = "match"
	NotificationLike      = "like"
	NotificationFootprint = "footprint"
)

// Auto-response condition types. Each one is also the event type that triggers it.
const (
	ConditionMessageReceived = "message_received"
	ConditionNoResponse24h   = "no_response_24h"
	ConditionProfileView     = "profile_view"
	ConditionLikeReceived    = "like_received"
	ConditionMatchCreated    = "match_created"
)

var AllowedConditionTypes = map[string]bool{
	ConditionMessageReceived: true,
	ConditionNoResponse24h:   true,
	ConditionProfileView:     true,
	ConditionLikeReceived:    true,
	ConditionMatchCreated:    true,
}

// Condition operators
const (
	OperatorEquals      = "equals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
)

var AllowedConditionOperators = map[string]bool{
	OperatorEquals:      true,
	OperatorContains:    true,
	OperatorGreaterThan: true,
	OperatorLessThan:    true,
}

var NumericConditionOperators = map[string]bool{
	OperatorGreaterThan: true,
	OperatorLessThan:    true,
}

const (
	MinRuleProbability = 1
	MaxRuleProbability = 100
)

// Dispatch job states
const (
	JobStatusScheduled  = "scheduled"
	JobStatusDispatched = "dispatched"
	JobStatusFailed     = "failed"
	JobStatusCancelled  = "cancelled"
	JobStatusDead       = "dead"
)

var AllowedJobStatuses = map[string]bool{
	JobStatusScheduled:  true,
	JobStatusDispatched: true,
	JobStatusFailed:     true,
	JobStatusCancelled:  true,
	JobStatusDead:       true,
}

// Evaluation stages of a single inbound event
const (
	StageNoMatch    = "no_match"
	StageSuppressed = "suppressed"
	StageNoTemplate = "no_template"
	StageScheduled  = "scheduled"
)

// Database types
const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

// Operations checked by authz
const (
	OperationWriteInterest       = "interests:write"
	OperationReadInterest        = "interests:read"
	OperationReadNotification    = "notifications:read"
	OperationWriteNotification   = "notifications:write"
	OperationManageAutoResponse  = "auto_response:manage"
	OperationSubmitInboundEvents = "auto_response:events"
)

// DefaultRequiredScopes is used for an operation the deployment does not configure.
var DefaultRequiredScopes = map[string][]string{
	OperationWriteInterest:       {"engagement"},
	OperationReadInterest:        {"engagement"},
	OperationReadNotification:    {"engagement"},
	OperationWriteNotification:   {"engagement"},
	OperationManageAutoResponse:  {"engagement_admin"},
	OperationSubmitInboundEvents: {"engagement_internal"},
}

const SpaceSeparator = " "
