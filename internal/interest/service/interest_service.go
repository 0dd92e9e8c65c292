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
	"time"

	"github.com/google/uuid"
	autoModel "github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/interest/model"
	"github.com/wso2/engagement-service/internal/interest/store"
	notificationService "github.com/wso2/engagement-service/internal/notification/service"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	reqcontext "github.com/wso2/engagement-service/internal/system/context"
	"github.com/wso2/engagement-service/internal/system/database/client"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/utils"
)

// InterestServiceInterface defines the service interface.
type InterestServiceInterface interface {
	RecordInterest(ctx context.Context, actorId, targetId, kind string) (*model.RecordResult, error)
	CheckInterest(ctx context.Context, actorId, targetId, kind string) (bool, error)
	ListReceived(ctx context.Context, callerId, targetId, kind string, cursor pagination.Cursor, limit int) (
		*model.InterestPage, error)
	ListSent(ctx context.Context, callerId, actorId, kind string, cursor pagination.Cursor, limit int) (
		*model.InterestPage, error)
	RemoveInterest(ctx context.Context, actorId, targetId, kind string) (bool, error)
	ListMatches(ctx context.Context, userId string) ([]model.MatchItem, error)
}

// EventEvaluator receives engagement that reached a managed account.
type EventEvaluator interface {
	EvaluateEvent(ctx context.Context, event autoModel.InboundEvent) (*autoModel.EvaluationOutcome, error)
}

// InterestService is the default implementation.
type InterestService struct {
	notifications   notificationService.NotificationServiceInterface
	evaluator       EventEvaluator
	retryPolicy     utils.RetryPolicy
	footprintWindow time.Duration
	now             func() time.Time
}

// NewInterestService wires the service. evaluator may be nil when no managed account reacts to
// interest.
func NewInterestService(notifications notificationService.NotificationServiceInterface, evaluator EventEvaluator,
	cfg config.InterestConfig) *InterestService {
	return &InterestService{
		notifications:   notifications,
		evaluator:       evaluator,
		retryPolicy:     utils.DefaultRetryPolicy(cfg.Retries()),
		footprintWindow: cfg.FootprintWindow(),
		now:             time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (is *InterestService) WithClock(now func() time.Time) *InterestService {
	is.now = now
	return is
}

// RecordInterest records a like, favorite or footprint from actorId to targetId and produces the
// resulting match and notifications.
func (is *InterestService) RecordInterest(ctx context.Context, actorId, targetId, kind string) (
	*model.RecordResult, error) {

	if err := validateInterest(actorId, targetId, kind); err != nil {
		return nil, err
	}

	var target *model.UserProfile
	err := utils.Retry(ctx, is.retryPolicy, "fetch-target-profile", func() error {
		var err error
		target, err = store.GetUserProfile(ctx, targetId)
		return err
	})
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors2.NewClientError(errors2.USER_NOT_FOUND.WithDescription(
			fmt.Sprintf("User %s does not exist.", targetId)), http.StatusNotFound)
	}

	now := is.now()
	edge := model.InterestEdge{
		EdgeId:    uuid.New().String(),
		ActorId:   actorId,
		TargetId:  targetId,
		Kind:      kind,
		CreatedAt: now.Unix(),
	}

	var result *model.RecordResult
	switch kind {
	case constants.InterestFootprint:
		result, err = is.recordFootprint(ctx, edge, now)
	case constants.InterestFavorite:
		result, err = is.recordEdge(ctx, edge)
	case constants.InterestLike:
		result, err = is.recordEdge(ctx, edge)
		if err == nil && result.Status == model.StatusCreated {
			result, err = is.resolveLike(ctx, edge, now)
		}
	}
	if err != nil {
		return nil, err
	}

	if target.IsManaged && result.Status != model.StatusAlreadyExists {
		is.notifyManagedAccount(ctx, edge, result.Status)
	}
	return result, nil
}

// recordEdge inserts a like or favorite edge. A retried insert that finds its own edge counts as
// created.
func (is *InterestService) recordEdge(ctx context.Context, edge model.InterestEdge) (*model.RecordResult, error) {

	created := false
	existingId := ""
	err := utils.Retry(ctx, is.retryPolicy, "add-interest-edge", func() error {
		inserted, err := store.AddInterestEdge(ctx, edge)
		if err != nil {
			return err
		}
		if inserted {
			created = true
			return nil
		}
		existingId, err = store.GetInterestEdgeId(ctx, edge.ActorId, edge.TargetId, edge.Kind)
		if err != nil {
			return err
		}
		created = existingId == edge.EdgeId
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !created {
		if existingId != "" {
			edge.EdgeId = existingId
		}
		return &model.RecordResult{Status: model.StatusAlreadyExists, Edge: edge}, nil
	}
	return &model.RecordResult{Status: model.StatusCreated, Edge: edge}, nil
}

// resolveLike runs the reciprocity check for a freshly inserted like. The match row of the pair is
// claimed with a single conditional insert; only the claiming request fans out notifications.
func (is *InterestService) resolveLike(ctx context.Context, edge model.InterestEdge, now time.Time) (
	*model.RecordResult, error) {

	logger := log.GetLogger()

	reciprocated := false
	err := utils.Retry(ctx, is.retryPolicy, "check-reverse-like", func() error {
		var err error
		reciprocated, err = store.InterestEdgeExists(ctx, edge.TargetId, edge.ActorId, constants.InterestLike)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !reciprocated {
		notification := notificationService.NewNotification(edge.TargetId, edge.ActorId,
			constants.NotificationLike, now)
		if _, err := is.notifications.CreateLikeNotification(ctx, notification); err != nil {
			return nil, err
		}
		return &model.RecordResult{Status: model.StatusCreated, Edge: edge}, nil
	}

	userLow, userHigh := notificationService.OrderedPair(edge.ActorId, edge.TargetId)
	owner := false
	err = utils.Retry(ctx, is.retryPolicy, "claim-match", func() error {
		claimed, err := store.ClaimMatch(ctx, userLow, userHigh, edge.EdgeId, now.Unix())
		if err != nil {
			return err
		}
		if claimed {
			owner = true
			return nil
		}
		claimEdge, err := store.GetMatchClaim(ctx, userLow, userHigh)
		if err != nil {
			return err
		}
		owner = claimEdge == edge.EdgeId
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &model.RecordResult{Status: model.StatusMatched, Edge: edge}
	if !owner {
		logger.Debug("Match of the pair was claimed by a concurrent request.",
			log.String("actorId", edge.ActorId), log.String("targetId", edge.TargetId))
		return result, nil
	}

	first := notificationService.NewNotification(edge.ActorId, edge.TargetId, constants.NotificationMatch, now)
	second := notificationService.NewNotification(edge.TargetId, edge.ActorId, constants.NotificationMatch, now)
	if err := is.notifications.CreateNotificationPair(ctx, first, second, constants.NotificationLike); err != nil {
		logger.Error("Match recorded but notifying the pair failed.", log.String("actorId", edge.ActorId),
			log.String("targetId", edge.TargetId), log.Error(err))
		return nil, errors2.NewServerError(errors2.MATCH_NOTIFY_PARTIAL.WithDescription(
			fmt.Sprintf("Match of %s and %s was recorded without notifications.", edge.ActorId, edge.TargetId)), err)
	}

	logger.Audit(log.AuditEvent{
		InitiatorID:   edge.ActorId,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      userLow + ":" + userHigh,
		TargetType:    log.TargetTypeMatch,
		ActionID:      log.ActionCreateMatch,
		TraceID:       reqcontext.GetTraceID(ctx),
		Data:          map[string]string{"edge_id": edge.EdgeId},
	})
	return result, nil
}

// recordFootprint refreshes the footprint of the current window or starts a new window with a
// footprint notification committed alongside the edge.
func (is *InterestService) recordFootprint(ctx context.Context, edge model.InterestEdge, now time.Time) (
	*model.RecordResult, error) {

	windowStart := now.Add(-is.footprintWindow).Unix()
	notification := notificationService.NewNotification(edge.TargetId, edge.ActorId,
		constants.NotificationFootprint, now)

	refreshed := false
	err := utils.Retry(ctx, is.retryPolicy, "record-footprint", func() error {
		var err error
		refreshed, err = store.RecordFootprint(ctx, edge, windowStart, func(tx client.Querier) error {
			return is.notifications.CreateNotificationInTx(ctx, tx, notification)
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if refreshed {
		return &model.RecordResult{Status: model.StatusAlreadyExists, Edge: edge, Refreshed: true}, nil
	}
	return &model.RecordResult{Status: model.StatusCreated, Edge: edge}, nil
}

// notifyManagedAccount hands the interest to the auto-responder. Failures never fail the
// interest itself.
func (is *InterestService) notifyManagedAccount(ctx context.Context, edge model.InterestEdge,
	status model.RecordStatus) {

	if is.evaluator == nil {
		return
	}

	event := autoModel.InboundEvent{
		AccountId:  edge.TargetId,
		SenderId:   edge.ActorId,
		OccurredAt: edge.CreatedAt,
	}
	switch {
	case status == model.StatusMatched:
		event.EventType = constants.ConditionMatchCreated
		event.EventValue = constants.NotificationMatch
	case edge.Kind == constants.InterestLike:
		event.EventType = constants.ConditionLikeReceived
		event.EventValue = constants.InterestLike
	case edge.Kind == constants.InterestFootprint:
		event.EventType = constants.ConditionProfileView
		event.EventValue = constants.InterestFootprint
	default:
		return
	}

	outcome, err := is.evaluator.EvaluateEvent(ctx, event)
	if err != nil {
		log.GetLogger().Warn("Auto-response evaluation failed for managed account.",
			log.String("accountId", event.AccountId), log.String("eventType", event.EventType), log.Error(err))
		return
	}
	log.GetLogger().Debug("Auto-response evaluated for managed account.", log.String("accountId", event.AccountId),
		log.String("eventType", event.EventType), log.String("stage", outcome.Stage))
}

// CheckInterest reports whether actorId has an interest of the kind towards targetId.
func (is *InterestService) CheckInterest(ctx context.Context, actorId, targetId, kind string) (bool, error) {

	if actorId == "" {
		return false, unauthenticated()
	}
	if err := validateKind(kind); err != nil {
		return false, err
	}
	return store.InterestEdgeExists(ctx, actorId, targetId, kind)
}

// ListReceived lists the interests of the kind other users showed towards targetId.
func (is *InterestService) ListReceived(ctx context.Context, callerId, targetId, kind string,
	cursor pagination.Cursor, limit int) (*model.InterestPage, error) {

	ownerId, err := resolveOwner(callerId, targetId, kind)
	if err != nil {
		return nil, err
	}
	limit = pagination.NormalizeLimit(limit)

	items, err := store.ListReceived(ctx, ownerId, kind, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	mutual, err := mutualLikes(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	return pageOf(items, limit, func(item model.InterestListItem) bool {
		return mutual[item.Edge.ActorId]
	}), nil
}

// ListSent lists the interests of the kind actorId showed towards other users.
func (is *InterestService) ListSent(ctx context.Context, callerId, actorId, kind string,
	cursor pagination.Cursor, limit int) (*model.InterestPage, error) {

	ownerId, err := resolveOwner(callerId, actorId, kind)
	if err != nil {
		return nil, err
	}
	limit = pagination.NormalizeLimit(limit)

	items, err := store.ListSent(ctx, ownerId, kind, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	mutual, err := mutualLikes(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	return pageOf(items, limit, func(item model.InterestListItem) bool {
		return mutual[item.Edge.TargetId]
	}), nil
}

// mutualLikes returns the users that like userId and are liked by userId, whatever kind of edge
// is being listed.
func mutualLikes(ctx context.Context, userId string) (map[string]bool, error) {

	liked, err := store.GetLikedTargets(ctx, userId)
	if err != nil {
		return nil, err
	}
	likedBy, err := store.GetLikingActors(ctx, userId)
	if err != nil {
		return nil, err
	}
	mutual := make(map[string]bool)
	for other := range liked {
		if likedBy[other] {
			mutual[other] = true
		}
	}
	return mutual, nil
}

func pageOf(items []model.InterestListItem, limit int, matched func(model.InterestListItem) bool) *model.InterestPage {

	page := &model.InterestPage{Pagination: pagination.Pagination{Limit: limit}}
	if len(items) > limit {
		items = items[:limit]
		last := items[limit-1].Edge
		page.Pagination.HasMore = true
		page.Pagination.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, Id: last.EdgeId})
	}
	for i := range items {
		items[i].IsMatched = matched(items[i])
	}
	page.Items = items
	return page
}

// RemoveInterest deletes the caller's interest of the kind towards targetId. It reports whether
// anything was removed.
func (is *InterestService) RemoveInterest(ctx context.Context, actorId, targetId, kind string) (bool, error) {

	if err := validateInterest(actorId, targetId, kind); err != nil {
		return false, err
	}

	userLow, userHigh := notificationService.OrderedPair(actorId, targetId)
	var removed int64
	err := utils.Retry(ctx, is.retryPolicy, "remove-interest", func() error {
		var err error
		removed, err = store.RemoveInterest(ctx, actorId, targetId, kind, userLow, userHigh)
		return err
	})
	if err != nil {
		return false, err
	}

	if removed > 0 {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorID:   actorId,
			InitiatorType: log.InitiatorTypeUser,
			TargetID:      targetId,
			TargetType:    log.TargetTypeUser,
			ActionID:      log.ActionRemoveInterest,
			TraceID:       reqcontext.GetTraceID(ctx),
			Data:          map[string]string{"kind": kind},
		})
	}
	return removed > 0, nil
}

// ListMatches returns everyone userId has matched with.
func (is *InterestService) ListMatches(ctx context.Context, userId string) ([]model.MatchItem, error) {

	if userId == "" {
		return nil, unauthenticated()
	}
	return store.ListMatches(ctx, userId)
}

func validateInterest(actorId, targetId, kind string) error {

	if actorId == "" {
		return unauthenticated()
	}
	if actorId == targetId {
		return errors2.NewClientError(errors2.SELF_INTEREST, http.StatusBadRequest)
	}
	if targetId == "" {
		return errors2.NewClientError(errors2.BAD_REQUEST.WithDescription("target_id is required."),
			http.StatusBadRequest)
	}
	return validateKind(kind)
}

func validateKind(kind string) error {

	if !constants.AllowedInterestKinds[kind] {
		return errors2.NewClientError(errors2.INVALID_INTEREST_KIND.WithDescription(
			fmt.Sprintf("Interest kind '%s' is not supported. Allowed values are like, favorite, footprint.", kind)),
			http.StatusBadRequest)
	}
	return nil
}

// resolveOwner returns the user whose list is read. Users may only read their own lists.
func resolveOwner(callerId, ownerId, kind string) (string, error) {

	if callerId == "" {
		return "", unauthenticated()
	}
	if ownerId == "" {
		ownerId = callerId
	}
	if ownerId != callerId {
		return "", errors2.NewClientError(errors2.FORBIDDEN.WithDescription(
			"Interest lists of other users cannot be read."), http.StatusForbidden)
	}
	return ownerId, validateKind(kind)
}

func unauthenticated() error {
	return errors2.NewClientError(errors2.UN_AUTHENTICATED, http.StatusUnauthorized)
}
