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

package store

import (
	"context"
	"fmt"

	"github.com/wso2/engagement-service/internal/interest/model"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/database/lock"
	"github.com/wso2/engagement-service/internal/system/database/provider"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
)

func getDBClient(purpose string) (client.DBClientInterface, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for %s", purpose)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}
	return dbClient, nil
}

func serverError(msg errors2.ErrorMessage, errorMsg string, err error) error {
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(msg.WithDescription(errorMsg), err)
}

// GetUserProfile fetches the profile projection of a user. A missing user yields nil.
func GetUserProfile(ctx context.Context, userId string) (*model.UserProfile, error) {

	dbClient, err := getDBClient("fetching user profile")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetUserProfile[dbClient.DBType()], userId)
	if err != nil {
		return nil, serverError(errors2.FETCH_USER_PROFILE,
			fmt.Sprintf("Failed in fetching profile of user: %s", userId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	row := results[0]
	return &model.UserProfile{
		ProfileSummary: model.ProfileSummary{
			UserId:      client.AsString(row["user_id"]),
			DisplayName: client.AsString(row["display_name"]),
			Age:         client.AsInt(row["age"]),
			Location:    client.AsString(row["location"]),
			AvatarURL:   client.AsString(row["avatar_url"]),
		},
		IsManaged: client.AsBool(row["is_managed"]),
		IsActive:  client.AsBool(row["is_active"]),
		CreatedAt: client.AsInt64(row["created_at"]),
	}, nil
}

// UpsertUserProfile writes the profile projection of a user.
func UpsertUserProfile(ctx context.Context, profile model.UserProfile) error {

	dbClient, err := getDBClient("writing user profile")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	_, err = dbClient.Execute(ctx, scripts.UpsertUserProfile[dbClient.DBType()], profile.UserId, profile.DisplayName,
		profile.Age, profile.Location, profile.AvatarURL, profile.IsManaged, profile.IsActive, profile.CreatedAt)
	if err != nil {
		return serverError(errors2.FETCH_USER_PROFILE,
			fmt.Sprintf("Failed in writing profile of user: %s", profile.UserId), err)
	}
	return nil
}

// AddInterestEdge inserts a like or favorite edge unless the same (actor, target, kind) exists.
// It reports whether a row was inserted.
func AddInterestEdge(ctx context.Context, edge model.InterestEdge) (bool, error) {

	dbClient, err := getDBClient("recording interest")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	inserted, err := dbClient.Execute(ctx, scripts.InsertInterestEdge[dbClient.DBType()], edge.EdgeId, edge.ActorId,
		edge.TargetId, edge.Kind, edge.CreatedAt)
	if err != nil {
		return false, serverError(errors2.ADD_INTEREST,
			fmt.Sprintf("Failed in recording %s from %s to %s", edge.Kind, edge.ActorId, edge.TargetId), err)
	}
	return inserted > 0, nil
}

// GetInterestEdgeId returns the id of the (actor, target, kind) edge, or "" when none exists.
func GetInterestEdgeId(ctx context.Context, actorId, targetId, kind string) (string, error) {

	dbClient, err := getDBClient("fetching interest")
	if err != nil {
		return "", err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetInterestEdgeId[dbClient.DBType()], actorId, targetId, kind)
	if err != nil {
		return "", serverError(errors2.FETCH_INTERESTS,
			fmt.Sprintf("Failed in fetching %s from %s to %s", kind, actorId, targetId), err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return client.AsString(results[0]["edge_id"]), nil
}

// InterestEdgeExists reports whether actor has an edge of the kind towards target.
func InterestEdgeExists(ctx context.Context, actorId, targetId, kind string) (bool, error) {

	dbClient, err := getDBClient("checking interest")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.InterestEdgeExists[dbClient.DBType()], actorId, targetId, kind)
	if err != nil {
		return false, serverError(errors2.FETCH_INTERESTS,
			fmt.Sprintf("Failed in checking %s from %s to %s", kind, actorId, targetId), err)
	}
	return len(results) > 0 && client.AsInt64(results[0]["edges"]) > 0, nil
}

// RecordFootprint refreshes the newest footprint of the ordered pair created at or after
// windowStart, or inserts edge when there is none. onCreated runs in the same transaction after an
// insert, so the footprint and its side effects commit together. Writers of one ordered pair are
// serialized on an advisory lock.
func RecordFootprint(ctx context.Context, edge model.InterestEdge, windowStart int64,
	onCreated func(tx client.Querier) error) (bool, error) {

	dbClient, err := getDBClient("recording footprint")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return false, serverError(errors2.ADD_INTEREST, "Failed to begin transaction for footprint", err)
	}
	defer func() { _ = tx.Rollback() }()

	pairKey := fmt.Sprintf("footprint:%s:%s", edge.ActorId, edge.TargetId)
	if err := lock.NewAdvisoryLock().Acquire(ctx, tx, pairKey); err != nil {
		return false, err
	}

	refreshed, err := tx.Execute(ctx, scripts.RefreshFootprint[tx.DBType()], edge.CreatedAt, edge.ActorId,
		edge.TargetId, windowStart)
	if err != nil {
		return false, serverError(errors2.ADD_INTEREST,
			fmt.Sprintf("Failed in refreshing footprint from %s to %s", edge.ActorId, edge.TargetId), err)
	}

	if refreshed == 0 {
		_, err = tx.Execute(ctx, scripts.InsertInterestEdge[tx.DBType()], edge.EdgeId, edge.ActorId, edge.TargetId,
			constants.InterestFootprint, edge.CreatedAt)
		if err != nil {
			return false, serverError(errors2.ADD_INTEREST,
				fmt.Sprintf("Failed in recording footprint from %s to %s", edge.ActorId, edge.TargetId), err)
		}
		if onCreated != nil {
			if err := onCreated(tx); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, serverError(errors2.ADD_INTEREST, "Failed to commit footprint", err)
	}
	return refreshed > 0, nil
}

// ClaimMatch inserts the match row of the unordered pair. Only one caller can insert it; the
// result reports whether this call did.
func ClaimMatch(ctx context.Context, userLow, userHigh, edgeId string, createdAt int64) (bool, error) {

	dbClient, err := getDBClient("recording match")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	inserted, err := dbClient.Execute(ctx, scripts.ClaimMatch[dbClient.DBType()], userLow, userHigh, edgeId, createdAt)
	if err != nil {
		return false, serverError(errors2.CLAIM_MATCH,
			fmt.Sprintf("Failed in recording match of %s and %s", userLow, userHigh), err)
	}
	return inserted > 0, nil
}

// GetMatchClaim returns the edge id that claimed the pair's match row, or "" when unmatched.
func GetMatchClaim(ctx context.Context, userLow, userHigh string) (string, error) {

	dbClient, err := getDBClient("fetching match")
	if err != nil {
		return "", err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetMatchClaim[dbClient.DBType()], userLow, userHigh)
	if err != nil {
		return "", serverError(errors2.CLAIM_MATCH,
			fmt.Sprintf("Failed in fetching match of %s and %s", userLow, userHigh), err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return client.AsString(results[0]["edge_id"]), nil
}

// RemoveInterest deletes the actor's edges of the kind towards target. Removing a like also
// removes the pair's match, which no longer holds.
func RemoveInterest(ctx context.Context, actorId, targetId, kind, userLow, userHigh string) (int64, error) {

	dbClient, err := getDBClient("removing interest")
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return 0, serverError(errors2.DELETE_INTEREST, "Failed to begin transaction for removing interest", err)
	}
	defer func() { _ = tx.Rollback() }()

	removed, err := tx.Execute(ctx, scripts.DeleteInterestEdge[tx.DBType()], actorId, targetId, kind)
	if err != nil {
		return 0, serverError(errors2.DELETE_INTEREST,
			fmt.Sprintf("Failed in removing %s from %s to %s", kind, actorId, targetId), err)
	}
	if removed > 0 && kind == constants.InterestLike {
		if _, err := tx.Execute(ctx, scripts.DeleteMatch[tx.DBType()], userLow, userHigh); err != nil {
			return 0, serverError(errors2.DELETE_INTEREST,
				fmt.Sprintf("Failed in removing match of %s and %s", userLow, userHigh), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, serverError(errors2.DELETE_INTEREST, "Failed to commit interest removal", err)
	}
	return removed, nil
}

// ListReceived returns edges of the kind pointing at targetId, newest first, joined with the actor's profile.
func ListReceived(ctx context.Context, targetId, kind string, cursor pagination.Cursor, limit int) (
	[]model.InterestListItem, error) {

	return listEdges(ctx, scripts.ListReceivedInterests, targetId, kind, cursor, limit)
}

// ListSent returns edges of the kind from actorId, newest first, joined with the target's profile.
func ListSent(ctx context.Context, actorId, kind string, cursor pagination.Cursor, limit int) (
	[]model.InterestListItem, error) {

	return listEdges(ctx, scripts.ListSentInterests, actorId, kind, cursor, limit)
}

func listEdges(ctx context.Context, query map[string]string, ownerId, kind string, cursor pagination.Cursor,
	limit int) ([]model.InterestListItem, error) {

	dbClient, err := getDBClient("listing interests")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	createdBefore, idBefore := cursor.Bound()
	results, err := dbClient.ExecuteQuery(ctx, query[dbClient.DBType()], ownerId, kind, createdBefore, idBefore, limit)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTERESTS, fmt.Sprintf("Failed in listing %s of %s", kind, ownerId), err)
	}

	items := make([]model.InterestListItem, 0, len(results))
	for _, row := range results {
		item := model.InterestListItem{
			Edge: model.InterestEdge{
				EdgeId:    client.AsString(row["edge_id"]),
				ActorId:   client.AsString(row["actor_id"]),
				TargetId:  client.AsString(row["target_id"]),
				Kind:      client.AsString(row["kind"]),
				CreatedAt: client.AsInt64(row["created_at"]),
			},
		}
		item.Counterpart = profileSummaryOf(row)
		items = append(items, item)
	}
	return items, nil
}

// GetLikedTargets returns the set of users actorId likes.
func GetLikedTargets(ctx context.Context, actorId string) (map[string]bool, error) {

	return userSet(ctx, scripts.GetLikedTargets, "target_id", actorId)
}

// GetLikingActors returns the set of users who like targetId.
func GetLikingActors(ctx context.Context, targetId string) (map[string]bool, error) {

	return userSet(ctx, scripts.GetLikingActors, "actor_id", targetId)
}

func userSet(ctx context.Context, query map[string]string, column, userId string) (map[string]bool, error) {

	dbClient, err := getDBClient("fetching likes")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, query[dbClient.DBType()], userId)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTERESTS, fmt.Sprintf("Failed in fetching likes of %s", userId), err)
	}
	set := make(map[string]bool, len(results))
	for _, row := range results {
		set[client.AsString(row[column])] = true
	}
	return set, nil
}

// ListMatches returns the partners userId has matched with, newest first.
func ListMatches(ctx context.Context, userId string) ([]model.MatchItem, error) {

	dbClient, err := getDBClient("listing matches")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListMatches[dbClient.DBType()], userId)
	if err != nil {
		return nil, serverError(errors2.FETCH_INTERESTS, fmt.Sprintf("Failed in listing matches of %s", userId), err)
	}

	matches := make([]model.MatchItem, 0, len(results))
	for _, row := range results {
		matches = append(matches, model.MatchItem{
			PartnerId: client.AsString(row["partner_id"]),
			Partner:   profileSummaryOf(row),
			MatchedAt: client.AsInt64(row["created_at"]),
		})
	}
	return matches, nil
}

// profileSummaryOf reads the left joined profile columns. Users without a profile row yield nil.
func profileSummaryOf(row map[string]interface{}) *model.ProfileSummary {
	if row["profile_id"] == nil {
		return nil
	}
	return &model.ProfileSummary{
		UserId:      client.AsString(row["profile_id"]),
		DisplayName: client.AsString(row["display_name"]),
		Age:         client.AsInt(row["age"]),
		Location:    client.AsString(row["location"]),
		AvatarURL:   client.AsString(row["avatar_url"]),
	}
}
