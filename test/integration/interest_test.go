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

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	interestModel "github.com/wso2/engagement-service/internal/interest/model"
	interestProvider "github.com/wso2/engagement-service/internal/interest/provider"
	interestStore "github.com/wso2/engagement-service/internal/interest/store"
	notificationService "github.com/wso2/engagement-service/internal/notification/service"
	notificationStore "github.com/wso2/engagement-service/internal/notification/store"
	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/lock"
	"github.com/wso2/engagement-service/internal/system/database/provider"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	"github.com/wso2/engagement-service/internal/system/pagination"
)

func newUser(t *testing.T, managed bool) string {
	userId := "user-" + uuid.New().String()
	require.NoError(t, interestStore.UpsertUserProfile(context.Background(), interestModel.UserProfile{
		ProfileSummary: interestModel.ProfileSummary{UserId: userId, DisplayName: userId},
		IsManaged:      managed,
		IsActive:       true,
		CreatedAt:      time.Now().Unix(),
	}))
	return userId
}

func Test_Interests(t *testing.T) {
	svc := interestProvider.NewInterestProvider().GetInterestService()
	ctx := context.Background()
	alice, bob := newUser(t, false), newUser(t, false)

	t.Run("Single_like_notifies_target", func(t *testing.T) {
		result, err := svc.RecordInterest(ctx, alice, bob, constants.InterestLike)
		require.NoError(t, err)
		assert.Equal(t, interestModel.StatusCreated, result.Status)

		likes, err := notificationStore.CountByType(ctx, bob, constants.NotificationLike)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)
	})

	t.Run("Reciprocal_like_matches", func(t *testing.T) {
		result, err := svc.RecordInterest(ctx, bob, alice, constants.InterestLike)
		require.NoError(t, err)
		assert.Equal(t, interestModel.StatusMatched, result.Status)

		for _, userId := range []string{alice, bob} {
			matchCount, err := notificationStore.CountByType(ctx, userId, constants.NotificationMatch)
			require.NoError(t, err)
			assert.Equal(t, int64(1), matchCount)
			likeCount, err := notificationStore.CountByType(ctx, userId, constants.NotificationLike)
			require.NoError(t, err)
			assert.Equal(t, int64(0), likeCount)
		}
	})

	t.Run("Received_list_marks_match", func(t *testing.T) {
		page, err := svc.ListReceived(ctx, alice, "", constants.InterestLike, pagination.Start, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.True(t, page.Items[0].IsMatched)
	})

	t.Run("Footprints_coalesce", func(t *testing.T) {
		first, err := svc.RecordInterest(ctx, alice, bob, constants.InterestFootprint)
		require.NoError(t, err)
		assert.Equal(t, interestModel.StatusCreated, first.Status)

		second, err := svc.RecordInterest(ctx, alice, bob, constants.InterestFootprint)
		require.NoError(t, err)
		assert.Equal(t, interestModel.StatusAlreadyExists, second.Status)

		footprints, err := notificationStore.CountByType(ctx, bob, constants.NotificationFootprint)
		require.NoError(t, err)
		assert.Equal(t, int64(1), footprints)
	})
}

func Test_ConcurrentOppositeLikes(t *testing.T) {
	svc := interestProvider.NewInterestProvider().GetInterestService()
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		a, b := newUser(t, false), newUser(t, false)

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, pair := range [][2]string{{a, b}, {b, a}} {
			wg.Add(1)
			go func(actor, target string) {
				defer wg.Done()
				_, err := svc.RecordInterest(ctx, actor, target, constants.InterestLike)
				errs <- err
			}(pair[0], pair[1])
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		for _, userId := range []string{a, b} {
			matchCount, err := notificationStore.CountByType(ctx, userId, constants.NotificationMatch)
			require.NoError(t, err)
			assert.Equal(t, int64(1), matchCount, "round %d", round)

			matches, err := svc.ListMatches(ctx, userId)
			require.NoError(t, err)
			assert.Len(t, matches, 1, "round %d", round)

			likeCount, err := notificationStore.CountByType(ctx, userId, constants.NotificationLike)
			require.NoError(t, err)
			assert.Equal(t, int64(0), likeCount, "round %d", round)
		}
	}
}

func Test_LikeNotificationWaitsForMatchFanOut(t *testing.T) {
	ctx := context.Background()
	alice, bob := newUser(t, false), newUser(t, false)
	userLow, userHigh := notificationService.OrderedPair(alice, bob)

	dbClient, err := provider.NewDBProvider().GetDBClient()
	require.NoError(t, err)
	defer dbClient.Close()
	tx, err := dbClient.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	require.NoError(t, lock.NewAdvisoryLock().Acquire(ctx, tx, notificationStore.PairLockKey(userLow, userHigh)))

	written := make(chan bool, 1)
	go func() {
		like := notificationService.NewNotification(bob, alice, constants.NotificationLike, time.Now())
		inserted, err := notificationStore.AddNotificationUnlessMatched(ctx, like, userLow, userHigh)
		assert.NoError(t, err)
		written <- inserted
	}()

	select {
	case <-written:
		t.Fatal("like notification was written while the pair lock was held")
	case <-time.After(300 * time.Millisecond):
	}

	_, err = tx.Execute(ctx, scripts.ClaimMatch[tx.DBType()], userLow, userHigh, uuid.New().String(), time.Now().Unix())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	select {
	case inserted := <-written:
		assert.False(t, inserted)
	case <-time.After(10 * time.Second):
		t.Fatal("like notification insert did not finish")
	}
	likes, err := notificationStore.CountByType(ctx, bob, constants.NotificationLike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
}

func Test_ConcurrentFootprints(t *testing.T) {
	svc := interestProvider.NewInterestProvider().GetInterestService()
	ctx := context.Background()
	visitor, host := newUser(t, false), newUser(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordInterest(ctx, visitor, host, constants.InterestFootprint)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	footprints, err := notificationStore.CountByType(ctx, host, constants.NotificationFootprint)
	require.NoError(t, err)
	assert.Equal(t, int64(1), footprints)
}
