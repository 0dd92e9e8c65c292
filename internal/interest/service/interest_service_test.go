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
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	autoModel "github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/interest/model"
	"github.com/wso2/engagement-service/internal/interest/store"
	notificationService "github.com/wso2/engagement-service/internal/notification/service"
	notificationStore "github.com/wso2/engagement-service/internal/notification/store"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
	"github.com/wso2/engagement-service/internal/system/pagination"
	"github.com/wso2/engagement-service/internal/system/utils"
	"github.com/wso2/engagement-service/test/setup"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type recordingEvaluator struct {
	mu     sync.Mutex
	events []autoModel.InboundEvent
}

func (e *recordingEvaluator) EvaluateEvent(_ context.Context, event autoModel.InboundEvent) (
	*autoModel.EvaluationOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return &autoModel.EvaluationOutcome{Stage: constants.StageNoMatch}, nil
}

type fixture struct {
	svc       *InterestService
	evaluator *recordingEvaluator
	now       time.Time
}

func newFixture(t *testing.T, users ...string) *fixture {
	setup.SetupTestSQLite(t)

	f := &fixture{evaluator: &recordingEvaluator{}, now: time.Unix(1_700_000_000, 0)}
	notifications := notificationService.NewNotificationServiceWithPolicy(utils.DefaultRetryPolicy(1))
	f.svc = NewInterestService(notifications, f.evaluator, config.InterestConfig{StoreRetries: 1}).
		WithClock(func() time.Time { return f.now })

	for _, userId := range users {
		seedProfile(t, userId, false)
	}
	return f
}

func seedProfile(t *testing.T, userId string, managed bool) {
	require.NoError(t, store.UpsertUserProfile(context.Background(), model.UserProfile{
		ProfileSummary: model.ProfileSummary{UserId: userId, DisplayName: "User " + userId, Age: 30},
		IsManaged:      managed,
		IsActive:       true,
		CreatedAt:      1_600_000_000,
	}))
}

func countOf(t *testing.T, recipientId, notificationType string) int64 {
	count, err := notificationStore.CountByType(context.Background(), recipientId, notificationType)
	require.NoError(t, err)
	return count
}

func TestRecordInterest_SingleLikeNotifiesTarget(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	result, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, result.Status)
	assert.Equal(t, "alice", result.Edge.ActorId)

	assert.Equal(t, int64(1), countOf(t, "bob", constants.NotificationLike))
	assert.Equal(t, int64(0), countOf(t, "alice", constants.NotificationLike))

	liked, err := f.svc.CheckInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.True(t, liked)

	likedBack, err := f.svc.CheckInterest(ctx, "bob", "alice", constants.InterestLike)
	require.NoError(t, err)
	assert.False(t, likedBack)
}

func TestRecordInterest_MutualLikesCreateOneMatch(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)

	result, err := f.svc.RecordInterest(ctx, "bob", "alice", constants.InterestLike)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMatched, result.Status)

	for _, userId := range []string{"alice", "bob"} {
		assert.Equal(t, int64(1), countOf(t, userId, constants.NotificationMatch), userId)
		assert.Equal(t, int64(0), countOf(t, userId, constants.NotificationLike), userId)

		matches, err := f.svc.ListMatches(ctx, userId)
		require.NoError(t, err)
		require.Len(t, matches, 1)
	}

	matches, err := f.svc.ListMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", matches[0].PartnerId)
}

func TestRecordInterest_RepeatedLikeIsIdempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	first, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)

	second, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAlreadyExists, second.Status)
	assert.Equal(t, first.Edge.EdgeId, second.Edge.EdgeId)
	assert.Equal(t, int64(1), countOf(t, "bob", constants.NotificationLike))
}

func TestRecordInterest_RepeatedLikeAfterMatchChangesNothing(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "bob", "alice", constants.InterestLike)
	require.NoError(t, err)

	again, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAlreadyExists, again.Status)
	assert.Equal(t, int64(1), countOf(t, "alice", constants.NotificationMatch))
	assert.Equal(t, int64(1), countOf(t, "bob", constants.NotificationMatch))
}

func TestRecordInterest_FavoriteNeverNotifies(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	result, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestFavorite)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, result.Status)

	unread, err := notificationStore.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestRecordInterest_FootprintCoalescesWithinWindow(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	first, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestFootprint)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, first.Status)

	f.now = f.now.Add(2 * time.Hour)
	second, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestFootprint)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAlreadyExists, second.Status)
	assert.True(t, second.Refreshed)
	assert.Equal(t, int64(1), countOf(t, "bob", constants.NotificationFootprint))

	// The window is anchored at the first visit, so refreshes do not extend it.
	f.now = f.now.Add(23 * time.Hour)
	third, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestFootprint)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, third.Status)
	assert.Equal(t, int64(2), countOf(t, "bob", constants.NotificationFootprint))

	page, err := f.svc.ListReceived(ctx, "bob", "", constants.InterestFootprint, pagination.Start, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestRecordInterest_SelfInterestRejectedForEveryKind(t *testing.T) {
	f := newFixture(t, "alice")

	for _, kind := range []string{constants.InterestLike, constants.InterestFavorite, constants.InterestFootprint} {
		_, err := f.svc.RecordInterest(context.Background(), "alice", "alice", kind)
		require.Error(t, err, kind)
		assert.True(t, errors2.HasCode(err, errors2.SELF_INTEREST), kind)

		var clientError *errors2.ClientError
		require.ErrorAs(t, err, &clientError)
		assert.Equal(t, http.StatusBadRequest, clientError.StatusCode)
	}
}

func TestRecordInterest_Validation(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "", "bob", constants.InterestLike)
	assert.True(t, errors2.HasCode(err, errors2.UN_AUTHENTICATED))

	_, err = f.svc.RecordInterest(ctx, "alice", "bob", "wink")
	assert.True(t, errors2.HasCode(err, errors2.INVALID_INTEREST_KIND))

	_, err = f.svc.RecordInterest(ctx, "alice", "nobody", constants.InterestLike)
	assert.True(t, errors2.HasCode(err, errors2.USER_NOT_FOUND))

	_, err = f.svc.RecordInterest(ctx, "alice", "", constants.InterestLike)
	assert.True(t, errors2.HasCode(err, errors2.BAD_REQUEST))
}

func TestRecordInterest_ConcurrentOppositeLikes(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*model.RecordResult, 2)
	errs := make([]error, 2)
	pairs := [][2]string{{"alice", "bob"}, {"bob", "alice"}}
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, actor, target string) {
			defer wg.Done()
			results[i], errs[i] = f.svc.RecordInterest(ctx, actor, target, constants.InterestLike)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	matched := 0
	for _, result := range results {
		if result.Status == model.StatusMatched {
			matched++
		}
	}
	assert.GreaterOrEqual(t, matched, 1)

	for _, userId := range []string{"alice", "bob"} {
		assert.Equal(t, int64(1), countOf(t, userId, constants.NotificationMatch), userId)
		assert.Equal(t, int64(0), countOf(t, userId, constants.NotificationLike), userId)
	}
}

func TestListReceived_MarksMatchedAndPaginates(t *testing.T) {
	f := newFixture(t, "owner", "u1", "u2", "u3")
	ctx := context.Background()

	for _, actor := range []string{"u1", "u2", "u3"} {
		_, err := f.svc.RecordInterest(ctx, actor, "owner", constants.InterestLike)
		require.NoError(t, err)
		f.now = f.now.Add(time.Second)
	}
	_, err := f.svc.RecordInterest(ctx, "owner", "u2", constants.InterestLike)
	require.NoError(t, err)

	page, err := f.svc.ListReceived(ctx, "owner", "", constants.InterestLike, pagination.Start, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Pagination.HasMore)
	assert.NotEmpty(t, page.Pagination.NextCursor)
	assert.Equal(t, "u3", page.Items[0].Edge.ActorId)
	assert.False(t, page.Items[0].IsMatched)
	assert.Equal(t, "u2", page.Items[1].Edge.ActorId)
	assert.True(t, page.Items[1].IsMatched)
	require.NotNil(t, page.Items[1].Counterpart)
	assert.Equal(t, "User u2", page.Items[1].Counterpart.DisplayName)

	cursor, err := pagination.DecodeCursor(page.Pagination.NextCursor)
	require.NoError(t, err)
	next, err := f.svc.ListReceived(ctx, "owner", "", constants.InterestLike, cursor, 2)
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "u1", next.Items[0].Edge.ActorId)
	assert.False(t, next.Pagination.HasMore)

	sent, err := f.svc.ListSent(ctx, "owner", "owner", constants.InterestLike, pagination.Start, 10)
	require.NoError(t, err)
	require.Len(t, sent.Items, 1)
	assert.True(t, sent.Items[0].IsMatched)
}

func TestListInterests_MatchedPairIsMarkedForEveryKind(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "bob", "alice", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "alice", "carol", constants.InterestLike)
	require.NoError(t, err)
	for _, target := range []string{"bob", "carol"} {
		_, err = f.svc.RecordInterest(ctx, "alice", target, constants.InterestFootprint)
		require.NoError(t, err)
		_, err = f.svc.RecordInterest(ctx, "alice", target, constants.InterestFavorite)
		require.NoError(t, err)
	}

	footprints, err := f.svc.ListReceived(ctx, "bob", "", constants.InterestFootprint, pagination.Start, 10)
	require.NoError(t, err)
	require.Len(t, footprints.Items, 1)
	assert.True(t, footprints.Items[0].IsMatched)

	favorites, err := f.svc.ListSent(ctx, "alice", "", constants.InterestFavorite, pagination.Start, 10)
	require.NoError(t, err)
	require.Len(t, favorites.Items, 2)
	matched := map[string]bool{}
	for _, item := range favorites.Items {
		matched[item.Edge.TargetId] = item.IsMatched
	}
	assert.Equal(t, map[string]bool{"bob": true, "carol": false}, matched)

	carolFootprints, err := f.svc.ListReceived(ctx, "carol", "", constants.InterestFootprint, pagination.Start, 10)
	require.NoError(t, err)
	require.Len(t, carolFootprints.Items, 1)
	assert.False(t, carolFootprints.Items[0].IsMatched)
}

func TestListReceived_OtherUsersListIsForbidden(t *testing.T) {
	f := newFixture(t, "alice", "bob")

	_, err := f.svc.ListReceived(context.Background(), "alice", "bob", constants.InterestLike, pagination.Start, 10)
	assert.True(t, errors2.HasCode(err, errors2.FORBIDDEN))
}

func TestRemoveInterest_DropsMatch(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "bob", "alice", constants.InterestLike)
	require.NoError(t, err)

	removed, err := f.svc.RemoveInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.True(t, removed)

	matches, err := f.svc.ListMatches(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, matches)

	removed, err = f.svc.RemoveInterest(ctx, "alice", "bob", constants.InterestLike)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRecordInterest_ManagedTargetIsEvaluated(t *testing.T) {
	f := newFixture(t, "alice")
	seedProfile(t, "managed-1", true)
	ctx := context.Background()

	_, err := f.svc.RecordInterest(ctx, "alice", "managed-1", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "alice", "managed-1", constants.InterestLike)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "alice", "managed-1", constants.InterestFootprint)
	require.NoError(t, err)
	_, err = f.svc.RecordInterest(ctx, "alice", "managed-1", constants.InterestFavorite)
	require.NoError(t, err)

	require.Len(t, f.evaluator.events, 2)
	assert.Equal(t, constants.ConditionLikeReceived, f.evaluator.events[0].EventType)
	assert.Equal(t, "alice", f.evaluator.events[0].SenderId)
	assert.Equal(t, "managed-1", f.evaluator.events[0].AccountId)
	assert.Equal(t, constants.ConditionProfileView, f.evaluator.events[1].EventType)
}
