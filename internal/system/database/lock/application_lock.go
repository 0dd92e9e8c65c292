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

package lock

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

// TxLock is a lock held for the lifetime of the transaction that took it.
type TxLock interface {
	Acquire(ctx context.Context, tx client.Querier, key string) error
	TryAcquire(ctx context.Context, tx client.Querier, key string) (bool, error)
}

// AdvisoryLock implements TxLock using PostgreSQL transaction level advisory locks. SQLite
// serializes writers itself, so on that dialect acquisition always succeeds.
type AdvisoryLock struct{}

func NewAdvisoryLock() *AdvisoryLock {
	return &AdvisoryLock{}
}

// PostgreSQL advisory locks take a bigint key.
func generateLockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}

// Acquire blocks until the lock for key is held by tx.
func (l *AdvisoryLock) Acquire(ctx context.Context, tx client.Querier, key string) error {

	if tx.DBType() != constants.DBTypePostgres {
		return nil
	}

	lockID := generateLockKey(key)
	if _, err := tx.ExecuteQuery(ctx, "SELECT pg_advisory_xact_lock($1)", lockID); err != nil {
		errorMsg := fmt.Sprintf("Failed to acquire advisory lock %d", lockID)
		log.GetLogger().Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), err)
	}
	return nil
}

// TryAcquire takes the lock for key without waiting and reports whether it is now held.
func (l *AdvisoryLock) TryAcquire(ctx context.Context, tx client.Querier, key string) (bool, error) {

	if tx.DBType() != constants.DBTypePostgres {
		return true, nil
	}

	logger := log.GetLogger()
	lockID := generateLockKey(key)
	logger.Debug(fmt.Sprintf("Generated lock Id: %d", lockID))

	results, err := tx.ExecuteQuery(ctx, "SELECT pg_try_advisory_xact_lock($1) AS acquired", lockID)
	if err != nil {
		errorMsg := "Failed to execute pg_try_advisory_xact_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), err)
	}

	if len(results) == 0 || results[0]["acquired"] == nil {
		errorMsg := fmt.Sprintf("pg_try_advisory_xact_lock returned no result for lock Id %d", lockID)
		logger.Error(errorMsg)
		return false, errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), nil)
	}

	return client.AsBool(results[0]["acquired"]), nil
}
