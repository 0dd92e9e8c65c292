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

package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

// RetryPolicy bounds the automatic retry of an idempotent store step.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns a policy with the given retry count and short store-level delays.
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:      maxRetries,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Retry runs op until it succeeds, fails with a client error, the context ends or the retry
// budget is spent. Only idempotent steps may be passed here.
func Retry(ctx context.Context, policy RetryPolicy, name string, op func() error) error {

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = policy.InitialInterval
	expBackoff.MaxInterval = policy.MaxInterval
	expBackoff.MaxElapsedTime = 0

	var b backoff.BackOff = backoff.WithMaxRetries(expBackoff, uint64(max(policy.MaxRetries, 0)))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if errors.IsClientError(err) {
			return backoff.Permanent(err)
		}
		log.GetLogger().Warn("Store step failed, retrying.", log.String("step", name),
			log.Int("attempt", attempt), log.Error(err))
		return err
	}, b)
}

// NextDelay returns the exponential delay before the given (1 based) retry attempt, capped at max.
func NextDelay(attempt int, initial, maxDelay time.Duration) time.Duration {

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = initial
	expBackoff.MaxInterval = maxDelay
	expBackoff.RandomizationFactor = 0
	expBackoff.MaxElapsedTime = 0
	expBackoff.Reset()

	delay := expBackoff.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = expBackoff.NextBackOff()
	}
	return delay
}
