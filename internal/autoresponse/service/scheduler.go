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

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/store"
	"github.com/wso2/engagement-service/internal/system/utils"
)

// Scheduler accepts a reply that must fire at or after job.FireAt.
type Scheduler interface {
	Schedule(ctx context.Context, job model.DispatchJob) error
}

// JobTableScheduler persists replies in the dispatch job table, which the dispatch scheduler
// polls. Delivery is at least once.
type JobTableScheduler struct {
	retryPolicy utils.RetryPolicy
}

func NewJobTableScheduler(retryPolicy utils.RetryPolicy) *JobTableScheduler {
	return &JobTableScheduler{retryPolicy: retryPolicy}
}

func (s *JobTableScheduler) Schedule(ctx context.Context, job model.DispatchJob) error {

	return utils.Retry(ctx, s.retryPolicy, "schedule-dispatch", func() error {
		err := store.AddDispatchJob(ctx, job)
		if err == nil {
			return nil
		}
		// An earlier attempt may have committed before failing to report it.
		existing, getErr := store.GetDispatchJob(ctx, job.JobId)
		if getErr == nil && existing != nil {
			return nil
		}
		return err
	})
}
