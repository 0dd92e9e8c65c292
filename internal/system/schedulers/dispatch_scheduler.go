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

package schedulers

import (
	"context"
	"time"

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/store"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/log"
)

// JobQueue accepts claimed jobs for delivery.
type JobQueue interface {
	Enqueue(job model.DispatchJob) bool
}

// StartDispatchScheduler polls the job table until ctx ends, handing due jobs to queue.
func StartDispatchScheduler(ctx context.Context, queue JobQueue, cfg config.AutoResponderConfig) {

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	log.GetLogger().Info("Auto-response dispatch scheduler started.",
		log.String("interval", cfg.PollInterval().String()))

	for {
		PollDueJobs(ctx, queue, cfg, time.Now())
		select {
		case <-ctx.Done():
			log.GetLogger().Info("Auto-response dispatch scheduler stopped.")
			return
		case <-ticker.C:
		}
	}
}

// PollDueJobs claims one batch of due jobs and enqueues them. It returns how many were enqueued.
func PollDueJobs(ctx context.Context, queue JobQueue, cfg config.AutoResponderConfig, now time.Time) int {

	logger := log.GetLogger()

	jobs, err := store.ClaimDueDispatchJobs(ctx, now.Unix(), now.Add(cfg.ClaimLease()).Unix(), cfg.Batch())
	if err != nil {
		logger.Error("Failed to claim due auto-response jobs.", log.Error(err))
		return 0
	}

	enqueued := 0
	for _, job := range jobs {
		if !queue.Enqueue(job) {
			logger.Warn("Dispatch queue is full, job will be retried after its lease.",
				log.String("jobId", job.JobId))
			continue
		}
		enqueued++
	}
	if len(jobs) > 0 {
		logger.Debug("Claimed due auto-response jobs.", log.Int("claimed", len(jobs)), log.Int("enqueued", enqueued))
	}
	return enqueued
}
