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

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/database/lock"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

const claimLockKey = "auto-response-dispatch-claim"

// AddDispatchJob persists a scheduled reply.
func AddDispatchJob(ctx context.Context, job model.DispatchJob) error {

	dbClient, err := getDBClient("scheduling dispatch")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	_, err = dbClient.Execute(ctx, scripts.InsertDispatchJob[dbClient.DBType()], job.JobId, job.RuleId, job.TemplateId,
		job.AccountId, job.RecipientId, job.EventType, job.EventValue, job.Draw, job.FireAt, job.Status, job.Attempts,
		job.LastError, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return serverError(errors2.SCHEDULE_DISPATCH, fmt.Sprintf("Failed in scheduling dispatch job: %s", job.JobId), err)
	}
	return nil
}

// GetDispatchJob fetches a job. A missing job yields nil.
func GetDispatchJob(ctx context.Context, jobId string) (*model.DispatchJob, error) {

	dbClient, err := getDBClient("fetching dispatch job")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetDispatchJob[dbClient.DBType()], jobId)
	if err != nil {
		return nil, serverError(errors2.FETCH_DISPATCH_JOBS, fmt.Sprintf("Failed in fetching dispatch job: %s", jobId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	job := jobOf(results[0])
	return &job, nil
}

// ListDispatchJobs lists jobs of one status, earliest fire time first.
func ListDispatchJobs(ctx context.Context, status string, limit int) ([]model.DispatchJob, error) {

	dbClient, err := getDBClient("listing dispatch jobs")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListDispatchJobsByStatus[dbClient.DBType()], status, limit)
	if err != nil {
		return nil, serverError(errors2.FETCH_DISPATCH_JOBS, fmt.Sprintf("Failed in listing %s dispatch jobs", status), err)
	}
	return jobsOf(results), nil
}

// ClaimDueDispatchJobs takes up to limit jobs due at now and leases them until leaseUntil, so
// later polls skip them while they are in flight. A lease that runs out makes the job due again.
// On Postgres one claimer runs at a time across replicas; a busy claim returns no jobs.
func ClaimDueDispatchJobs(ctx context.Context, now, leaseUntil int64, limit int) ([]model.DispatchJob, error) {

	dbClient, err := getDBClient("claiming dispatch jobs")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return nil, serverError(errors2.FETCH_DISPATCH_JOBS, "Failed to begin transaction for dispatch claim", err)
	}
	defer func() { _ = tx.Rollback() }()

	acquired, err := lock.NewAdvisoryLock().TryAcquire(ctx, tx, claimLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		log.GetLogger().Debug("Dispatch claim is held by another instance, skipping.")
		return nil, nil
	}

	results, err := tx.ExecuteQuery(ctx, scripts.SelectDueDispatchJobs[tx.DBType()], now, limit)
	if err != nil {
		return nil, serverError(errors2.FETCH_DISPATCH_JOBS, "Failed in selecting due dispatch jobs", err)
	}
	jobs := jobsOf(results)
	for _, job := range jobs {
		if _, err := tx.Execute(ctx, scripts.LeaseDispatchJob[tx.DBType()], leaseUntil, now, job.JobId); err != nil {
			return nil, serverError(errors2.UPDATE_DISPATCH_JOB,
				fmt.Sprintf("Failed in leasing dispatch job: %s", job.JobId), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.UPDATE_DISPATCH_JOB, "Failed to commit dispatch claim", err)
	}
	return jobs, nil
}

// MarkDispatched records a confirmed delivery and counts the template use in the same
// transaction. It reports false when the job had already left the pending states.
func MarkDispatched(ctx context.Context, job model.DispatchJob, now int64) (bool, error) {

	dbClient, err := getDBClient("completing dispatch job")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return false, serverError(errors2.UPDATE_DISPATCH_JOB, "Failed to begin transaction for dispatch completion", err)
	}
	defer func() { _ = tx.Rollback() }()

	updated, err := tx.Execute(ctx, scripts.MarkDispatchJobDispatched[tx.DBType()], now, job.JobId)
	if err != nil {
		return false, serverError(errors2.UPDATE_DISPATCH_JOB,
			fmt.Sprintf("Failed in completing dispatch job: %s", job.JobId), err)
	}
	if updated == 0 {
		return false, nil
	}
	if _, err := tx.Execute(ctx, scripts.IncrementTemplateUseCount[tx.DBType()], job.TemplateId); err != nil {
		return false, serverError(errors2.UPDATE_DISPATCH_JOB,
			fmt.Sprintf("Failed in counting use of template: %s", job.TemplateId), err)
	}

	if err := tx.Commit(); err != nil {
		return false, serverError(errors2.UPDATE_DISPATCH_JOB, "Failed to commit dispatch completion", err)
	}
	return true, nil
}

// MarkFailed stores a failed attempt. status is failed while retries remain and dead afterwards.
func MarkFailed(ctx context.Context, jobId, status string, attempts int, lastError string, fireAt, now int64) (
	bool, error) {

	return updateJob(ctx, jobId, scripts.MarkDispatchJobFailed, status, attempts, lastError, fireAt, now, jobId)
}

// MarkCancelled retires a job whose rule, template or account no longer allows the reply.
func MarkCancelled(ctx context.Context, jobId, reason string, now int64) (bool, error) {

	return updateJob(ctx, jobId, scripts.MarkDispatchJobCancelled, reason, now, jobId)
}

func updateJob(ctx context.Context, jobId string, query map[string]string, args ...interface{}) (bool, error) {

	dbClient, err := getDBClient("updating dispatch job")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, query[dbClient.DBType()], args...)
	if err != nil {
		return false, serverError(errors2.UPDATE_DISPATCH_JOB, fmt.Sprintf("Failed in updating dispatch job: %s", jobId), err)
	}
	return updated > 0, nil
}

func jobsOf(results []map[string]interface{}) []model.DispatchJob {
	jobs := make([]model.DispatchJob, 0, len(results))
	for _, row := range results {
		jobs = append(jobs, jobOf(row))
	}
	return jobs
}

func jobOf(row map[string]interface{}) model.DispatchJob {
	return model.DispatchJob{
		JobId:       client.AsString(row["job_id"]),
		RuleId:      client.AsString(row["rule_id"]),
		TemplateId:  client.AsString(row["template_id"]),
		AccountId:   client.AsString(row["account_id"]),
		RecipientId: client.AsString(row["recipient_id"]),
		EventType:   client.AsString(row["event_type"]),
		EventValue:  client.AsString(row["event_value"]),
		Draw:        client.AsInt(row["draw"]),
		FireAt:      client.AsInt64(row["fire_at"]),
		Status:      client.AsString(row["status"]),
		Attempts:    client.AsInt(row["attempts"]),
		LastError:   client.AsString(row["last_error"]),
		CreatedAt:   client.AsInt64(row["created_at"]),
		UpdatedAt:   client.AsInt64(row["updated_at"]),
	}
}
