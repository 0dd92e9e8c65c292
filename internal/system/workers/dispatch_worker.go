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

package workers

import (
	"context"
	"sync"

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/autoresponse/service"
	"github.com/wso2/engagement-service/internal/system/log"
)

// DispatchWorker delivers claimed jobs one at a time from a buffered queue.
type DispatchWorker struct {
	queue      chan model.DispatchJob
	dispatcher service.DispatchServiceInterface
	mu         sync.RWMutex
	closed     bool
	done       chan struct{}
}

// StartDispatchWorker starts the worker goroutine. Jobs are dispatched with ctx.
func StartDispatchWorker(ctx context.Context, dispatcher service.DispatchServiceInterface,
	queueSize int) *DispatchWorker {

	worker := &DispatchWorker{
		queue:      make(chan model.DispatchJob, queueSize),
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}

	go func() {
		defer close(worker.done)
		for job := range worker.queue {
			if err := worker.dispatcher.DispatchJob(ctx, job); err != nil {
				log.GetLogger().Warn("Dispatch attempt did not complete.", log.String("jobId", job.JobId),
					log.Error(err))
			}
		}
	}()
	return worker
}

// Enqueue hands a job to the worker without blocking. It returns false when the queue is full
// or the worker stopped; the job then becomes due again once its lease runs out.
func (w *DispatchWorker) Enqueue(job model.DispatchJob) bool {

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- job:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for queued jobs to drain.
func (w *DispatchWorker) Stop() {

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}
