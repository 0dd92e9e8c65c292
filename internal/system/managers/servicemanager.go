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

package managers

import (
	"net/http"
	"strings"

	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts every API under apiBasePath and the probes at the root.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	interestService := services.NewInterestService()
	notificationService := services.NewNotificationService()
	autoResponseService := services.NewAutoResponseService()
	healthService := services.NewHealthService()

	dispatcher := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Internal path after base path stripping
		path := strings.TrimSuffix(r.URL.Path, "/")

		switch {
		case strings.HasPrefix(path, constants.InterestsApiPath), strings.HasPrefix(path, constants.MatchesApiPath):
			interestService.Route(w, r)
		case strings.HasPrefix(path, constants.NotificationsApiPath):
			notificationService.Route(w, r)
		case strings.HasPrefix(path, constants.AutoResponseApiPath):
			autoResponseService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	sm.mux.Handle(apiBasePath+"/", http.StripPrefix(apiBasePath, dispatcher))

	sm.mux.HandleFunc(constants.HealthApiPath, healthService.Route)
	sm.mux.HandleFunc("/ready", healthService.Route)
	return nil
}
