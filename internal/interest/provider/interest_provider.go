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

package provider

import (
	autoProvider "github.com/wso2/engagement-service/internal/autoresponse/provider"
	"github.com/wso2/engagement-service/internal/interest/service"
	notificationProvider "github.com/wso2/engagement-service/internal/notification/provider"
	"github.com/wso2/engagement-service/internal/system/config"
)

// InterestProviderInterface defines the interface for the interest provider.
type InterestProviderInterface interface {
	GetInterestService() service.InterestServiceInterface
}

// InterestProvider is the default implementation of the InterestProviderInterface.
type InterestProvider struct{}

// NewInterestProvider creates a new instance of InterestProvider.
func NewInterestProvider() InterestProviderInterface {
	return &InterestProvider{}
}

// GetInterestService returns the interest service wired to notifications and the auto-responder.
func (ip *InterestProvider) GetInterestService() service.InterestServiceInterface {
	return service.NewInterestService(
		notificationProvider.NewNotificationProvider().GetNotificationService(),
		autoProvider.NewAutoResponseProvider().GetAutoResponseService(),
		config.GetRuntime().Config.Interest,
	)
}
