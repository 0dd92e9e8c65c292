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
	"github.com/wso2/engagement-service/internal/autoresponse/service"
)

// AutoResponseProviderInterface defines the interface for the auto-response provider.
type AutoResponseProviderInterface interface {
	GetAutoResponseService() service.AutoResponseServiceInterface
	GetDispatchService() service.DispatchServiceInterface
}

// AutoResponseProvider is the default implementation of the AutoResponseProviderInterface.
type AutoResponseProvider struct{}

// NewAutoResponseProvider creates a new instance of AutoResponseProvider.
func NewAutoResponseProvider() AutoResponseProviderInterface {
	return &AutoResponseProvider{}
}

// GetAutoResponseService returns the auto-response service instance.
func (ap *AutoResponseProvider) GetAutoResponseService() service.AutoResponseServiceInterface {
	return service.GetAutoResponseService()
}

// GetDispatchService returns the dispatch service instance.
func (ap *AutoResponseProvider) GetDispatchService() service.DispatchServiceInterface {
	return service.GetDispatchService()
}
