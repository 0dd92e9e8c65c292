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

package model

// AutoResponseRuleRequest is the body of rule create and replace calls. IsActive defaults to true.
type AutoResponseRuleRequest struct {
	Name         string    `json:"name"`
	Condition    Condition `json:"condition"`
	TemplateIds  []string  `json:"template_ids"`
	AccountIds   []string  `json:"account_ids"`
	DelaySeconds int64     `json:"delay_seconds"`
	Probability  int       `json:"probability"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

type AutoResponseTemplateRequest struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type ActivationPatch struct {
	IsActive *bool `json:"is_active"`
}

type DispatchJobList struct {
	Jobs []DispatchJob `json:"jobs"`
}
