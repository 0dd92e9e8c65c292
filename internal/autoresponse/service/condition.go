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
	"strconv"
	"strings"

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/system/constants"
)

// MatchesCondition evaluates a rule condition against the value of an inbound event. The event
// type is not checked here. An empty condition value accepts every value. equals and contains
// ignore case; greater_than and less_than compare numerically and never match non-numbers.
func MatchesCondition(condition model.Condition, eventValue string) bool {

	expected := strings.TrimSpace(condition.Value)
	if expected == "" {
		return true
	}
	actual := strings.TrimSpace(eventValue)

	switch operatorOf(condition) {
	case constants.OperatorEquals:
		return strings.EqualFold(actual, expected)
	case constants.OperatorContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	case constants.OperatorGreaterThan, constants.OperatorLessThan:
		left, err := strconv.ParseFloat(actual, 64)
		if err != nil {
			return false
		}
		right, err := strconv.ParseFloat(expected, 64)
		if err != nil {
			return false
		}
		if operatorOf(condition) == constants.OperatorGreaterThan {
			return left > right
		}
		return left < right
	}
	return false
}

func operatorOf(condition model.Condition) string {
	if condition.Operator == "" {
		return constants.OperatorEquals
	}
	return condition.Operator
}
