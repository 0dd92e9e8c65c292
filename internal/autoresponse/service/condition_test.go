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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/engagement-service/internal/autoresponse/model"
)

func TestMatchesCondition(t *testing.T) {
	cases := []struct {
		name      string
		condition model.Condition
		value     string
		want      bool
	}{
		{"empty value matches anything", model.Condition{Value: ""}, "whatever", true},
		{"equals ignores case", model.Condition{Value: "Hello", Operator: "equals"}, "hello", true},
		{"equals is the default", model.Condition{Value: "hello"}, "HELLO", true},
		{"equals needs the whole value", model.Condition{Value: "hello"}, "hello there", false},
		{"contains substring", model.Condition{Value: "hello", Operator: "contains"}, "Well, HELLO there", true},
		{"contains misses", model.Condition{Value: "hello", Operator: "contains"}, "good morning", false},
		{"greater than", model.Condition{Value: "10", Operator: "greater_than"}, "11", true},
		{"greater than is strict", model.Condition{Value: "10", Operator: "greater_than"}, "10", false},
		{"less than with decimals", model.Condition{Value: "2.5", Operator: "less_than"}, "2.25", true},
		{"numeric operator on text", model.Condition{Value: "10", Operator: "greater_than"}, "eleven", false},
		{"unknown operator", model.Condition{Value: "x", Operator: "regex"}, "x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesCondition(tc.condition, tc.value))
		})
	}
}

func TestDefaultRandomizerBounds(t *testing.T) {
	r := NewRandomizer()
	for i := 0; i < 1000; i++ {
		draw := r.Draw()
		assert.GreaterOrEqual(t, draw, 1)
		assert.LessOrEqual(t, draw, 100)

		pick := r.Pick(3)
		assert.GreaterOrEqual(t, pick, 0)
		assert.Less(t, pick, 3)
	}
}
