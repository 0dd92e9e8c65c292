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
	"math/rand/v2"

	"github.com/wso2/engagement-service/internal/system/constants"
)

// Randomizer supplies the two random choices of an evaluation.
type Randomizer interface {
	// Draw returns a uniform integer in [1, 100].
	Draw() int
	// Pick returns a uniform index in [0, n).
	Pick(n int) int
}

type defaultRandomizer struct{}

func NewRandomizer() Randomizer {
	return defaultRandomizer{}
}

func (defaultRandomizer) Draw() int {
	return constants.MinRuleProbability + rand.IntN(constants.MaxRuleProbability)
}

func (defaultRandomizer) Pick(n int) int {
	return rand.IntN(n)
}
