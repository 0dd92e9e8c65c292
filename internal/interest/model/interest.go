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

import "github.com/wso2/engagement-service/internal/system/pagination"

type RecordStatus string

const (
	StatusCreated       RecordStatus = "created"
	StatusAlreadyExists RecordStatus = "already_exists"
	StatusMatched       RecordStatus = "matched"
)

// InterestEdge is a directed like, favorite or footprint from Actor to Target.
type InterestEdge struct {
	EdgeId    string `json:"edge_id"`
	ActorId   string `json:"actor_id"`
	TargetId  string `json:"target_id"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
}

// RecordResult reports what recording an interest did. Refreshed is set when a footprint inside
// the coalescing window only had its timestamp moved.
type RecordResult struct {
	Status    RecordStatus `json:"status"`
	Edge      InterestEdge `json:"edge"`
	Refreshed bool         `json:"refreshed,omitempty"`
}

// ProfileSummary is the public projection of a user shown next to an interest.
type ProfileSummary struct {
	UserId      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Age         int    `json:"age,omitempty"`
	Location    string `json:"location,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// UserProfile is the stored projection, including the managed and active flags.
type UserProfile struct {
	ProfileSummary
	IsManaged bool  `json:"is_managed"`
	IsActive  bool  `json:"is_active"`
	CreatedAt int64 `json:"created_at"`
}

type InterestListItem struct {
	Edge        InterestEdge    `json:"edge"`
	Counterpart *ProfileSummary `json:"counterpart,omitempty"`
	IsMatched   bool            `json:"is_matched"`
}

type InterestPage struct {
	Items      []InterestListItem    `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}

type MatchItem struct {
	PartnerId string          `json:"partner_id"`
	Partner   *ProfileSummary `json:"partner,omitempty"`
	MatchedAt int64           `json:"matched_at"`
}
