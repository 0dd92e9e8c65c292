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

package scripts

var GetUserProfile = portable(`SELECT user_id, display_name, age, location, avatar_url, is_managed, is_active, created_at
	FROM user_profiles WHERE user_id = $1`)

var UpsertUserProfile = portable(`INSERT INTO user_profiles
	(user_id, display_name, age, location, avatar_url, is_managed, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (user_id) DO UPDATE SET display_name = excluded.display_name, age = excluded.age,
	location = excluded.location, avatar_url = excluded.avatar_url, is_managed = excluded.is_managed,
	is_active = excluded.is_active`)

var InsertInterestEdge = portable(`INSERT INTO interest_edges (edge_id, actor_id, target_id, kind, created_at, window_start)
	VALUES ($1, $2, $3, $4, $5, $5) ON CONFLICT DO NOTHING`)

// Refreshes the footprint whose coalescing window, anchored at its first visit, is still open.
var RefreshFootprint = portable(`UPDATE interest_edges SET created_at = $1
	WHERE edge_id = (SELECT edge_id FROM interest_edges
		WHERE actor_id = $2 AND target_id = $3 AND kind = 'footprint' AND window_start >= $4
		ORDER BY window_start DESC LIMIT 1)`)

var InterestEdgeExists = portable(`SELECT COUNT(*) AS edges FROM interest_edges
	WHERE actor_id = $1 AND target_id = $2 AND kind = $3`)

var GetInterestEdgeId = portable(`SELECT edge_id FROM interest_edges
	WHERE actor_id = $1 AND target_id = $2 AND kind = $3 LIMIT 1`)

var DeleteInterestEdge = portable(`DELETE FROM interest_edges WHERE actor_id = $1 AND target_id = $2 AND kind = $3`)

var ListReceivedInterests = portable(`SELECT e.edge_id, e.actor_id, e.target_id, e.kind, e.created_at,
	p.user_id AS profile_id, p.display_name, p.age, p.location, p.avatar_url
	FROM interest_edges e LEFT JOIN user_profiles p ON p.user_id = e.actor_id
	WHERE e.target_id = $1 AND e.kind = $2
	AND (e.created_at < $3 OR (e.created_at = $3 AND e.edge_id < $4))
	ORDER BY e.created_at DESC, e.edge_id DESC LIMIT $5`)

var ListSentInterests = portable(`SELECT e.edge_id, e.actor_id, e.target_id, e.kind, e.created_at,
	p.user_id AS profile_id, p.display_name, p.age, p.location, p.avatar_url
	FROM interest_edges e LEFT JOIN user_profiles p ON p.user_id = e.target_id
	WHERE e.actor_id = $1 AND e.kind = $2
	AND (e.created_at < $3 OR (e.created_at = $3 AND e.edge_id < $4))
	ORDER BY e.created_at DESC, e.edge_id DESC LIMIT $5`)

// Outbound likes of a user, the set received listings are matched against.
var GetLikedTargets = portable(`SELECT target_id FROM interest_edges WHERE actor_id = $1 AND kind = 'like'`)

// Inbound likes of a user, the set sent listings are matched against.
var GetLikingActors = portable(`SELECT actor_id FROM interest_edges WHERE target_id = $1 AND kind = 'like'`)

var ClaimMatch = portable(`INSERT INTO matches (user_low, user_high, edge_id, created_at) VALUES ($1, $2, $3, $4)
	ON CONFLICT DO NOTHING`)

var GetMatchClaim = portable(`SELECT edge_id FROM matches WHERE user_low = $1 AND user_high = $2`)

var DeleteMatch = portable(`DELETE FROM matches WHERE user_low = $1 AND user_high = $2`)

var ListMatches = portable(`SELECT m.created_at,
	CASE WHEN m.user_low = $1 THEN m.user_high ELSE m.user_low END AS partner_id,
	p.user_id AS profile_id, p.display_name, p.age, p.location, p.avatar_url
	FROM matches m
	LEFT JOIN user_profiles p ON p.user_id = CASE WHEN m.user_low = $1 THEN m.user_high ELSE m.user_low END
	WHERE m.user_low = $1 OR m.user_high = $1
	ORDER BY m.created_at DESC`)
