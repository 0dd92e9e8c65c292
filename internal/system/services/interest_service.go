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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/engagement-service/internal/interest/handler"
)

// InterestService routes /interests and /matches.
type InterestService struct {
	handler *handler.InterestHandler
}

func NewInterestService() *InterestService {
	return &InterestService{
		handler: handler.NewInterestHandler(),
	}
}

// Route dispatches interest requests. Paths arrive without the API base path.
func (s *InterestService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/interests":
		s.handler.RecordInterest(w, r)
	case method == http.MethodDelete && path == "/interests":
		s.handler.RemoveInterest(w, r)
	case method == http.MethodGet && path == "/interests/check":
		s.handler.CheckInterest(w, r)
	case method == http.MethodGet && path == "/interests/received":
		s.handler.ListReceived(w, r)
	case method == http.MethodGet && path == "/interests/sent":
		s.handler.ListSent(w, r)
	case method == http.MethodGet && path == "/matches":
		s.handler.ListMatches(w, r)
	default:
		http.NotFound(w, r)
	}
}
