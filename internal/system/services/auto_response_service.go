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

	"github.com/wso2/engagement-service/internal/autoresponse/handler"
)

// AutoResponseService routes /auto-response.
type AutoResponseService struct {
	handler *handler.AutoResponseHandler
}

func NewAutoResponseService() *AutoResponseService {
	return &AutoResponseService{
		handler: handler.NewAutoResponseHandler(),
	}
}

func (s *AutoResponseService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	// auto-response/<collection>[/<id>]
	pathParts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(pathParts) < 2 || len(pathParts) > 3 {
		http.NotFound(w, r)
		return
	}
	collection := pathParts[1]
	if len(pathParts) == 3 {
		r.SetPathValue("id", pathParts[2])
	}
	hasId := len(pathParts) == 3

	switch {
	case collection == "rules" && !hasId && method == http.MethodPost:
		s.handler.AddRule(w, r)
	case collection == "rules" && !hasId && method == http.MethodGet:
		s.handler.ListRules(w, r)
	case collection == "rules" && hasId && method == http.MethodGet:
		s.handler.GetRule(w, r)
	case collection == "rules" && hasId && method == http.MethodPut:
		s.handler.UpdateRule(w, r)
	case collection == "rules" && hasId && method == http.MethodPatch:
		s.handler.PatchRule(w, r)
	case collection == "rules" && hasId && method == http.MethodDelete:
		s.handler.DeleteRule(w, r)

	case collection == "templates" && !hasId && method == http.MethodPost:
		s.handler.AddTemplate(w, r)
	case collection == "templates" && !hasId && method == http.MethodGet:
		s.handler.ListTemplates(w, r)
	case collection == "templates" && hasId && method == http.MethodGet:
		s.handler.GetTemplate(w, r)
	case collection == "templates" && hasId && method == http.MethodPut:
		s.handler.UpdateTemplate(w, r)
	case collection == "templates" && hasId && method == http.MethodPatch:
		s.handler.PatchTemplate(w, r)
	case collection == "templates" && hasId && method == http.MethodDelete:
		s.handler.DeleteTemplate(w, r)

	case collection == "jobs" && !hasId && method == http.MethodGet:
		s.handler.ListJobs(w, r)
	case collection == "events" && !hasId && method == http.MethodPost:
		s.handler.SubmitEvent(w, r)

	default:
		http.NotFound(w, r)
	}
}
