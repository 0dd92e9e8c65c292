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

package security

import (
	"net/http"
	"strings"

	"github.com/wso2/engagement-service/internal/system/authn"
	"github.com/wso2/engagement-service/internal/system/authz"
	"github.com/wso2/engagement-service/internal/system/context"
	"github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

// AuthnAndAuthz authenticates the bearer token of the request and checks it grants the
// operation. It returns the caller's user id.
func AuthnAndAuthz(r *http.Request, operation string) (string, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.NewClientError(
			errors.UN_AUTHENTICATED.WithDescription("Missing or invalid Authorization header"),
			http.StatusUnauthorized)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	principal, err := authn.ValidateAuthenticationAndReturnPrincipal(token)
	if err != nil {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorID:   "unknown",
			InitiatorType: log.InitiatorTypeUser,
			TargetID:      r.URL.Path,
			TargetType:    log.TargetTypeUser,
			TraceID:       context.GetTraceID(r.Context()),
			ActionID:      log.ActionAuthenticationFailure,
		})
		return "", err
	}

	if !authz.ValidatePermission(principal.Scopes, operation) {
		return "", errors.NewClientError(errors.FORBIDDEN, http.StatusForbidden)
	}
	return principal.UserId, nil
}
