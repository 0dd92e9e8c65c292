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

package authn

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

// Principal is the identity carried by a verified bearer token.
type Principal struct {
	UserId string
	Scopes []string
}

// ValidateAuthenticationAndReturnPrincipal verifies an HS256 bearer token against the configured
// secret, issuer and audience. The `sub` claim is the caller's user id.
func ValidateAuthenticationAndReturnPrincipal(token string) (*Principal, error) {

	logger := log.GetLogger()
	authConfig := config.GetRuntime().Config.Auth
	if authConfig.JWTSecret == "" {
		logger.Error("No JWT signing secret is configured. Rejecting the request.")
		return nil, unauthenticatedError()
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if authConfig.Issuer != "" {
		options = append(options, jwt.WithIssuer(authConfig.Issuer))
	}
	if authConfig.Audience != "" {
		options = append(options, jwt.WithAudience(authConfig.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(authConfig.JWTSecret), nil
	}, options...)
	if err != nil {
		logger.Debug("Bearer token validation failed.", log.Error(err))
		return nil, unauthenticatedError()
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		logger.Debug("Token does not carry a subject.")
		return nil, unauthenticatedError()
	}

	return &Principal{
		UserId: subject,
		Scopes: scopesOf(claims),
	}, nil
}

// IssueToken signs a token for the given user. Used by tests and local tooling.
func IssueToken(secret, userId string, scopes []string, claims jwt.MapClaims) (string, error) {

	mapClaims := jwt.MapClaims{
		"sub":   userId,
		"scope": strings.Join(scopes, constants.SpaceSeparator),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func scopesOf(claims jwt.MapClaims) []string {
	switch scope := claims["scope"].(type) {
	case string:
		return strings.Fields(scope)
	case []interface{}:
		scopes := make([]string, 0, len(scope))
		for _, s := range scope {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}
		return scopes
	}
	return nil
}

func unauthenticatedError() error {
	return errors2.NewClientError(errors2.UN_AUTHENTICATED, http.StatusUnauthorized)
}
