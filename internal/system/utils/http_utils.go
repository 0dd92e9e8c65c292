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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wso2/engagement-service/internal/system/constants"
	"github.com/wso2/engagement-service/internal/system/context"
	customerrors "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error. Server errors are
// logged and reported without their cause.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {

	traceID := context.GetTraceID(r.Context())
	w.Header().Set("Content-Type", "application/json")

	var clientError *customerrors.ClientError
	if errors.As(err, &clientError) {
		body := clientError.ErrorMessage
		body.TraceID = traceID
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(body)
		return
	}

	logger := log.GetLogger()
	var serverError *customerrors.ServerError
	if errors.As(err, &serverError) {
		logger.Error(err.Error(), log.String("traceId", traceID))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(customerrors.ErrorMessage{
			Code:    serverError.Code,
			Message: serverError.Message,
			TraceID: traceID,
		})
		return
	}

	logger.Error("Unclassified error while serving request.", log.Error(err), log.String("traceId", traceID))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "Internal server error",
		"trace_id": traceID,
	})
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.GetLogger().Error("Failed to encode response body.", log.Error(err))
	}
}

// DecodeJSONBody decodes a request body strictly, reporting decode failures as a bad request.
func DecodeJSONBody(r *http.Request, v interface{}, resourceName string) error {

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return customerrors.NewClientError(
			customerrors.BAD_REQUEST.WithDescription(HandleDecodeError(err, resourceName)),
			http.StatusBadRequest)
	}
	return nil
}

// WithTraceID propagates the caller's X-Trace-Id, or a fresh one, through the request context.
func WithTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := strings.TrimSpace(r.Header.Get(constants.TraceIDHeader))
		if traceID == "" {
			traceID = context.GenerateTraceID()
		}
		w.Header().Set(constants.TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(context.WithTraceID(r.Context(), traceID)))
	})
}

// EnableCORS answers preflight requests and decorates responses for the allowed origins.
func EnableCORS(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+constants.TraceIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, "+constants.TraceIDHeader)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
