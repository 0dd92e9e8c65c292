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

package errors

import (
	"errors"
	"fmt"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

// ClientError is returned for caller mistakes. It is never retried.
type ClientError struct {
	ErrorMessage
	StatusCode int
}

// ServerError wraps a failure of the store or of an outbound collaborator.
type ServerError struct {
	ErrorMessage
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

func NewServerErrorWithTraceID(msg ErrorMessage, cause error, traceID string) *ServerError {
	msg.TraceID = traceID
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientErrorWithTraceID(msg ErrorMessage, code int, traceID string) *ClientError {
	msg.TraceID = traceID
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// WithDescription returns a copy of the catalog message carrying a request specific description.
func (m ErrorMessage) WithDescription(description string) ErrorMessage {
	m.Description = description
	return m
}

// IsClientError reports whether err is, or wraps, a ClientError.
func IsClientError(err error) bool {
	var clientError *ClientError
	return errors.As(err, &clientError)
}

// IsServerError reports whether err is, or wraps, a ServerError.
func IsServerError(err error) bool {
	var serverError *ServerError
	return errors.As(err, &serverError)
}

// HasCode reports whether err carries the code of the given catalog message.
func HasCode(err error, msg ErrorMessage) bool {
	var clientError *ClientError
	if errors.As(err, &clientError) {
		return clientError.Code == msg.Code
	}
	var serverError *ServerError
	if errors.As(err, &serverError) {
		return serverError.Code == msg.Code
	}
	return false
}
