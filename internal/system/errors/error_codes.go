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

const errorPrefix = "ENG-"

var (
	// Server error codes

	ADD_INTEREST = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while recording interest.",
	}

	FETCH_INTERESTS = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching interests.",
	}

	DELETE_INTEREST = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while removing interest.",
	}

	CLAIM_MATCH = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while recording match.",
	}

	MATCH_NOTIFY_PARTIAL = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Match recorded but notifying the matched users failed.",
	}

	ADD_NOTIFICATION = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while creating notification.",
	}

	FETCH_NOTIFICATIONS = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while fetching notifications.",
	}

	UPDATE_NOTIFICATION = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while updating notification.",
	}

	ADD_AUTO_RESPONSE_RULE = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while adding auto-response rule.",
	}

	FETCH_AUTO_RESPONSE_RULES = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching auto-response rule(s).",
	}

	UPDATE_AUTO_RESPONSE_RULE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while updating auto-response rule.",
	}

	DELETE_AUTO_RESPONSE_RULE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while deleting auto-response rule.",
	}

	ADD_AUTO_RESPONSE_TEMPLATE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while adding auto-response template.",
	}

	FETCH_AUTO_RESPONSE_TEMPLATES = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while fetching auto-response template(s).",
	}

	UPDATE_AUTO_RESPONSE_TEMPLATE = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while updating auto-response template.",
	}

	DELETE_AUTO_RESPONSE_TEMPLATE = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while deleting auto-response template.",
	}

	SCHEDULE_DISPATCH = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while scheduling auto-response dispatch.",
	}

	FETCH_DISPATCH_JOBS = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while fetching auto-response dispatch jobs.",
	}

	UPDATE_DISPATCH_JOB = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while updating auto-response dispatch job.",
	}

	DISPATCH_FAILED = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Delivering the auto-response message failed.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15021",
		Message: "Unable to initialize database client.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15022",
		Message: "Advisory lock acquisition failed",
	}

	FETCH_USER_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15023",
		Message: "Error while fetching user profile.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15024",
		Message: "Error while marshalling JSON.",
	}

	// Client error codes
	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHENTICATED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthenticated",
		Description: "Authentication information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden",
		Description: "You do not have permission to perform this operation.",
	}

	SELF_INTEREST = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Invalid operation.",
		Description: "A user cannot record an interest towards themselves.",
	}

	INVALID_INTEREST_KIND = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Invalid interest kind.",
	}

	USER_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "User not found.",
	}

	NOTIFICATION_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Notification not found.",
	}

	AUTO_RESPONSE_RULE_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Auto-response rule validation failed.",
	}

	AUTO_RESPONSE_RULE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Auto-response rule not found.",
	}

	AUTO_RESPONSE_TEMPLATE_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Auto-response template validation failed.",
	}

	AUTO_RESPONSE_TEMPLATE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Auto-response template not found.",
	}

	AUTO_RESPONSE_TEMPLATE_IN_USE = ErrorMessage{
		Code:    errorPrefix + "11012",
		Message: "Auto-response template is referenced by a rule.",
	}

	INVALID_INBOUND_EVENT = ErrorMessage{
		Code:    errorPrefix + "11013",
		Message: "Invalid inbound event.",
	}

	MANAGED_ACCOUNT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11014",
		Message: "Managed account not found.",
	}

	INVALID_CURSOR = ErrorMessage{
		Code:    errorPrefix + "11015",
		Message: "Invalid pagination cursor.",
	}

	INVALID_LIMIT = ErrorMessage{
		Code:    errorPrefix + "11016",
		Message: "Invalid pagination limit.",
	}

	INVALID_JOB_STATUS = ErrorMessage{
		Code:    errorPrefix + "11017",
		Message: "Invalid dispatch job status.",
	}
)
