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

package store

import (
	"context"
	"fmt"

	"github.com/wso2/engagement-service/internal/autoresponse/model"
	"github.com/wso2/engagement-service/internal/system/database/client"
	"github.com/wso2/engagement-service/internal/system/database/provider"
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
	"github.com/wso2/engagement-service/internal/system/log"
)

func getDBClient(purpose string) (client.DBClientInterface, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for %s", purpose)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}
	return dbClient, nil
}

func serverError(msg errors2.ErrorMessage, errorMsg string, err error) error {
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(msg.WithDescription(errorMsg), err)
}

// AddRule inserts a rule together with its template and account bindings.
func AddRule(ctx context.Context, rule model.AutoResponseRule) error {

	dbClient, err := getDBClient("adding auto-response rule")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return serverError(errors2.ADD_AUTO_RESPONSE_RULE, "Failed to begin transaction for rule insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Execute(ctx, scripts.InsertAutoResponseRule[tx.DBType()], rule.RuleId, rule.Name, rule.Condition.Type,
		rule.Condition.Value, rule.Condition.Operator, rule.DelaySeconds, rule.Probability, rule.IsActive,
		rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return serverError(errors2.ADD_AUTO_RESPONSE_RULE, fmt.Sprintf("Failed in adding rule: %s", rule.Name), err)
	}
	if err := insertBindings(ctx, tx, rule); err != nil {
		return serverError(errors2.ADD_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in binding templates and accounts of rule: %s", rule.RuleId), err)
	}

	if err := tx.Commit(); err != nil {
		return serverError(errors2.ADD_AUTO_RESPONSE_RULE, "Failed to commit rule insert", err)
	}
	return nil
}

// UpdateRule replaces a rule and its bindings. It reports whether the rule exists.
func UpdateRule(ctx context.Context, rule model.AutoResponseRule) (bool, error) {

	dbClient, err := getDBClient("updating auto-response rule")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE, "Failed to begin transaction for rule update", err)
	}
	defer func() { _ = tx.Rollback() }()

	updated, err := tx.Execute(ctx, scripts.UpdateAutoResponseRule[tx.DBType()], rule.Name, rule.Condition.Type,
		rule.Condition.Value, rule.Condition.Operator, rule.DelaySeconds, rule.Probability, rule.IsActive,
		rule.UpdatedAt, rule.RuleId)
	if err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in updating rule: %s", rule.RuleId), err)
	}
	if updated == 0 {
		return false, nil
	}

	if err := deleteBindings(ctx, tx, rule.RuleId); err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in clearing bindings of rule: %s", rule.RuleId), err)
	}
	if err := insertBindings(ctx, tx, rule); err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in binding templates and accounts of rule: %s", rule.RuleId), err)
	}

	if err := tx.Commit(); err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE, "Failed to commit rule update", err)
	}
	return true, nil
}

// SetRuleActive flips the active flag of a rule. It reports whether the rule exists.
func SetRuleActive(ctx context.Context, ruleId string, active bool, updatedAt int64) (bool, error) {

	dbClient, err := getDBClient("updating auto-response rule")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, scripts.SetAutoResponseRuleActive[dbClient.DBType()], active, updatedAt, ruleId)
	if err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in updating rule: %s", ruleId), err)
	}
	return updated > 0, nil
}

// DeleteRule removes a rule with its bindings. It reports whether the rule existed.
func DeleteRule(ctx context.Context, ruleId string) (bool, error) {

	dbClient, err := getDBClient("deleting auto-response rule")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return false, serverError(errors2.DELETE_AUTO_RESPONSE_RULE, "Failed to begin transaction for rule delete", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteBindings(ctx, tx, ruleId); err != nil {
		return false, serverError(errors2.DELETE_AUTO_RESPONSE_RULE,
			fmt.Sprintf("Failed in clearing bindings of rule: %s", ruleId), err)
	}
	deleted, err := tx.Execute(ctx, scripts.DeleteAutoResponseRule[tx.DBType()], ruleId)
	if err != nil {
		return false, serverError(errors2.DELETE_AUTO_RESPONSE_RULE, fmt.Sprintf("Failed in deleting rule: %s", ruleId), err)
	}

	if err := tx.Commit(); err != nil {
		return false, serverError(errors2.DELETE_AUTO_RESPONSE_RULE, "Failed to commit rule delete", err)
	}
	return deleted > 0, nil
}

// GetRule fetches a rule with its bindings. A missing rule yields nil.
func GetRule(ctx context.Context, ruleId string) (*model.AutoResponseRule, error) {

	dbClient, err := getDBClient("fetching auto-response rule")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetAutoResponseRule[dbClient.DBType()], ruleId)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_RULES, fmt.Sprintf("Failed in fetching rule: %s", ruleId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	rule := ruleOf(results[0])
	if err := loadBindings(ctx, dbClient, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListRules lists rules, newest first, optionally only those bound to accountId.
func ListRules(ctx context.Context, accountId string) ([]model.AutoResponseRule, error) {

	dbClient, err := getDBClient("listing auto-response rules")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	var results []map[string]interface{}
	if accountId == "" {
		results, err = dbClient.ExecuteQuery(ctx, scripts.ListAutoResponseRules[dbClient.DBType()])
	} else {
		results, err = dbClient.ExecuteQuery(ctx, scripts.ListAutoResponseRulesByAccount[dbClient.DBType()], accountId)
	}
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_RULES, "Failed in listing rules", err)
	}

	rules := make([]model.AutoResponseRule, 0, len(results))
	for _, row := range results {
		rule := ruleOf(row)
		if err := loadBindings(ctx, dbClient, &rule); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ListCandidateRules returns the active rules of accountId reacting to eventType, newest first
// and then by id. Bindings are not loaded.
func ListCandidateRules(ctx context.Context, accountId, eventType string) ([]model.AutoResponseRule, error) {

	dbClient, err := getDBClient("listing candidate rules")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListCandidateRules[dbClient.DBType()], accountId, eventType)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_RULES,
			fmt.Sprintf("Failed in listing %s rules of account %s", eventType, accountId), err)
	}

	rules := make([]model.AutoResponseRule, 0, len(results))
	for _, row := range results {
		rules = append(rules, ruleOf(row))
	}
	return rules, nil
}

// GetManagedAccount reads the managed and active flags of an account. A missing account yields nil.
func GetManagedAccount(ctx context.Context, accountId string) (*model.ManagedAccount, error) {

	dbClient, err := getDBClient("fetching managed account")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetUserProfile[dbClient.DBType()], accountId)
	if err != nil {
		return nil, serverError(errors2.FETCH_USER_PROFILE, fmt.Sprintf("Failed in fetching account: %s", accountId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &model.ManagedAccount{
		AccountId: client.AsString(results[0]["user_id"]),
		IsManaged: client.AsBool(results[0]["is_managed"]),
		IsActive:  client.AsBool(results[0]["is_active"]),
	}, nil
}

func insertBindings(ctx context.Context, tx client.Querier, rule model.AutoResponseRule) error {

	for position, templateId := range rule.TemplateIds {
		if _, err := tx.Execute(ctx, scripts.InsertRuleTemplate[tx.DBType()], rule.RuleId, templateId,
			position); err != nil {
			return err
		}
	}
	for _, accountId := range rule.AccountIds {
		if _, err := tx.Execute(ctx, scripts.InsertRuleAccount[tx.DBType()], rule.RuleId, accountId); err != nil {
			return err
		}
	}
	return nil
}

func deleteBindings(ctx context.Context, tx client.Querier, ruleId string) error {

	if _, err := tx.Execute(ctx, scripts.DeleteRuleTemplates[tx.DBType()], ruleId); err != nil {
		return err
	}
	_, err := tx.Execute(ctx, scripts.DeleteRuleAccounts[tx.DBType()], ruleId)
	return err
}

func loadBindings(ctx context.Context, q client.Querier, rule *model.AutoResponseRule) error {

	templates, err := q.ExecuteQuery(ctx, scripts.GetRuleTemplateIds[q.DBType()], rule.RuleId)
	if err != nil {
		return serverError(errors2.FETCH_AUTO_RESPONSE_RULES,
			fmt.Sprintf("Failed in fetching templates of rule: %s", rule.RuleId), err)
	}
	accounts, err := q.ExecuteQuery(ctx, scripts.GetRuleAccountIds[q.DBType()], rule.RuleId)
	if err != nil {
		return serverError(errors2.FETCH_AUTO_RESPONSE_RULES,
			fmt.Sprintf("Failed in fetching accounts of rule: %s", rule.RuleId), err)
	}

	rule.TemplateIds = make([]string, 0, len(templates))
	for _, row := range templates {
		rule.TemplateIds = append(rule.TemplateIds, client.AsString(row["template_id"]))
	}
	rule.AccountIds = make([]string, 0, len(accounts))
	for _, row := range accounts {
		rule.AccountIds = append(rule.AccountIds, client.AsString(row["account_id"]))
	}
	return nil
}

func ruleOf(row map[string]interface{}) model.AutoResponseRule {
	return model.AutoResponseRule{
		RuleId: client.AsString(row["rule_id"]),
		Name:   client.AsString(row["name"]),
		Condition: model.Condition{
			Type:     client.AsString(row["condition_type"]),
			Value:    client.AsString(row["condition_value"]),
			Operator: client.AsString(row["condition_operator"]),
		},
		DelaySeconds: client.AsInt64(row["delay_seconds"]),
		Probability:  client.AsInt(row["probability"]),
		IsActive:     client.AsBool(row["is_active"]),
		CreatedAt:    client.AsInt64(row["created_at"]),
		UpdatedAt:    client.AsInt64(row["updated_at"]),
	}
}
