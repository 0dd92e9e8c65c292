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
	"github.com/wso2/engagement-service/internal/system/database/scripts"
	errors2 "github.com/wso2/engagement-service/internal/system/errors"
)

func AddTemplate(ctx context.Context, template model.AutoResponseTemplate) error {

	dbClient, err := getDBClient("adding auto-response template")
	if err != nil {
		return err
	}
	defer dbClient.Close()

	_, err = dbClient.Execute(ctx, scripts.InsertAutoResponseTemplate[dbClient.DBType()], template.TemplateId,
		template.Name, template.Message, template.Category, template.IsActive, template.CreatedAt, template.UpdatedAt)
	if err != nil {
		return serverError(errors2.ADD_AUTO_RESPONSE_TEMPLATE,
			fmt.Sprintf("Failed in adding template: %s", template.Name), err)
	}
	return nil
}

// UpdateTemplate replaces the editable fields of a template. use_count is never written here.
func UpdateTemplate(ctx context.Context, template model.AutoResponseTemplate) (bool, error) {

	dbClient, err := getDBClient("updating auto-response template")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, scripts.UpdateAutoResponseTemplate[dbClient.DBType()], template.Name,
		template.Message, template.Category, template.IsActive, template.UpdatedAt, template.TemplateId)
	if err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_TEMPLATE,
			fmt.Sprintf("Failed in updating template: %s", template.TemplateId), err)
	}
	return updated > 0, nil
}

func SetTemplateActive(ctx context.Context, templateId string, active bool, updatedAt int64) (bool, error) {

	dbClient, err := getDBClient("updating auto-response template")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	updated, err := dbClient.Execute(ctx, scripts.SetAutoResponseTemplateActive[dbClient.DBType()], active, updatedAt,
		templateId)
	if err != nil {
		return false, serverError(errors2.UPDATE_AUTO_RESPONSE_TEMPLATE,
			fmt.Sprintf("Failed in updating template: %s", templateId), err)
	}
	return updated > 0, nil
}

func DeleteTemplate(ctx context.Context, templateId string) (bool, error) {

	dbClient, err := getDBClient("deleting auto-response template")
	if err != nil {
		return false, err
	}
	defer dbClient.Close()

	deleted, err := dbClient.Execute(ctx, scripts.DeleteAutoResponseTemplate[dbClient.DBType()], templateId)
	if err != nil {
		return false, serverError(errors2.DELETE_AUTO_RESPONSE_TEMPLATE,
			fmt.Sprintf("Failed in deleting template: %s", templateId), err)
	}
	return deleted > 0, nil
}

// GetTemplate fetches a template. A missing template yields nil.
func GetTemplate(ctx context.Context, templateId string) (*model.AutoResponseTemplate, error) {

	dbClient, err := getDBClient("fetching auto-response template")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetAutoResponseTemplate[dbClient.DBType()], templateId)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_TEMPLATES,
			fmt.Sprintf("Failed in fetching template: %s", templateId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	template := templateOf(results[0])
	return &template, nil
}

// ListTemplates lists templates newest first, optionally of one category.
func ListTemplates(ctx context.Context, category string) ([]model.AutoResponseTemplate, error) {

	dbClient, err := getDBClient("listing auto-response templates")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	var results []map[string]interface{}
	if category == "" {
		results, err = dbClient.ExecuteQuery(ctx, scripts.ListAutoResponseTemplates[dbClient.DBType()])
	} else {
		results, err = dbClient.ExecuteQuery(ctx, scripts.ListAutoResponseTemplatesByCategory[dbClient.DBType()],
			category)
	}
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_TEMPLATES, "Failed in listing templates", err)
	}
	return templatesOf(results), nil
}

// ListRuleTemplates returns the templates bound to a rule in binding order.
func ListRuleTemplates(ctx context.Context, ruleId string) ([]model.AutoResponseTemplate, error) {

	dbClient, err := getDBClient("listing rule templates")
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListRuleTemplates[dbClient.DBType()], ruleId)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUTO_RESPONSE_TEMPLATES,
			fmt.Sprintf("Failed in listing templates of rule: %s", ruleId), err)
	}
	return templatesOf(results), nil
}

// CountTemplateReferences counts the rules a template is bound to.
func CountTemplateReferences(ctx context.Context, templateId string) (int64, error) {

	dbClient, err := getDBClient("counting template references")
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.CountTemplateReferences[dbClient.DBType()], templateId)
	if err != nil {
		return 0, serverError(errors2.FETCH_AUTO_RESPONSE_TEMPLATES,
			fmt.Sprintf("Failed in counting references of template: %s", templateId), err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return client.AsInt64(results[0]["refs"]), nil
}

func templatesOf(results []map[string]interface{}) []model.AutoResponseTemplate {
	templates := make([]model.AutoResponseTemplate, 0, len(results))
	for _, row := range results {
		templates = append(templates, templateOf(row))
	}
	return templates
}

func templateOf(row map[string]interface{}) model.AutoResponseTemplate {
	return model.AutoResponseTemplate{
		TemplateId: client.AsString(row["template_id"]),
		Name:       client.AsString(row["name"]),
		Message:    client.AsString(row["message"]),
		Category:   client.AsString(row["category"]),
		IsActive:   client.AsBool(row["is_active"]),
		UseCount:   client.AsInt64(row["use_count"]),
		CreatedAt:  client.AsInt64(row["created_at"]),
		UpdatedAt:  client.AsInt64(row["updated_at"]),
	}
}
