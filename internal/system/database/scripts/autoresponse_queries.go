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

const ruleColumns = `r.rule_id, r.name, r.condition_type, r.condition_value, r.condition_operator,
	r.delay_seconds, r.probability, r.is_active, r.created_at, r.updated_at`

const templateColumns = `t.template_id, t.name, t.message, t.category, t.is_active, t.use_count,
	t.created_at, t.updated_at`

const jobColumns = `job_id, rule_id, template_id, account_id, recipient_id, event_type, event_value, draw,
	fire_at, status, attempts, last_error, created_at, updated_at`

var InsertAutoResponseRule = portable(`INSERT INTO auto_response_rules
	(rule_id, name, condition_type, condition_value, condition_operator, delay_seconds, probability, is_active,
	created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)

var UpdateAutoResponseRule = portable(`UPDATE auto_response_rules SET name = $1, condition_type = $2,
	condition_value = $3, condition_operator = $4, delay_seconds = $5, probability = $6, is_active = $7,
	updated_at = $8 WHERE rule_id = $9`)

var SetAutoResponseRuleActive = portable(`UPDATE auto_response_rules SET is_active = $1, updated_at = $2
	WHERE rule_id = $3`)

var DeleteAutoResponseRule = portable(`DELETE FROM auto_response_rules WHERE rule_id = $1`)

var GetAutoResponseRule = portable(`SELECT ` + ruleColumns + ` FROM auto_response_rules r WHERE r.rule_id = $1`)

var ListAutoResponseRules = portable(`SELECT ` + ruleColumns + ` FROM auto_response_rules r
	ORDER BY r.created_at DESC, r.rule_id ASC`)

var ListAutoResponseRulesByAccount = portable(`SELECT ` + ruleColumns + ` FROM auto_response_rules r
	JOIN auto_response_rule_accounts a ON a.rule_id = r.rule_id
	WHERE a.account_id = $1 ORDER BY r.created_at DESC, r.rule_id ASC`)

// Candidate rules of an inbound event in tie-break order.
var ListCandidateRules = portable(`SELECT ` + ruleColumns + ` FROM auto_response_rules r
	JOIN auto_response_rule_accounts a ON a.rule_id = r.rule_id
	WHERE a.account_id = $1 AND r.condition_type = $2 AND r.is_active = TRUE
	ORDER BY r.created_at DESC, r.rule_id ASC`)

var InsertRuleTemplate = portable(`INSERT INTO auto_response_rule_templates (rule_id, template_id, position)
	VALUES ($1, $2, $3)`)

var DeleteRuleTemplates = portable(`DELETE FROM auto_response_rule_templates WHERE rule_id = $1`)

var GetRuleTemplateIds = portable(`SELECT template_id FROM auto_response_rule_templates WHERE rule_id = $1
	ORDER BY position`)

var InsertRuleAccount = portable(`INSERT INTO auto_response_rule_accounts (rule_id, account_id) VALUES ($1, $2)`)

var DeleteRuleAccounts = portable(`DELETE FROM auto_response_rule_accounts WHERE rule_id = $1`)

var GetRuleAccountIds = portable(`SELECT account_id FROM auto_response_rule_accounts WHERE rule_id = $1
	ORDER BY account_id`)

var InsertAutoResponseTemplate = portable(`INSERT INTO auto_response_templates
	(template_id, name, message, category, is_active, use_count, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 0, $6, $7)`)

var UpdateAutoResponseTemplate = portable(`UPDATE auto_response_templates SET name = $1, message = $2,
	category = $3, is_active = $4, updated_at = $5 WHERE template_id = $6`)

var SetAutoResponseTemplateActive = portable(`UPDATE auto_response_templates SET is_active = $1, updated_at = $2
	WHERE template_id = $3`)

var DeleteAutoResponseTemplate = portable(`DELETE FROM auto_response_templates WHERE template_id = $1`)

var GetAutoResponseTemplate = portable(`SELECT ` + templateColumns + ` FROM auto_response_templates t
	WHERE t.template_id = $1`)

var ListAutoResponseTemplates = portable(`SELECT ` + templateColumns + ` FROM auto_response_templates t
	ORDER BY t.created_at DESC, t.template_id ASC`)

var ListAutoResponseTemplatesByCategory = portable(`SELECT ` + templateColumns + ` FROM auto_response_templates t
	WHERE t.category = $1 ORDER BY t.created_at DESC, t.template_id ASC`)

var ListRuleTemplates = portable(`SELECT ` + templateColumns + ` FROM auto_response_rule_templates rt
	JOIN auto_response_templates t ON t.template_id = rt.template_id
	WHERE rt.rule_id = $1 ORDER BY rt.position`)

var CountTemplateReferences = portable(`SELECT COUNT(*) AS refs FROM auto_response_rule_templates
	WHERE template_id = $1`)

var IncrementTemplateUseCount = portable(`UPDATE auto_response_templates SET use_count = use_count + 1
	WHERE template_id = $1`)

var InsertDispatchJob = portable(`INSERT INTO auto_response_jobs (` + jobColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`)

var GetDispatchJob = portable(`SELECT ` + jobColumns + ` FROM auto_response_jobs WHERE job_id = $1`)

var ListDispatchJobsByStatus = portable(`SELECT ` + jobColumns + ` FROM auto_response_jobs WHERE status = $1
	ORDER BY fire_at ASC, job_id ASC LIMIT $2`)

// Due jobs. Postgres skips rows another replica already holds.
var SelectDueDispatchJobs = map[string]string{
	"postgres": `SELECT ` + jobColumns + ` FROM auto_response_jobs
		WHERE status IN ('scheduled', 'failed') AND fire_at <= $1
		ORDER BY fire_at ASC, job_id ASC LIMIT $2 FOR UPDATE SKIP LOCKED`,
	"sqlite": `SELECT ` + jobColumns + ` FROM auto_response_jobs
		WHERE status IN ('scheduled', 'failed') AND fire_at <= $1
		ORDER BY fire_at ASC, job_id ASC LIMIT $2`,
}

// Pushes a claimed job's fire_at past the lease so later ticks leave it alone.
var LeaseDispatchJob = portable(`UPDATE auto_response_jobs SET fire_at = $1, updated_at = $2
	WHERE job_id = $3 AND status IN ('scheduled', 'failed')`)

var MarkDispatchJobDispatched = portable(`UPDATE auto_response_jobs SET status = 'dispatched',
	attempts = attempts + 1, last_error = '', updated_at = $1
	WHERE job_id = $2 AND status IN ('scheduled', 'failed')`)

var MarkDispatchJobFailed = portable(`UPDATE auto_response_jobs SET status = $1, attempts = $2,
	last_error = $3, fire_at = $4, updated_at = $5
	WHERE job_id = $6 AND status IN ('scheduled', 'failed')`)

var MarkDispatchJobCancelled = portable(`UPDATE auto_response_jobs SET status = 'cancelled', last_error = $1,
	updated_at = $2 WHERE job_id = $3 AND status IN ('scheduled', 'failed')`)
