package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"leadflow_backend/internal/enrichment/transport"
)

const TaskBulkImport = "enrichment.bulk_import"

const TaskLeadEmail = "enrichment.lead_email"

// BulkImportPayload describes a multi-page import run. Pages are fetched
// sequentially starting at Filter.Page; MaxPages caps the run.
type BulkImportPayload struct {
	Filter   transport.SearchRequest `json:"filter"`
	MaxPages int                     `json:"maxPages"`
}

type LeadEmailPayload struct {
	LeadID string `json:"leadId"`
}

func NewBulkImportTask(payload BulkImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBulkImport, data), nil
}

func ParseBulkImportPayload(task *asynq.Task) (BulkImportPayload, error) {
	var payload BulkImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BulkImportPayload{}, err
	}
	return payload, nil
}

func NewLeadEmailTask(payload LeadEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadEmail, data), nil
}

func ParseLeadEmailPayload(task *asynq.Task) (LeadEmailPayload, error) {
	var payload LeadEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadEmailPayload{}, err
	}
	return payload, nil
}
