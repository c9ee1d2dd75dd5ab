package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCampaignEmail = "email.campaign.send"

const TaskFollowUpDue = "workflow.followup.due"

const TaskPeriodicReport = "reports.periodic.generate"

type CampaignEmailPayload struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	To           string `json:"to"`
	Subject      string `json:"subject"`
	Template     string `json:"template"`
}

type FollowUpDuePayload struct {
	TaskID     string `json:"taskId"`
	CustomerID string `json:"customerId"`
	Priority   string `json:"priority"`
}

type PeriodicReportPayload struct {
	Period string `json:"period"`
}

func NewCampaignEmailTask(payload CampaignEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignEmail, data), nil
}

func ParseCampaignEmailPayload(task *asynq.Task) (CampaignEmailPayload, error) {
	var payload CampaignEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignEmailPayload{}, err
	}
	return payload, nil
}

func NewFollowUpDueTask(payload FollowUpDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDue, data), nil
}

func ParseFollowUpDuePayload(task *asynq.Task) (FollowUpDuePayload, error) {
	var payload FollowUpDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDuePayload{}, err
	}
	return payload, nil
}

func NewPeriodicReportTask(payload PeriodicReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPeriodicReport, data), nil
}

func ParsePeriodicReportPayload(task *asynq.Task) (PeriodicReportPayload, error) {
	var payload PeriodicReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PeriodicReportPayload{}, err
	}
	return payload, nil
}
