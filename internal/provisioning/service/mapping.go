package service

import (
	"fmt"

	"github.com/smallbiznis/agencydesk/internal/provisioning/domain"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
)

func mapTaskType(t servicepackagedomain.TemplateTaskType) (mandatedomain.TaskType, error) {
	switch t {
	case servicepackagedomain.TemplateTaskTypeOnboarding:
		return mandatedomain.TaskTypeAdmin, nil
	case servicepackagedomain.TemplateTaskTypeContent:
		return mandatedomain.TaskTypeCreation, nil
	case servicepackagedomain.TemplateTaskTypeAdvertising:
		return mandatedomain.TaskTypeAds, nil
	case servicepackagedomain.TemplateTaskTypeReporting:
		return mandatedomain.TaskTypeReport, nil
	case servicepackagedomain.TemplateTaskTypeMeeting:
		return mandatedomain.TaskTypeCall, nil
	default:
		return "", fmt.Errorf("%w: task type %q", domain.ErrUnmappedTaskTemplateValue, t)
	}
}

func mapTaskStatus(s servicepackagedomain.TemplateTaskStatus) (mandatedomain.TaskStatus, error) {
	switch s {
	case servicepackagedomain.TemplateTaskStatusPending:
		return mandatedomain.TaskStatusTodo, nil
	case servicepackagedomain.TemplateTaskStatusInProgress:
		return mandatedomain.TaskStatusInProgress, nil
	case servicepackagedomain.TemplateTaskStatusBlocked:
		return mandatedomain.TaskStatusBlocked, nil
	default:
		return "", fmt.Errorf("%w: task status %q", domain.ErrUnmappedTaskTemplateValue, s)
	}
}
