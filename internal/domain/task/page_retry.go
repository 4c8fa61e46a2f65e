package task

import "comicvault/storefront/internal/domain"

type PageRetryTask struct {
	PageNumber int             `json:"page_number"` // Failed page number
	NodeType   domain.NodeType `json:"node_type"`   // book, volume, saga, arc, issue
	RetryCount int             `json:"retry_count"` // Attempts made so far
	Error      string          `json:"error"`       // Error message from the last failure
}

func (t *PageRetryTask) TaskType() string {
	return TypePageRetry
}

func (t *PageRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
