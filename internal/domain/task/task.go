package task

import "github.com/goccy/go-json"

type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

const (
	TypeCatalogPage = "CatalogPageTask"
	TypePageRetry   = "PageRetryTask"
	TypeSnapshot    = "SnapshotTask"
)

// Types lists every task type that has its own stream.
var Types = []string{TypeCatalogPage, TypePageRetry, TypeSnapshot}

// DefaultTaskValue provides a common implementation for TaskValue
func DefaultTaskValue(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T Task](task []byte) (T, error) {
	var t T
	err := json.Unmarshal(task, &t)
	return t, err
}
