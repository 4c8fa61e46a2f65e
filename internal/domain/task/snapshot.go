package task

// SnapshotTask asks a worker to recompute the BundleInfo hint of one bundle node.
type SnapshotTask struct {
	NodeID string `json:"node_id"`
}

func (t *SnapshotTask) TaskType() string {
	return TypeSnapshot
}

func (t *SnapshotTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
