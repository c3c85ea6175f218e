package event

// ConfigUpdatedData is the data for config.updated events.
type ConfigUpdatedData struct {
	// BatchID identifies the debounced batch.
	BatchID string `json:"batchID"`
	// Dir is the watched configuration directory.
	Dir string `json:"dir"`
	// Paths lists the changed paths relative to Dir, sorted and de-duplicated.
	Paths []string `json:"paths"`
}

// FileChangedData is the data for file.changed events.
type FileChangedData struct {
	Path string `json:"path"`
	Op   string `json:"op"` // "create" | "write" | "remove" | "rename" | "chmod"
}
