// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"investr-engine/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, stamping LastUpdated.
func (r *ActivityRegistry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// SetStatus updates the implementation status of the activity with id.
func (r *ActivityRegistry) SetStatus(id, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("unknown status %q, expected one of %v", status, ValidStatuses)
	}
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			r.Activities[i].ImplementationStatus = status
			return nil
		}
	}
	return fmt.Errorf("activity with ID %s not found", id)
}

// Validate checks required fields, uniqueness of ids and task types, and that
// every input and output schema compiles. All problems are returned joined.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	var errs []error
	ids := map[string]bool{}
	taskTypes := map[string]bool{}

	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			errs = append(errs, errors.New("activity missing required field: id"))
			continue
		case a.DisplayName == "":
			errs = append(errs, fmt.Errorf("activity %s missing required field: displayName", a.ID))
		case a.TaskType == "":
			errs = append(errs, fmt.Errorf("activity %s missing required field: taskType", a.ID))
		case a.Category == "":
			errs = append(errs, fmt.Errorf("activity %s missing required field: category", a.ID))
		}

		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate activity ID: %s", a.ID))
		}
		ids[a.ID] = true

		if a.TaskType != "" {
			if taskTypes[a.TaskType] {
				errs = append(errs, fmt.Errorf("duplicate task type: %s", a.TaskType))
			}
			taskTypes[a.TaskType] = true
		}

		if a.ImplementationStatus != "" && !validStatus(a.ImplementationStatus) {
			errs = append(errs, fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus))
		}

		for name, schema := range map[string]map[string]interface{}{"inputSchema": a.InputSchema, "outputSchema": a.OutputSchema} {
			if len(schema) == 0 {
				continue
			}
			if _, err := validation.Compile(schema); err != nil {
				errs = append(errs, fmt.Errorf("activity %s %s: %w", a.ID, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// InputValidator compiles the input schema of taskType once for reuse across
// jobs. An activity without an input schema accepts any input.
func (r *ActivityRegistry) InputValidator(taskType string) (*validation.Schema, error) {
	a, ok := r.Find(taskType)
	if !ok {
		return nil, fmt.Errorf("task type %s is not registered", taskType)
	}
	if len(a.InputSchema) == 0 {
		return validation.Compile(map[string]interface{}{"type": "object"})
	}
	return validation.Compile(a.InputSchema)
}

func validStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
