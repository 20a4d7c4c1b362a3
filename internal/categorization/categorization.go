// Package categorization loads the JSON taint categorization document: six
// string-array fields naming source/leak/conduit/sanitizer/sensitive/mundane
// vertices.
package categorization

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Load reads and unmarshals a categorization JSON file. A missing field is
// treated as an empty list rather than an error — encoding/json already
// zero-values missing fields, so this just documents the behavior rather
// than implementing defensive handling for it.
func Load(path string) (*types.Categorization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categorization %s: %w", path, err)
	}

	var c types.Categorization
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse categorization %s: %w", path, err)
	}
	return &c, nil
}
