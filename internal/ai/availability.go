package ai

import (
	"fmt"
	"os/exec"
)

// CheckAvailability checks if the given tools are available in PATH.
// Returns a map of tool name to availability status.
func CheckAvailability(tools ...string) map[string]bool {
	result := make(map[string]bool, len(tools))
	for _, tool := range tools {
		_, err := exec.LookPath(tool)
		result[tool] = err == nil
	}
	return result
}

// RequireTools returns an error naming every tool missing from PATH.
func RequireTools(tools ...string) error {
	avail := CheckAvailability(tools...)
	var missing []string
	for _, tool := range tools {
		if !avail[tool] {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found in PATH: %v", missing)
	}
	return nil
}
