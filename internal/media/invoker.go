package media

import (
	"fmt"
	"log/slog"
	"time"
)

// ExecuteCommands applies a configured sequence of commands to a photo in order.
// An empty pipeline returns the original bytes unchanged.
func ExecuteCommands(photoData []byte, commandConfigs []CommandConfig) ([]byte, error) {
	start := time.Now()

	slog.Info("starting photo processing pipeline",
		"command_count", len(commandConfigs),
		"input_size_bytes", len(photoData))

	if len(commandConfigs) == 0 {
		slog.Debug("no commands configured, returning original photo")
		return photoData, nil
	}

	currentData := photoData

	for i, config := range commandConfigs {
		commandStart := time.Now()

		command, err := DefaultRegistry.Create(config.Name, config.Params)
		if err != nil {
			slog.Error("failed to create command",
				"index", i,
				"command_name", config.Name,
				"error", err)
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}

		processedData, err := command.Execute(currentData)
		if err != nil {
			slog.Error("command execution failed",
				"index", i,
				"command_name", config.Name,
				"error", err,
				"input_size_bytes", len(currentData))
			return nil, fmt.Errorf("command %s (index %d) failed: %w", config.Name, i, err)
		}

		slog.Debug("command completed",
			"index", i,
			"command_name", config.Name,
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_size_bytes", len(currentData),
			"output_size_bytes", len(processedData))

		currentData = processedData
	}

	slog.Info("photo processing pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(commandConfigs),
		"final_size_bytes", len(currentData))

	return currentData, nil
}
