package utils

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns the host CPU usage as a percentage sampled over window.
func GetCPUUsage(window time.Duration) (float64, error) {
	percentage, err := cpu.Percent(window, false)
	if err != nil {
		return 0, err
	}
	if len(percentage) > 0 {
		return percentage[0], nil
	}
	return 0, nil
}
