package capture

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ListDevices returns the video capture devices present on the system,
// sorted by device number. On platforms without /dev/video nodes the
// list is empty.
func ListDevices() ([]string, error) {
	matches, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, fmt.Errorf("scan devices: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return deviceNumber(matches[i]) < deviceNumber(matches[j])
	})

	return matches, nil
}

// deviceNumber extracts the numeric suffix from a device path such as
// /dev/video10. Paths without a numeric suffix sort last.
func deviceNumber(path string) int {
	digits := strings.TrimPrefix(filepath.Base(path), "video")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
