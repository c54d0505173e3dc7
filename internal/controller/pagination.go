package controller

import (
	"slices"

	"redirector/internal/domain/models"
)

// Pages returns how many pages of size hold total items.
func Pages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// BatchStart returns the offset for a 1-based page. The offset never goes
// past the last full batch, so the last page may overlap the previous one.
func BatchStart(page, size, total int) int {
	start := (page - 1) * size
	start = min(start, max(0, total-size))
	return max(0, start)
}

// ValidPageSize reports whether size is one of the offered page sizes.
func ValidPageSize(size int) bool {
	return slices.Contains(models.PageSizes, size)
}
