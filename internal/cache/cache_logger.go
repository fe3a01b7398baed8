package cache

import (
	"context"
	"log/slog"
)

// Dashboard and campus cache keys, relative to their helper prefix.
const (
	StudentDashboardKey  = "student:"
	FacultyDashboardKey  = "faculty:"
	CampusEventsKey      = "events:"
	CampusNewsKey        = "news"
	CampusUniversityInfo = "university"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateStudentDashboards drops the cached dashboards of the given students.
func InvalidateStudentDashboards(ctx context.Context, cm *CacheManager, studentCodes ...string) {
	if len(studentCodes) == 0 {
		return
	}
	keys := make([]string, 0, len(studentCodes))
	for _, code := range studentCodes {
		keys = append(keys, StudentDashboardKey+code)
	}
	SafeDelete(ctx, cm.Dashboard, keys...)
}

// InvalidateFacultyDashboards drops every cached faculty dashboard. A course
// change can show up on several of them, including the all-courses view.
func InvalidateFacultyDashboards(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Dashboard, FacultyDashboardKey+"*")
}

// InvalidateCampus drops the cached events, news and university summary.
func InvalidateCampus(ctx context.Context, cm *CacheManager) {
	_ = BatchInvalidate(ctx, cm.Campus, []string{CampusEventsKey + "*", CampusNewsKey, CampusUniversityInfo})
}
