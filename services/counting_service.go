package services

import (
	"context"
	"fmt"
	"time"

	"examdesk_go/database"
	"examdesk_go/models"

	"github.com/sirupsen/logrus"
)

// CountBreakdownEntry is the headcount for one program-course/shift pair.
type CountBreakdownEntry struct {
	ProgramCourseID uint  `json:"program_course_id"`
	ShiftID         *uint `json:"shift_id,omitempty"`
	Count           int64 `json:"count"`
}

// CountBreakdown carries per-combination counts plus the overall total.
type CountBreakdown struct {
	Entries []CountBreakdownEntry `json:"entries"`
	Total   int64                 `json:"total"`
}

type CountingService struct{}

func NewCountingService() *CountingService {
	return &CountingService{}
}

const countCacheTTL = 5 * time.Minute

// countCacheKey builds the Redis key for a filter's cached headcount.
func countCacheKey(filter StudentFilter) string {
	return fmt.Sprintf("exam:count:%d:%v:%v:%v:%v:%s:%d",
		filter.ClassID, filter.ProgramCourseIDs, filter.AcademicYearIDs,
		filter.ShiftIDs, filter.PaperIDs, filter.Gender, len(filter.UIDs))
}

// CountEligibleStudents returns the headcount for a filter set. Results
// without a foil-sheet restriction are cached in Redis briefly; the cache
// is invalidated whenever an exam is assigned or allotted.
func (s *CountingService) CountEligibleStudents(filter StudentFilter) (int64, error) {
	redisClient := database.GetRedisClient()
	cacheable := len(filter.UIDs) == 0
	key := countCacheKey(filter)

	if cacheable && redisClient != nil {
		if cached, err := redisClient.Get(context.Background(), key).Int64(); err == nil {
			return cached, nil
		}
	}

	query := database.DB.Model(&models.Student{}).
		Where("active = ?", true).
		Where("class_id = ?", filter.ClassID).
		Where("program_course_id IN ?", filter.ProgramCourseIDs).
		Where("academic_year_id IN ?", filter.AcademicYearIDs)

	if len(filter.ShiftIDs) > 0 {
		query = query.Where("shift_id IN ?", filter.ShiftIDs)
	}
	if len(filter.PaperIDs) > 0 {
		var err error
		query, err = applyPaperScope(database.DB, query, filter.PaperIDs)
		if err != nil {
			return 0, err
		}
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if len(filter.UIDs) > 0 {
		query = query.Where("uid IN ?", filter.UIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count eligible students: %w", err)
	}

	if cacheable && redisClient != nil {
		if err := redisClient.Set(context.Background(), key, count, countCacheTTL).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to cache student count")
		}
	}

	return count, nil
}

// CountBreakdown returns headcounts per program-course/shift combination.
// With no shifts in the filter, one entry per program course is produced.
func (s *CountingService) CountBreakdown(filter StudentFilter) (*CountBreakdown, error) {
	breakdown := &CountBreakdown{}

	shiftIDs := filter.ShiftIDs
	if len(shiftIDs) == 0 {
		for _, pcID := range filter.ProgramCourseIDs {
			sub := filter
			sub.ProgramCourseIDs = []uint{pcID}
			count, err := s.CountEligibleStudents(sub)
			if err != nil {
				return nil, err
			}
			breakdown.Entries = append(breakdown.Entries, CountBreakdownEntry{
				ProgramCourseID: pcID,
				Count:           count,
			})
			breakdown.Total += count
		}
		return breakdown, nil
	}

	for _, pcID := range filter.ProgramCourseIDs {
		for _, shiftID := range shiftIDs {
			sub := filter
			sub.ProgramCourseIDs = []uint{pcID}
			sub.ShiftIDs = []uint{shiftID}
			count, err := s.CountEligibleStudents(sub)
			if err != nil {
				return nil, err
			}
			sid := shiftID
			breakdown.Entries = append(breakdown.Entries, CountBreakdownEntry{
				ProgramCourseID: pcID,
				ShiftID:         &sid,
				Count:           count,
			})
			breakdown.Total += count
		}
	}

	return breakdown, nil
}

// InvalidateCountCache drops all cached headcounts. Called after any
// mutation that changes the eligible population or room bookings.
func InvalidateCountCache() {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, "exam:count:*", 200).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate count cache key")
		}
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("Count cache invalidation scan failed")
	}
}
