package attendance

import (
	"math"

	"github.com/appdotbuilder/sekolah-absenku/models"
)

// Statistics aggregates attendance rows in scope. TotalStudents counts
// students, not rows, and is independent of whether a student has any
// row in range. The four status buckets count rows: the same student
// across several days counts once per day.
type Statistics struct {
	TotalStudents  int64   `json:"total_students"`
	Present        int64   `json:"present"`
	Permission     int64   `json:"permission"`
	Sick           int64   `json:"sick"`
	Absent         int64   `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Statistics computes aggregate counts over the optional class and
// date-range scope. A missing start leaves the range unbounded below,
// a missing end unbounded above; neither means all-time. The rate is
// present rows over all rows in range, as a percentage rounded to two
// decimals, and exactly 0 when the range holds no rows.
func (e *Engine) Statistics(classID *uint, start, end string) (*Statistics, error) {
	var stats Statistics

	sq := e.db.Model(&models.Student{})
	if classID != nil {
		sq = sq.Where("class_id = ?", *classID)
	}
	if err := sq.Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}

	tx := e.db.Model(&models.Attendance{})
	if classID != nil {
		tx = tx.Where("class_id = ?", *classID)
	}
	if start != "" {
		tx = tx.Where("date >= ?", start)
	}
	if end != "" {
		tx = tx.Where("date <= ?", end)
	}

	var counts []struct {
		Status string
		Count  int64
	}
	if err := tx.Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Status {
		case models.StatusPresent:
			stats.Present = c.Count
		case models.StatusPermission:
			stats.Permission = c.Count
		case models.StatusSick:
			stats.Sick = c.Count
		case models.StatusAbsent:
			stats.Absent = c.Count
		}
	}

	total := stats.Present + stats.Permission + stats.Sick + stats.Absent
	if total > 0 {
		stats.AttendanceRate = math.Round(float64(stats.Present)/float64(total)*100*100) / 100
	}
	return &stats, nil
}
