package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/sekolah-absenku/attendance"
	"github.com/appdotbuilder/sekolah-absenku/models"
)

func TestReportRequiresDateRange(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	_, err := e.Report(attendance.ReportFilter{StartDate: "2025-03-01"})
	assert.ErrorIs(t, err, attendance.ErrMissingDateRange)

	_, err = e.Report(attendance.ReportFilter{EndDate: "2025-03-31"})
	assert.ErrorIs(t, err, attendance.ErrMissingDateRange)
}

func TestReportRangeIsInclusive(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	for _, d := range []string{"2025-03-04", "2025-03-05", "2025-03-07", "2025-03-09", "2025-03-10"} {
		_, err := e.Create(teacherEntry(f, d, models.StatusPresent))
		require.NoError(t, err)
	}

	rows, err := e.Report(attendance.ReportFilter{StartDate: "2025-03-05", EndDate: "2025-03-09"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-03-05", rows[0].Date, "a row dated exactly start_date is included")
	assert.Equal(t, "2025-03-07", rows[1].Date)
	assert.Equal(t, "2025-03-09", rows[2].Date, "a row dated exactly end_date is included")
}

func TestReportFiltersCombineWithAnd(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	other := addStudent(t, db, f.class.ID, "1002")

	otherClass := models.Class{Name: "X IPS 2"}
	require.NoError(t, db.Create(&otherClass).Error)
	foreign := addStudent(t, db, otherClass.ID, "1003")

	mk := func(s models.Student, classID uint, date, status string) {
		tid := f.teacher.ID
		_, err := e.Create(attendance.CreateInput{
			StudentID: s.ID, ClassID: classID, TeacherID: &tid, Date: date, Status: status,
		})
		require.NoError(t, err)
	}
	mk(f.student, f.class.ID, "2025-03-10", models.StatusPresent)
	mk(other, f.class.ID, "2025-03-10", models.StatusSick)
	mk(foreign, otherClass.ID, "2025-03-10", models.StatusPresent)

	classID := f.class.ID
	rows, err := e.Report(attendance.ReportFilter{
		StartDate: "2025-03-10", EndDate: "2025-03-10", ClassID: &classID,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	status := models.StatusPresent
	rows, err = e.Report(attendance.ReportFilter{
		StartDate: "2025-03-10", EndDate: "2025-03-10", ClassID: &classID, Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.student.ID, rows[0].StudentID)

	studentID := other.ID
	rows, err = e.Report(attendance.ReportFilter{
		StartDate: "2025-03-10", EndDate: "2025-03-10", StudentID: &studentID,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusSick, rows[0].Status)
}

func TestClassOnDateEqualsSingleDayReport(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	_, err := e.Create(teacherEntry(f, "2025-03-09", models.StatusPresent))
	require.NoError(t, err)
	_, err = e.Create(teacherEntry(f, "2025-03-10", models.StatusPresent))
	require.NoError(t, err)

	rows, err := e.ClassOnDate(f.class.ID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-10", rows[0].Date)
}

func TestStudentHistoryDefaultsToTrailing30Days(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime) // today = 2025-03-10

	for _, d := range []string{
		"2025-03-10", // today, included
		"2025-02-09", // 29 days back, the oldest day of the window
		"2025-02-08", // 30 days back, outside
		"2025-01-01", // far outside
	} {
		_, err := e.Create(teacherEntry(f, d, models.StatusPresent))
		require.NoError(t, err)
	}

	rows, err := e.StudentHistory(f.student.ID, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-10", rows[0].Date, "newest first")
	assert.Equal(t, "2025-02-09", rows[1].Date)
}

func TestStudentHistoryExplicitRange(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	for _, d := range []string{"2024-12-01", "2025-01-15", "2025-03-01"} {
		_, err := e.Create(teacherEntry(f, d, models.StatusPresent))
		require.NoError(t, err)
	}

	rows, err := e.StudentHistory(f.student.ID, "2025-01-01", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-01", rows[0].Date)

	rows, err = e.StudentHistory(f.student.ID, "", "2025-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-15", rows[0].Date)
}

func TestStudentHistoryTieBreaksOnNewestCreated(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	first, err := e.Create(teacherEntry(f, "2025-03-10", models.StatusAbsent))
	require.NoError(t, err)
	second, err := e.Create(teacherEntry(f, "2025-03-10", models.StatusPresent))
	require.NoError(t, err)

	rows, err := e.StudentHistory(f.student.ID, "2025-03-10", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID, "most recently created first")
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestStudentToday(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	e, _ := newTestEngine(db, baseTime)

	rec, err := e.StudentToday(f.student.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "no record today yet")

	_, err = e.CheckIn(f.student.ID)
	require.NoError(t, err)

	rec, err = e.StudentToday(f.student.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2025-03-10", rec.Date)
}
