package attendance_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/attendance"
	"github.com/appdotbuilder/sekolah-absenku/database"
	"github.com/appdotbuilder/sekolah-absenku/models"
)

// newTestDB opens an isolated in-memory store with FK enforcement on.
// The pool is pinned to one connection so every query sees the same
// memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db      *gorm.DB
	class   models.Class
	student models.Student
	teacher models.Teacher
}

func seed(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.class = models.Class{Name: "X IPA 1"}
	require.NoError(t, db.Create(&f.class).Error)

	su := models.User{Username: "siswa1", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&su).Error)
	f.student = models.Student{UserID: su.ID, ClassID: f.class.ID, NIS: "1001", FullName: "Budi Santoso"}
	require.NoError(t, db.Create(&f.student).Error)

	tu := models.User{Username: "guru1", Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&tu).Error)
	f.teacher = models.Teacher{UserID: tu.ID, NIP: "2001", FullName: "Siti Aminah"}
	require.NoError(t, db.Create(&f.teacher).Error)

	return f
}

// addStudent creates one more student (and its user) in the given class.
func addStudent(t *testing.T, db *gorm.DB, classID uint, nis string) models.Student {
	t.Helper()
	u := models.User{Username: "siswa-" + nis, Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&u).Error)
	s := models.Student{UserID: u.ID, ClassID: classID, NIS: nis, FullName: "Siswa " + nis}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// newTestEngine returns an engine with a controllable clock. The
// returned setter moves "now"; the zone is UTC for determinism.
func newTestEngine(db *gorm.DB, start time.Time) (*attendance.Engine, func(time.Time)) {
	now := start
	e := attendance.NewEngine(db, time.UTC).WithClock(func() time.Time { return now })
	return e, func(tm time.Time) { now = tm }
}

func countAttendance(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&n).Error)
	return n
}

var baseTime = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
