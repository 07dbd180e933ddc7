package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/config"
	"github.com/appdotbuilder/sekolah-absenku/models"
)

// Connect opens the configured Postgres database and runs migrations.
// The handle is returned, not stored in a package global, so handlers
// and the attendance engine receive it explicitly and tests can swap
// in another store.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// duplicate keys and FK violations become gorm.ErrDuplicatedKey /
		// gorm.ErrForeignKeyViolated regardless of driver
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the six tables. Order matters: referenced
// tables first so FK constraints resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Student{},
		&models.Teacher{},
		&models.TeacherClass{},
		&models.Attendance{},
	)
}
