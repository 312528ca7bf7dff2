package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestUserFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).
		AddRow(1, "Alice", "alice@example.com", "hashed")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), user.ID)
	assert.Equal(t, "Alice", user.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}))

	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskMarkNotified(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET").
		WithArgs(true, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkNotified(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskListDueReminders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	now := time.Now()
	due := now.Add(-time.Minute)

	taskRows := sqlmock.NewRows([]string{"id", "title", "assignee_id", "project_id", "reminder", "notified"}).
		AddRow(7, "due", 1, 3, due, false)
	mock.ExpectQuery("SELECT \\* FROM `tasks` WHERE reminder IS NOT NULL AND reminder <= \\? AND notified = \\?").
		WithArgs(sqlmock.AnyArg(), false).
		WillReturnRows(taskRows)

	userRows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow(1, "Alice", "alice@example.com")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(1).
		WillReturnRows(userRows)

	tasks, err := repo.ListDueReminders(now)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "due", tasks[0].Title)
	require.NotNil(t, tasks[0].Assignee)
	assert.Equal(t, "alice@example.com", tasks[0].Assignee.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}
