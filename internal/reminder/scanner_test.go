package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/repository"
)

// fakeMailer records sends and optionally fails them.
type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendReminder(toEmail, toName, taskTitle string, deadline *time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail+":"+taskTitle)
	return nil
}

func newScannerEnv(t *testing.T) (*gorm.DB, repository.TaskRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMember{}, &models.Task{}, &models.Comment{}))

	return db, repository.NewTaskRepository(db)
}

func seedTask(t *testing.T, db *gorm.DB, title string, reminder *time.Time, notified bool) *models.Task {
	t.Helper()

	user := &models.User{Name: "Alice", Email: title + "@example.com", PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)

	project := &models.Project{Name: title + " project", CreatorID: user.ID}
	require.NoError(t, db.Create(project).Error)

	task := &models.Task{
		Title:      title,
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		CreatorID:  user.ID,
		ProjectID:  project.ID,
		AssigneeID: &user.ID,
		Reminder:   reminder,
		Notified:   notified,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestScanSendsDueReminders(t *testing.T) {
	db, repo := newScannerEnv(t)
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	seedTask(t, db, "due", &past, false)
	seedTask(t, db, "not-due", &future, false)
	seedTask(t, db, "already-notified", &past, true)
	seedTask(t, db, "no-reminder", nil, false)

	m := &fakeMailer{}
	scanner := NewScanner(repo, m, time.Minute)

	scanner.Scan(now)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "due@example.com:due", m.sent[0])

	// The sent task is flagged; a second cycle finds nothing.
	scanner.Scan(now)
	assert.Len(t, m.sent, 1)
}

func TestScanFailedSendStaysEligible(t *testing.T) {
	db, repo := newScannerEnv(t)
	now := time.Now()

	past := now.Add(-time.Minute)
	task := seedTask(t, db, "flaky", &past, false)

	m := &fakeMailer{err: errors.New("smtp down")}
	scanner := NewScanner(repo, m, time.Minute)

	scanner.Scan(now)
	assert.Empty(t, m.sent)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.False(t, reloaded.Notified)

	// Once the mailer recovers, the next cycle delivers.
	m.err = nil
	scanner.Scan(now)
	assert.Len(t, m.sent, 1)
}

func TestScanSkipsUnassignedTasks(t *testing.T) {
	db, repo := newScannerEnv(t)
	now := time.Now()

	past := now.Add(-time.Minute)
	task := seedTask(t, db, "orphan", &past, false)
	require.NoError(t, db.Model(task).Update("assignee_id", nil).Error)

	m := &fakeMailer{}
	scanner := NewScanner(repo, m, time.Minute)

	scanner.Scan(now)
	assert.Empty(t, m.sent)
}

func TestStartStop(t *testing.T) {
	db, repo := newScannerEnv(t)
	_ = db

	scanner := NewScanner(repo, &fakeMailer{}, 10*time.Millisecond)
	scanner.Start()
	time.Sleep(30 * time.Millisecond)
	scanner.Stop()

	// Stop is idempotent.
	scanner.Stop()
}
