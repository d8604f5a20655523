package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testSchema — схема тестовой базы. Повторяет миграции из ./migrations.
const testSchema = `
	DROP TABLE IF EXISTS attachments CASCADE;
	DROP TABLE IF EXISTS milestones CASCADE;
	DROP TABLE IF EXISTS tasks CASCADE;
	DROP TABLE IF EXISTS projects CASCADE;
	DROP TABLE IF EXISTS users CASCADE;

	CREATE TABLE users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'DEVELOPER',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		expected_end_date DATE,
		status TEXT NOT NULL DEFAULT 'PENDING',
		budget NUMERIC(15,2) NOT NULL DEFAULT 0,
		manager_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE tasks (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date DATE,
		status TEXT NOT NULL DEFAULT 'PENDING',
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		assignee_id BIGINT REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE milestones (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date DATE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE attachments (
		id BIGSERIAL PRIMARY KEY,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		storage_key TEXT NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		uploaded_by_id BIGINT NOT NULL REFERENCES users(id),
		task_id BIGINT REFERENCES tasks(id) ON DELETE CASCADE,
		project_id BIGINT REFERENCES projects(id) ON DELETE CASCADE,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(dsn)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(testSchema)
	require.NoError(t, err, "failed to apply test schema")

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, 'hashedpassword', 'Test', 'User', $3) RETURNING id`,
		username, email, role).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateProject создает тестовый проект и возвращает его ID.
func (f *TestDataFactory) CreateProject(t *testing.T, name string, managerID int64, startDate time.Time) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO projects (name, start_date, manager_id)
		VALUES ($1, $2, $3) RETURNING id`,
		name, startDate, managerID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTask создает тестовую задачу и возвращает ее ID.
func (f *TestDataFactory) CreateTask(t *testing.T, name string, projectID int64, assigneeID *int64) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO tasks (name, project_id, assignee_id)
		VALUES ($1, $2, $3) RETURNING id`,
		name, projectID, assigneeID).Scan(&id)
	require.NoError(t, err)
	return id
}
