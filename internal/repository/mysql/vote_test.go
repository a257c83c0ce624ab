package mysql_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	mysqlRepo "github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestVoteGetByVoterAndTarget(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "direction"}).
		AddRow(1, 5, "question", 10, "up")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vote` WHERE user_id = ? AND target_type = ? AND target_id = ?")).
		WithArgs(int64(5), "question", int64(10)).
		WillReturnRows(rows)

	vote, err := repo.GetByVoterAndTarget(context.Background(), 5, domain.TargetQuestion, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vote.ID)
	assert.Equal(t, domain.VoteUp, vote.Direction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteGetByVoterAndTargetNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vote`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByVoterAndTarget(context.Background(), 5, domain.TargetQuestion, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoteCountByTarget(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	rows := sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(4, 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(direction = 'up'), 0) AS upvotes, COALESCE(SUM(direction = 'down'), 0) AS downvotes FROM `vote` WHERE target_type = ? AND target_id = ?")).
		WithArgs("question", int64(10)).
		WillReturnRows(rows)

	tally, err := repo.CountByTarget(context.Background(), domain.TargetQuestion, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteTally{Score: 3, Upvotes: 4, Downvotes: 1}, tally)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteCountByTargetEmptyLedger(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	rows := sqlmock.NewRows([]string{"upvotes", "downvotes"}).AddRow(0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM `vote`")).WillReturnRows(rows)

	tally, err := repo.CountByTarget(context.Background(), domain.TargetAnswer, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteTally{}, tally)
}

func TestVoteUpdateDirection(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `vote` SET `direction`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateDirection(context.Background(), 1, domain.VoteDown)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteUpdateDirectionNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `vote`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateDirection(context.Background(), 999, domain.VoteUp)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoteDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `vote`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteDeleteNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `vote`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoteTransactionRollsBackOnError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := mysqlRepo.NewVoteRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(domain.VoteRepository) error {
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
