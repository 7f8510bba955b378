package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-7' for key 'uniq_resource_question'"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("create link: %w", dup)))
	assert.True(t, IsDuplicateEntry(gorm.ErrDuplicatedKey))

	assert.False(t, IsDuplicateEntry(nil))
	assert.False(t, IsDuplicateEntry(errors.New("connection refused")))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, IsDuplicateEntry(gorm.ErrRecordNotFound))
}

func newMockRepo(t *testing.T) (*LinkRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewLinkRepository(gdb), mock
}

// 解除关联会在序号里留下空洞：现存 {0, 2}。平移量必须高于
// 现存最大序号——按行数（2）平移会把 0 移到 2，撞上尚未更新的行。
func TestReorderShiftClearsLiveIndexes(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(order_index\), -1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectExec(`UPDATE .resource_questions. SET .order_index.=order_index \+ \?`).
		WithArgs(3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE .resource_questions. SET .order_index.=\?`).
		WithArgs(0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE .resource_questions. SET .order_index.=\?`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reorder(1, []uint{5, 7}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderRejectsPartialCoverage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.Reorder(1, []uint{5, 7})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
