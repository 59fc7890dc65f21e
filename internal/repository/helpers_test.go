package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/adamanr/org_registry/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockDB represents a mock database connection.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Rows), callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

// assign copies val into the pointer dest the way pgx does: NULL only scans
// into a destination that can hold nil, and a value into **T allocates.
func assign(dest, val any) error {
	target := reflect.ValueOf(dest).Elem()
	if val == nil {
		if target.Kind() != reflect.Pointer {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	v := reflect.ValueOf(val)
	switch {
	case v.Type().AssignableTo(target.Type()):
		target.Set(v)
	case target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Type().Elem()):
		ptr := reflect.New(target.Type().Elem())
		ptr.Elem().Set(v)
		target.Set(ptr)
	default:
		return fmt.Errorf("cannot scan %T into %T", val, dest)
	}
	return nil
}

func scanInto(data []any, dest []any) error {
	for i, val := range data {
		if i >= len(dest) {
			break
		}
		if err := assign(dest[i], val); err != nil {
			return fmt.Errorf("can't scan into dest[%d]: %w", i, err)
		}
	}
	return nil
}

// MockRow represents a mock database row.
type MockRow struct {
	data []any
	err  error
}

func NewMockRow(data []any, err error) *MockRow {
	return &MockRow{data: data, err: err}
}

func (m *MockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	return scanInto(m.data, dest)
}

// MockRows represents mock database rows.
type MockRows struct {
	rows [][]any
	pos  int
	err  error
}

func NewMockRows(rows [][]any, err error) *MockRows {
	return &MockRows{rows: rows, pos: -1, err: err}
}

func (m *MockRows) Next() bool {
	if m.err != nil {
		return false
	}
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {}

func (m *MockRows) Scan(dest ...any) error {
	return scanInto(m.rows[m.pos], dest)
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT")
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}

func (m *MockRows) Values() ([]any, error) {
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Test data helpers.
func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

var testTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func CreateTestAudit() entity.Audit {
	return entity.Audit{
		RegisteredBy: "admin",
		RegisteredAt: testTime,
		UpdatedBy:    StringPtr("editor"),
		UpdatedAt:    TimePtr(testTime.Add(time.Hour)),
		DeleteFlag:   entity.FlagActive,
	}
}

func CreateTestDepartment(code string) entity.Department {
	return entity.NewDepartment(entity.DepartmentParams{
		DeptCode:       code,
		DeptName:       "Department " + code,
		ParentDeptCode: StringPtr("D000"),
		Audit:          CreateTestAudit(),
	})
}

func CreateTestPosition(code string) entity.Position {
	return entity.NewPosition(entity.PositionParams{
		PstCode: code,
		PstName: "Position " + code,
		Sno:     1,
		Audit:   CreateTestAudit(),
	})
}

func CreateTestDeptPosRel(userPid int64, deptCode string) entity.DeptPosRel {
	return entity.NewDeptPosRel(entity.DeptPosRelParams{
		UserPid:  userPid,
		DeptCode: deptCode,
		PstCode:  "P01",
		GnfdYmd:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Prrk:     1,
	})
}

func CreateTestUser(pid int64) entity.User {
	return entity.NewUser(entity.UserParams{
		UserPid:  pid,
		UserID:   "user",
		UserName: "Test User",
		Email:    "user@example.com",
		Audit:    CreateTestAudit(),
	})
}
