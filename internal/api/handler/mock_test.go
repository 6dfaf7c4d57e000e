package handler

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

func sqlContaining(fragment string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, fragment) })
}

// handlerMockRow assigns values to the scan destinations in order.
type handlerMockRow struct {
	values []any
	err    error
}

func (m *handlerMockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) != len(m.values) {
		return fmt.Errorf("scan: got %d destinations, want %d", len(dest), len(m.values))
	}
	for i, v := range m.values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

func userRow(u model.User) *handlerMockRow {
	return &handlerMockRow{values: []any{u.ID, u.Name, u.AvatarURL, u.Email, u.Role, u.AgencyID, u.CreatedAt, u.UpdatedAt}}
}

func subAccountRow(sa model.SubAccount) *handlerMockRow {
	return &handlerMockRow{values: []any{sa.ID, sa.AgencyID, sa.ConnectAccountID, sa.Name, sa.SubAccountLogo,
		sa.CompanyEmail, sa.CompanyPhone, sa.Goal, sa.Address, sa.City, sa.ZipCode, sa.State, sa.Country,
		sa.CreatedAt, sa.UpdatedAt}}
}

func noRow() *handlerMockRow {
	return &handlerMockRow{err: pgx.ErrNoRows}
}

// handlerMockRows yields one row per entry.
type handlerMockRows struct {
	rows []*handlerMockRow
	idx  int
}

func (m *handlerMockRows) Next() bool { return m.idx < len(m.rows) }
func (m *handlerMockRows) Scan(dest ...any) error {
	r := m.rows[m.idx]
	m.idx++
	return r.Scan(dest...)
}
func (m *handlerMockRows) Err() error                                   { return nil }
func (m *handlerMockRows) Close()                                       {}
func (m *handlerMockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *handlerMockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *handlerMockRows) RawValues() [][]byte                          { return nil }
func (m *handlerMockRows) Values() ([]any, error)                       { return nil, nil }
func (m *handlerMockRows) Conn() *pgx.Conn                              { return nil }

// stubIdP satisfies core.IdentityProvider without network calls.
type stubIdP struct{}

func (stubIdP) SetUserRole(context.Context, string, string) error { return nil }
func (stubIdP) CreateInvitation(context.Context, identity.InvitationRequest) (*identity.Invitation, error) {
	return &identity.Invitation{ID: "inv_ext"}, nil
}

// newTestServices wires real services over db.
func newTestServices(db *handlerMockDB) *core.Services {
	return core.NewServices(db, stubIdP{}, "https://app.test/agency")
}

func strPtr(s string) *string { return &s }

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func member(role model.Role, agencyID string) model.User {
	u := model.User{
		ID:        "user_1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Role:      role,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if agencyID != "" {
		u.AgencyID = strPtr(agencyID)
	}
	return u
}

// expectCaller makes the caller lookup return u.
func expectCaller(db *handlerMockDB, u model.User) {
	db.On("QueryRow", mock.Anything, sqlContaining("FROM users WHERE email = $1"), []any{u.Email}).
		Return(userRow(u))
}

// statement matches SQL starting with verb and containing fragment.
func statement(verb, fragment string) any {
	return mock.MatchedBy(func(sql string) bool {
		return strings.HasPrefix(strings.TrimSpace(sql), verb) && strings.Contains(sql, fragment)
	})
}

func testSubAccount(agencyID string) model.SubAccount {
	return model.SubAccount{
		ID:           "sa_1",
		AgencyID:     agencyID,
		Name:         "Harbor Coffee",
		CompanyEmail: "hello@harbor.test",
		CompanyPhone: "555-0100",
		Address:      "1 Pier Rd",
		City:         "Portland",
		ZipCode:      "97201",
		State:        "OR",
		Country:      "US",
		CreatedAt:    testTime,
		UpdatedAt:    testTime,
	}
}
