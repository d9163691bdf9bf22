package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// planOnlyConn answers subscription-plan queries with one canned row
// and fails everything else, standing in for a master database whose
// tenants table is unreachable.
type planOnlyConn struct{}

func (planOnlyConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare unsupported") }
func (planOnlyConn) Close() error                        { return nil }
func (planOnlyConn) Begin() (driver.Tx, error)           { return nil, errors.New("transactions unsupported") }

func (planOnlyConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if strings.Contains(query, `"subscription_plans"`) {
		return &staticRows{
			cols: []string{"id", "name", "max_users"},
			vals: [][]driver.Value{{int64(1), "Basic", int64(5)}},
		}, nil
	}
	return nil, errors.New("relation unavailable")
}

type staticRows struct {
	cols []string
	vals [][]driver.Value
	next int
}

func (r *staticRows) Columns() []string { return r.cols }
func (r *staticRows) Close() error      { return nil }
func (r *staticRows) Next(dest []driver.Value) error {
	if r.next >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.next])
	r.next++
	return nil
}

type planOnlyConnector struct{}

func (planOnlyConnector) Connect(context.Context) (driver.Conn, error) { return planOnlyConn{}, nil }
func (planOnlyConnector) Driver() driver.Driver                        { return nil }

func newPlanOnlyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sql.OpenDB(planOnlyConnector{})}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestGetPlanTenantQueryFailureIsNot200(t *testing.T) {
	h := NewSubscriptionHandler(newPlanOnlyDB(t), nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/master/subscriptions/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "query failed")
}
