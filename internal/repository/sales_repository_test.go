package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"PhonePortal/internal/domain/models"
	pkgch "PhonePortal/pkg/clickhouse"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSalesStore(t *testing.T) (*ClickHouseSalesStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewClickHouseSalesStore(pkgch.NewFromDB(db), "portal.sales"), mock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClickHouseSalesStoreInit(t *testing.T) {
	s, mock := newMockSalesStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS portal.sales")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreStoreBatch(t *testing.T) {
	s, mock := newMockSalesStore(t)
	records := []models.SaleRecord{
		{Date: day(2024, 1, 1), Product: "x1", Sales: 3},
		{Date: day(2024, 1, 2), Product: "x2", Sales: 4.5},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO portal.sales (ts, product, sales) VALUES (?, ?, ?)"))
	prep.ExpectExec().WithArgs(day(2024, 1, 1), "x1", 3.0).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(day(2024, 1, 2), "x2", 4.5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.StoreBatch(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreStoreBatchRollsBack(t *testing.T) {
	s, mock := newMockSalesStore(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO portal.sales")
	prep.ExpectExec().WillReturnError(errors.New("too many parts"))
	mock.ExpectRollback()

	err := s.StoreBatch(context.Background(), []models.SaleRecord{{Date: day(2024, 1, 1), Sales: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many parts")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreStoreBatchEmpty(t *testing.T) {
	s, mock := newMockSalesStore(t)
	require.NoError(t, s.StoreBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreDailySales(t *testing.T) {
	s, mock := newMockSalesStore(t)
	rows := sqlmock.NewRows([]string{"d", "total"}).
		AddRow(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), 12.0).
		AddRow(day(2024, 3, 4), 7.5)
	mock.ExpectQuery(`SELECT toDate\(ts\) AS d, sum\(sales\) AS total\s+FROM portal\.sales\s+WHERE product = \?`).
		WithArgs("x1").
		WillReturnRows(rows)

	obs, err := s.DailySales(context.Background(), "x1")
	require.NoError(t, err)
	assert.Equal(t, []models.Observation{
		{Date: day(2024, 3, 1), Sales: 12},
		{Date: day(2024, 3, 4), Sales: 7.5},
	}, obs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreDailySalesAllProducts(t *testing.T) {
	s, mock := newMockSalesStore(t)
	mock.ExpectQuery(`FROM portal\.sales\s+GROUP BY d`).
		WillReturnRows(sqlmock.NewRows([]string{"d", "total"}))

	obs, err := s.DailySales(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, obs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSalesStoreDailySalesError(t *testing.T) {
	s, mock := newMockSalesStore(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := s.DailySales(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily sales")
}

func TestSaleRecordEvent(t *testing.T) {
	ev := models.SaleRecord{Date: day(2024, 2, 29), Product: "x1", Sales: 2}.Event()
	assert.Equal(t, models.SaleEvent{Date: "2024-02-29", Product: "x1", Sales: 2}, ev)
}
