package reference

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/database"
	apperrors "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/errors"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func TestCategoryName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT name FROM categories WHERE id = \$1`).
		WithArgs("cat-1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Outdoor"))

	name, err := repo.CategoryName(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Outdoor", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryNameNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT name FROM categories WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"name"}))

	_, err := repo.CategoryName(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT name FROM brands WHERE id = \$1`).
		WithArgs("brand-1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Northwind"))

	name, err := repo.BrandName(context.Background(), "brand-1")
	require.NoError(t, err)
	assert.Equal(t, "Northwind", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT first_name \|\| ' ' \|\| last_name FROM customers WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Ayse Yilmaz"))

	name, err := repo.CustomerName(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ayse Yilmaz", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRating(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM reviews WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.25, 8))

	avg, count, err := repo.ProductRating(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.25, avg)
	assert.Equal(t, 8, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRatingNoReviews(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The aggregate query always returns a row; no reviews means zeros.
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM reviews WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	avg, count, err := repo.ProductRating(context.Background(), "p1")
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
