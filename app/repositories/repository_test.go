package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_RoleByUserID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT * FROM `users` WHERE id = ?")

	t.Run("profile row present", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("u1", "a@b.c", "admin"))

		role, err := NewUserRepository(db).RoleByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "admin", role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no profile row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}))

		role, err := NewUserRepository(db).RoleByUserID(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection refused")
		mock.ExpectQuery(query).WillReturnError(boom)

		_, err := NewUserRepository(db).RoleByUserID(ctx, "u3")
		assert.ErrorIs(t, err, boom)
	})
}

func TestUserRepository_RolesByUserIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("batch read", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`,`role` FROM `users` WHERE id IN (?,?)")).
			WithArgs("u1", "u2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).AddRow("u1", "superadmin"))

		roles, err := NewUserRepository(db).RolesByUserIDs(ctx, []string{"u1", "u2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"u1": "superadmin"}, roles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids skips the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		roles, err := NewUserRepository(db).RolesByUserIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, roles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_LinkPromotion(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewProductRepository(db).LinkPromotion(context.Background(), "p1", "promo-1", "10% OFF")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UnlinkPromotion(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE `products` SET")
	count := regexp.QuoteMeta("SELECT count(*) FROM `products` WHERE id = ?")

	t.Run("missing product is reported", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(count).WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		err := NewProductRepository(db).UnlinkPromotion(context.Background(), "ghost")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already unlinked product is not an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(count).WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

		err := NewProductRepository(db).UnlinkPromotion(context.Background(), "p1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_DeleteUncategorizesProducts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET `category_id`=?")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `categories` WHERE id = ?")).
		WithArgs("cat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewCategoryRepository(db).Delete(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_DeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("lock wait timeout")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET `category_id`=?")).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := NewCategoryRepository(db).Delete(context.Background(), "cat-1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepository_SlugTaken(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `seasonal_promotions` WHERE slug = ? AND id <> ?")).
		WithArgs("summer-sale", "promo-1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	taken, err := NewPromotionRepository(db).SlugTaken(context.Background(), "summer-sale", "promo-1")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
