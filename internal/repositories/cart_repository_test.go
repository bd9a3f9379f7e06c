package repository_test

import (
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCartRepo(db)
	ctx := t.Context()

	t.Run("CreateCart", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			cart := &models.Cart{
				ID:     uuid.New(),
				UserID: uuid.New(),
				Items:  []models.CartItem{},
			}
			now := time.Now()
			itemsJSON, err := json.Marshal(cart.Items)
			require.NoError(t, err)

			expectedSQL := regexp.QuoteMeta(`INSERT INTO carts (id, user_id, items, created_at, updated_at) VALUES($1, $2, $3, NOW(), NOW()) RETURNING id, created_at, updated_at`)

			mock.ExpectQuery(expectedSQL).
				WithArgs(cart.ID, cart.UserID, itemsJSON).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(cart.ID, now, now))

			// Act
			err = repo.CreateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			assert.WithinDuration(t, now, cart.CreatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetCartByUserID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			cartID := uuid.New()
			userID := uuid.New()
			productID := uuid.New()
			now := time.Now()

			items := []models.CartItem{
				{ProductID: productID, Quantity: 2, SelectedSize: "M", SelectedColor: "black"},
			}
			itemsJSON, err := json.Marshal(items)
			require.NoError(t, err)

			mock.ExpectQuery(expectedSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID, userID, itemsJSON, now, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, productID, cart.Items[0].ProductID)
			assert.Equal(t, 2, cart.Items[0].Quantity)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			// Arrange
			userID := uuid.New()

			mock.ExpectQuery(expectedSQL).
				WithArgs(userID).
				WillReturnError(sql.ErrNoRows)

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, cart)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateCart", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`UPDATE carts SET items = $1, updated_at = $2 WHERE id = $3`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			cart := &models.Cart{
				ID:     uuid.New(),
				UserID: uuid.New(),
				Items: []models.CartItem{
					{ProductID: uuid.New(), Quantity: 1},
				},
			}
			itemsJSON, err := json.Marshal(cart.Items)
			require.NoError(t, err)

			mock.ExpectExec(expectedSQL).
				WithArgs(itemsJSON, sqlmock.AnyArg(), cart.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err = repo.UpdateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("No Matching Cart", func(t *testing.T) {
			// Arrange
			cart := &models.Cart{ID: uuid.New(), Items: []models.CartItem{}}
			itemsJSON, err := json.Marshal(cart.Items)
			require.NoError(t, err)

			mock.ExpectExec(expectedSQL).
				WithArgs(itemsJSON, sqlmock.AnyArg(), cart.ID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err = repo.UpdateCart(ctx, cart)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
