package postgres

import (
	"context"
	"fmt"

	"cookbook-service/internal/domain/shoppinglist"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shoppingListColumns = `id, author_id, recipe_id, items, created_at, updated_at`

type ShoppingListRepository struct {
	db *DB
}

func NewShoppingListRepository(db *DB) *ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

func scanShoppingList(row pgx.Row) (*shoppinglist.ShoppingList, error) {
	l := &shoppinglist.ShoppingList{}
	err := row.Scan(&l.ID, &l.Author, &l.Recipe, &l.Items, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func nonNilItems(items []shoppinglist.Item) []shoppinglist.Item {
	if items == nil {
		return []shoppinglist.Item{}
	}
	return items
}

func (r *ShoppingListRepository) Create(ctx context.Context, input shoppinglist.CreateShoppingListInput) (*shoppinglist.ShoppingList, error) {
	query := `
		INSERT INTO shopping_lists (author_id, recipe_id, items)
		VALUES ($1, $2, $3)
		RETURNING ` + shoppingListColumns

	l, err := scanShoppingList(r.db.Pool.QueryRow(ctx, query, input.Author, input.Recipe, nonNilItems(input.Items)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.BadRequest(msgShoppingListRecipeInvalid)
		}
		return nil, errFailedCreateShoppingList(err)
	}

	return l, nil
}

func (r *ShoppingListRepository) GetByID(ctx context.Context, id uuid.UUID) (*shoppinglist.ShoppingList, error) {
	query := `SELECT ` + shoppingListColumns + ` FROM shopping_lists WHERE id = $1`

	l, err := scanShoppingList(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(fmt.Sprintf(msgShoppingListNotFoundFmt, id))
		}
		return nil, errFailedGetShoppingList(err)
	}

	return l, nil
}

func (r *ShoppingListRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*shoppinglist.ShoppingList, error) {
	query := `SELECT ` + shoppingListColumns + ` FROM shopping_lists WHERE author_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, errFailedListShoppingLists(err)
	}
	defer rows.Close()

	lists := []*shoppinglist.ShoppingList{}
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, errFailedScanShoppingList(err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListShoppingLists(err)
	}

	return lists, nil
}

func (r *ShoppingListRepository) Update(ctx context.Context, id uuid.UUID, input shoppinglist.UpdateShoppingListInput) (*shoppinglist.ShoppingList, error) {
	query := `
		UPDATE shopping_lists SET items = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + shoppingListColumns

	l, err := scanShoppingList(r.db.Pool.QueryRow(ctx, query, id, nonNilItems(input.Items)))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(fmt.Sprintf(msgShoppingListNotFoundFmt, id))
		}
		return nil, errFailedUpdateShoppingList(err)
	}

	return l, nil
}

func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM shopping_lists WHERE id = $1", id)
	if err != nil {
		return errFailedDeleteShoppingList(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(fmt.Sprintf(msgShoppingListNotFoundFmt, id))
	}

	return nil
}
