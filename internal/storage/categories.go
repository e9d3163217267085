package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coinkeep/coinkeep/internal/model"
)

// GetCategories returns all categories ordered by title.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db)
}

// GetCategoryByTitle returns a category by its title, or nil when absent.
// Matching is exact and case-sensitive.
func (s *SQLiteStorage) GetCategoryByTitle(ctx context.Context, title string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(title, "title"); err != nil {
		return nil, err
	}
	return getCategoryByTitle(ctx, s.db, title)
}

// GetCategoriesByTitles returns all categories whose title is in the given
// set, as a single batched query.
func (s *SQLiteStorage) GetCategoriesByTitles(ctx context.Context, titles []string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTitles(titles); err != nil {
		return nil, err
	}
	return getCategoriesByTitles(ctx, s.db, titles)
}

// CreateCategory creates a new category, returning the existing record if
// one with the same title is already present.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, title string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(title, "title"); err != nil {
		return nil, err
	}
	return createCategory(ctx, s.db, title)
}

// CreateCategories creates one category per title as a single batch.
func (s *SQLiteStorage) CreateCategories(ctx context.Context, titles []string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTitles(titles); err != nil {
		return nil, err
	}
	return createCategories(ctx, s.db, titles)
}

func getCategories(ctx context.Context, q querier) ([]model.Category, error) {
	query := `
		SELECT id, title, created_at
		FROM categories
		ORDER BY title`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapStoreErr(err, "query categories")
	}
	defer func() { _ = rows.Close() }()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func getCategoryByTitle(ctx context.Context, q querier, title string) (*model.Category, error) {
	query := `
		SELECT id, title, created_at
		FROM categories
		WHERE title = ?`

	var cat model.Category
	err := q.QueryRowContext(ctx, query, title).Scan(&cat.ID, &cat.Title, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, wrapStoreErr(err, "query category")
	}

	return &cat, nil
}

func getCategoriesByTitles(ctx context.Context, q querier, titles []string) ([]model.Category, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(titles)-1) + "?"
	query := fmt.Sprintf(`
		SELECT id, title, created_at
		FROM categories
		WHERE title IN (%s)`, placeholders)

	args := make([]any, len(titles))
	for i, title := range titles {
		args[i] = title
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr(err, "query categories by titles")
	}
	defer func() { _ = rows.Close() }()

	return scanCategories(rows)
}

func createCategory(ctx context.Context, q querier, title string) (*model.Category, error) {
	// Return the existing record rather than violating the unique title
	// constraint; callers treat create as create-if-absent.
	existing, err := getCategoryByTitle(ctx, q, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	result, err := q.ExecContext(ctx,
		`INSERT INTO categories (title, created_at) VALUES (?, ?)`, title, now)
	if err != nil {
		return nil, wrapStoreErr(err, "create category")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &model.Category{
		ID:        int(id),
		Title:     title,
		CreatedAt: now,
	}

	slog.Info("created new category", "title", title, "id", id)
	return category, nil
}

func createCategories(ctx context.Context, q querier, titles []string) ([]model.Category, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	categories := make([]model.Category, 0, len(titles))
	for _, title := range titles {
		result, err := q.ExecContext(ctx,
			`INSERT INTO categories (title, created_at) VALUES (?, ?)`, title, now)
		if err != nil {
			return nil, wrapStoreErr(err, fmt.Sprintf("create category %q", title))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get category ID for %q: %w", title, err)
		}

		categories = append(categories, model.Category{
			ID:        int(id),
			Title:     title,
			CreatedAt: now,
		})
	}

	slog.Info("created categories", "count", len(categories))
	return categories, nil
}

func scanCategories(rows *sql.Rows) ([]model.Category, error) {
	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Title, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
