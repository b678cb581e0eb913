package service

import (
	"fmt"
	"strings"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

type CategoryService struct {
	storage *storage.Storage
}

func NewCategoryService(s *storage.Storage) *CategoryService {
	return &CategoryService{storage: s}
}

func (s *CategoryService) Create(userID int64, name, color string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}

	existing, err := s.storage.GetCategoryByName(userID, name)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("category '%s' already exists", name)
	}

	category := &domain.Category{
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.storage.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(userID int64) ([]*domain.Category, error) {
	return s.storage.ListCategories(userID)
}

// GetOrCreate resolves a category by name, creating it on first use
func (s *CategoryService) GetOrCreate(userID int64, name string) (*domain.Category, error) {
	existing, err := s.storage.GetCategoryByName(userID, name)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.Create(userID, name, "")
}

func (s *CategoryService) Delete(categoryID, userID int64) error {
	category, err := s.storage.GetCategory(categoryID)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("category not found")
	}
	if category.UserID != userID {
		return fmt.Errorf("access denied")
	}
	return s.storage.DeleteCategory(categoryID)
}

func (s *CategoryService) FormatCategoryList(categories []*domain.Category) string {
	if len(categories) == 0 {
		return "Chưa có danh mục nào"
	}

	var sb strings.Builder
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("📂 #%d %s\n", c.ID, c.Name))
	}
	return sb.String()
}
