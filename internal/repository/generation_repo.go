package repository

import (
	"context"

	"github.com/timmy/chadgen/internal/domain"
	"gorm.io/gorm"
)

// GenerationRepository handles generation history.
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new GenerationRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *GenerationRepository: repository instance bound to db.
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a new generation record.
func (r *GenerationRepository) Create(ctx context.Context, g *domain.Generation) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// GetByID retrieves a generation by its ID. Missing rows return gorm.ErrRecordNotFound.
func (r *GenerationRepository) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	var g domain.Generation
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// List retrieves generations newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records.
//   - offset: number of records to skip.
//
// Returns:
//   - []domain.Generation: page of records.
//   - error: non-nil if the query fails.
func (r *GenerationRepository) List(ctx context.Context, limit, offset int) ([]domain.Generation, error) {
	var out []domain.Generation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// ListByTopic retrieves generations for a topic newest first.
func (r *GenerationRepository) ListByTopic(ctx context.Context, topic string, limit int) ([]domain.Generation, error) {
	var out []domain.Generation
	err := r.db.WithContext(ctx).
		Where("topic = ?", topic).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Count returns the total number of generations.
func (r *GenerationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Generation{}).Count(&count).Error
	return count, err
}
