package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/danass/leha/feature/registry/models"
)

// Service answers read queries over the reconciled registry.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new registry query service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// GetFiche returns one certification record with its certificateurs,
// partenaires and competence blocks. Returns gorm.ErrRecordNotFound when the
// numero is unknown.
func (s *Service) GetFiche(ctx context.Context, numero string) (*models.Fiche, error) {
	var fiche models.Fiche
	err := s.db.WithContext(ctx).
		Preload("Certificateurs").
		Preload("Partenaires").
		Preload("Blocs").
		First(&fiche, "numero_fiche = ?", numero).Error
	if err != nil {
		return nil, err
	}
	return &fiche, nil
}

// ListFiches returns a page of certification records, newest numero first,
// plus the total count. When actif is non-empty only records with that
// status are returned.
func (s *Service) ListFiches(ctx context.Context, actif string, limit, offset int) ([]models.Fiche, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Fiche{})
	if actif != "" {
		query = query.Where("actif = ?", actif)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var fiches []models.Fiche
	err := query.
		Order("numero_fiche DESC").
		Limit(limit).
		Offset(offset).
		Find(&fiches).Error
	if err != nil {
		return nil, 0, err
	}
	return fiches, total, nil
}
