package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

type PresetGameService struct {
	db *gorm.DB
}

func NewPresetGameService(db *gorm.DB) *PresetGameService {
	return &PresetGameService{db: db}
}

// List returns preset games, optionally filtered by a case-insensitive name
// substring.
func (s *PresetGameService) List(search string) ([]models.PresetGame, error) {
	query := s.db.Order("name ASC")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var games []models.PresetGame
	err := query.Find(&games).Error
	return games, err
}

func (s *PresetGameService) Create(name, link string) (*models.PresetGame, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("game name is required")
	}

	var existing models.PresetGame
	if err := s.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error; err == nil {
		return nil, errors.New("a preset game with this name already exists")
	}

	game := models.PresetGame{Name: name, Link: link}
	if err := s.db.Create(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *PresetGameService) Update(gameID uint, name, link string) (*models.PresetGame, error) {
	var game models.PresetGame
	if err := s.db.First(&game, gameID).Error; err != nil {
		return nil, errors.New("preset game not found")
	}

	changes := map[string]interface{}{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		changes["name"] = trimmed
	}
	changes["link"] = link
	if err := s.db.Model(&game).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *PresetGameService) Delete(gameID uint) error {
	res := s.db.Delete(&models.PresetGame{}, gameID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("preset game not found")
	}
	return nil
}

// Import inserts a batch of games, skipping names that already exist. Returns
// the number created.
func (s *PresetGameService) Import(games []models.PresetGame) (int, error) {
	created := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, game := range games {
			name := strings.TrimSpace(game.Name)
			if name == "" {
				continue
			}
			var existing models.PresetGame
			if err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error; err == nil {
				continue
			}
			if err := tx.Create(&models.PresetGame{Name: name, Link: game.Link}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
