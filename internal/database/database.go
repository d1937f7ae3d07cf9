package database

import (
	"errors"
	"log"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Verification{},
		&models.AccountDetail{},
		&models.Validation{},
		&models.Follow{},
		&models.Membership{},
		&models.Notification{},
		&models.Wallet{},
		&models.TxHistory{},
		&models.Article{},
		&models.Boosting{},
		&models.Comment{},
		&models.Reply{},
		&models.Like{},
		&models.Bookmark{},
		&models.Category{},
		&models.Advert{},
		&models.Forum{},
		&models.ForumParticipant{},
		&models.ForumJoinRequest{},
		&models.ForumMessage{},
		&models.ForumReadStatus{},
		&models.Job{},
	)
}

// SeedAdmin creates the first admin account if none exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	var existing models.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        cfg.Email,
		Username:     "admin",
		Fullname:     "Platform Admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	if err := db.Create(&models.Verification{UserID: admin.ID, EmailVerified: true}).Error; err != nil {
		return err
	}
	if err := db.Create(&models.Wallet{UserID: admin.ID}).Error; err != nil {
		return err
	}
	log.Printf("[Seed] admin account created: %s", cfg.Email)
	return nil
}

// DefaultCategories is the starter set; admins manage the list afterwards.
var DefaultCategories = []string{
	"General Health",
	"Cardiology",
	"Nephrology",
	"Neurology",
	"Pediatrics",
	"Mental Health",
	"Nutrition",
	"Public Health",
	"Research",
}

// SeedCategories ensures the curated category list exists.
func SeedCategories(db *gorm.DB, categories []string) error {
	for _, text := range categories {
		cat := models.Category{Text: text}
		if err := db.Where("text = ?", text).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}
