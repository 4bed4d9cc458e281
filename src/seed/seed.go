package seed

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nmatss/prova-modelagem-app/src/models"
)

// Seed creates the default administrator account when none exists yet.
func Seed(db *gorm.DB) {
	var admin models.UsuarioModel
	result := db.Where("username = ?", "admin").First(&admin)
	if result.Error == nil {
		log.Println("User 'admin' already exists")
		return
	}

	senha := os.Getenv("SEED_ADMIN_PASSWORD")
	if senha == "" {
		senha = "admin123"
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v\n", err)
	}

	newAdmin := models.UsuarioModel{
		Username:        "admin",
		Email:           "admin@example.com",
		NomeCompleto:    "Administrador do Sistema",
		PasswordHash:    string(hashedPassword),
		Role:            models.RoleAdmin,
		IsActive:        true,
		SenhaTemporaria: true,
	}
	if err := db.Create(&newAdmin).Error; err != nil {
		log.Printf("Failed to create admin user: %v\n", err)
	} else {
		log.Println("User 'admin' created")
	}
}
