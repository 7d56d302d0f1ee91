// Command create_admin provisions a staff account directly in the
// database. Use it to bootstrap the first superadmin; further staff
// accounts can then be created over the API.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"itrportal/internal/config"
	"itrportal/internal/models"
	"itrportal/internal/services"
)

func main() {
	name := flag.String("name", "", "display name for the account")
	email := flag.String("email", "", "login email")
	phone := flag.String("phone", "", "phone number")
	password := flag.String("password", "", "login password, at least 8 characters")
	role := flag.String("role", string(models.RoleSuperAdmin), "account role: admin or superadmin")
	flag.Parse()

	if *name == "" || *email == "" || *phone == "" || len(*password) < 8 {
		log.Fatal("name, email, phone and a password of at least 8 characters are required")
	}
	staffRole := models.Role(*role)
	if staffRole != models.RoleAdmin && staffRole != models.RoleSuperAdmin {
		log.Fatalf("invalid role %q, must be admin or superadmin", *role)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         *name,
		Email:        *email,
		PhoneNumber:  *phone,
		PasswordHash: string(hash),
		Role:         staffRole,
		Status:       models.StatusCompleted,
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatalf("Failed to create staff account: %v", err)
	}

	log.Printf("Created %s account %s (id=%d)", user.Role, user.Email, user.ID)
}
