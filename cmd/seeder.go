package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and starter categories for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"expenses", "recurring_expenses", "budgets", "categories", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		demoEmail := "demo@mail.com"
		demoName := "Demo User"

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", demoEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("demo user already exists:", demoEmail)
		} else {
			if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", demoEmail, demoName, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		}

		var userID int64
		row = db.Raw("SELECT id FROM users WHERE email = ?", demoEmail).Row()
		if err := row.Scan(&userID); err != nil {
			log.Fatalf("failed to look up demo user: %v", err)
		}

		categories := []string{
			"Food",
			"Transport",
			"Housing",
			"Utilities",
			"Entertainment",
			"Health",
			"Travel",
			"Other",
		}

		for _, name := range categories {
			var cid int64
			row := db.Raw("SELECT id FROM categories WHERE user_id = ? AND name = ?", userID, name).Row()
			if err := row.Scan(&cid); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO categories (user_id, name, created_at, updated_at) VALUES (?, ?, now(), now())", userID, name).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", name, err)
			}
			fmt.Println("Seeded category:", name)
		}

		fmt.Println("Seeding complete")
	},
}
