package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"btploc/internal/config"
	"btploc/internal/database"
	"btploc/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// Cleanup old data, children first.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM invoices")
	db.Exec("DELETE FROM support_tickets")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM favorites")
	db.Exec("DELETE FROM locations")
	db.Exec("DELETE FROM materiels")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@btploc.fr",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrateur",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@btploc.fr / admin123")

	clients := []domain.User{}
	clientSeeds := []struct {
		email   string
		name    string
		company string
	}{
		{"jean@batimax.fr", "Jean Moreau", "Batimax SARL"},
		{"sophie@tpconstruct.fr", "Sophie Leroy", "TP Construct"},
		{"karim@grosoeuvre.fr", "Karim Bensaïd", "Gros Oeuvre & Fils"},
	}
	for i, c := range clientSeeds {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		client := domain.User{
			Email:        c.email,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         c.name,
			Company:      c.company,
			Phone:        fmt.Sprintf("+33 6 12 34 56 %02d", 70+i),
		}
		db.Create(&client)
		clients = append(clients, client)
	}

	// ================== MATERIELS ==================
	log.Println("Creating materiels...")

	materiels := []domain.Materiel{
		{
			Name:        "Grue mobile Liebherr LTM 1060",
			Category:    domain.CategoryMobileCrane,
			PricePerDay: decimal.NewFromInt(1450),
			Status:      domain.MaterielAvailable,
			Specs:       map[string]string{"capacity": "60t", "boom": "48m"},
		},
		{
			Name:        "Pelle hydraulique CAT 320",
			Category:    domain.CategoryExcavator,
			PricePerDay: decimal.NewFromInt(520),
			Status:      domain.MaterielAvailable,
			Specs:       map[string]string{"weight": "20t", "bucket": "1.2m3"},
		},
		{
			Name:        "Nacelle ciseaux Haulotte Compact 12",
			Category:    domain.CategoryScissorLift,
			PricePerDay: decimal.NewFromInt(160),
			Status:      domain.MaterielAvailable,
			Specs:       map[string]string{"height": "12m"},
		},
		{
			Name:        "Chariot télescopique Manitou MT 1840",
			Category:    domain.CategoryTelescopicHandler,
			PricePerDay: decimal.NewFromInt(290),
			Status:      domain.MaterielMaintenance,
		},
		{
			Name:        "Compacteur Bomag BW 120",
			Category:    domain.CategoryCompactor,
			PricePerDay: decimal.NewFromInt(210),
			Status:      domain.MaterielAvailable,
		},
	}
	for i := range materiels {
		db.Create(&materiels[i])
	}

	// ================== LOCATIONS ==================
	log.Println("Creating locations...")

	start := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 3)
	location := domain.Location{
		UserID:     clients[0].ID,
		MaterielID: materiels[1].ID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: materiels[1].PricePerDay.Mul(decimal.NewFromInt(3)),
		Status:     domain.LocationActive,
		Notes:      "chantier Rue des Lilas",
	}
	db.Create(&location)

	past := domain.Location{
		UserID:     clients[1].ID,
		MaterielID: materiels[2].ID,
		StartDate:  time.Now().AddDate(0, 0, -10).Truncate(24 * time.Hour),
		EndDate:    time.Now().AddDate(0, 0, -6).Truncate(24 * time.Hour),
		TotalPrice: materiels[2].PricePerDay.Mul(decimal.NewFromInt(4)),
		Status:     domain.LocationCompleted,
	}
	db.Create(&past)

	// ================== INVOICES ==================
	log.Println("Creating invoices...")

	now := time.Now()
	invoice := domain.Invoice{
		LocationID: past.ID,
		UserID:     past.UserID,
		Number:     fmt.Sprintf("FAC-%d-SEED0001", now.Year()),
		Amount:     past.TotalPrice,
		Status:     domain.InvoiceIssued,
		IssuedAt:   now,
		DueAt:      now.AddDate(0, 1, 0),
	}
	db.Create(&invoice)

	log.Println("Seed completed")
}
