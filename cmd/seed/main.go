// Command seed populates the database with demo accounts so the API can
// be exercised without manual signup.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/careconnect/careconnect-api/internal/accounts"
	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

const seedPassword = "password123"

var seedAccounts = []accounts.SignupRequest{
	{
		Name:     "Harry Potter",
		Email:    "harry.potter@hogwarts.edu",
		Password: seedPassword,
		Role:     "PATIENT",
	},
	{
		Name:            "Dr. Hermione Granger",
		Email:           "dr.hermione@hogwarts.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Cardiology",
		Experience:      "15 years",
		Location:        "Hogwarts School of Witchcraft and Wizardry",
		Address:         "Great Hall, Hogwarts Castle, Scotland",
		Expertise:       doctors.StringList{"Heart Disease", "Hypertension", "Cardiac Surgery"},
		Languages:       doctors.StringList{"English", "Ancient Runes"},
		ConsultationFee: "$200",
	},
	{
		Name:            "Dr. Sirius Black",
		Email:           "dr.sirius@grimmauld.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Neurology",
		Experience:      "12 years",
		Location:        "Grimmauld Place",
		Address:         "12 Grimmauld Place, London, England",
		Expertise:       doctors.StringList{"Stroke", "Epilepsy", "Multiple Sclerosis"},
		Languages:       doctors.StringList{"English", "French"},
		ConsultationFee: "$250",
	},
	{
		Name:            "Dr. Remus Lupin",
		Email:           "dr.remus@hogsmeade.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Gastroenterology",
		Experience:      "10 years",
		Location:        "Hogsmeade Village",
		Address:         "The Three Broomsticks, Hogsmeade, Scotland",
		Expertise:       doctors.StringList{"IBS", "Crohn's Disease", "Digestive Health"},
		Languages:       doctors.StringList{"English", "Latin"},
		ConsultationFee: "$180",
	},
	{
		Name:            "Dr. Albus Dumbledore",
		Email:           "dr.albus@diagon.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Pulmonology",
		Experience:      "20 years",
		Location:        "Diagon Alley",
		Address:         "Gringotts Bank, Diagon Alley, London",
		Expertise:       doctors.StringList{"Asthma", "COPD", "Sleep Disorders"},
		Languages:       doctors.StringList{"English", "Mermish"},
		ConsultationFee: "$190",
	},
	{
		Name:            "Dr. Minerva McGonagall",
		Email:           "dr.minerva@beauxbatons.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Dermatology",
		Experience:      "8 years",
		Location:        "Beauxbatons Academy",
		Address:         "Beauxbatons Academy of Magic, France",
		Expertise:       doctors.StringList{"Acne", "Eczema", "Skin Cancer"},
		Languages:       doctors.StringList{"English", "French"},
		ConsultationFee: "$160",
	},
	{
		Name:            "Dr. Severus Snape",
		Email:           "dr.severus@durmstrang.edu",
		Password:        seedPassword,
		Role:            "DOCTOR",
		Specialty:       "Orthopedics",
		Experience:      "18 years",
		Location:        "Durmstrang Institute",
		Address:         "Durmstrang Institute, Northern Europe",
		Expertise:       doctors.StringList{"Sports Injuries", "Joint Replacement", "Fractures"},
		Languages:       doctors.StringList{"English", "German"},
		ConsultationFee: "$220",
	},
}

func main() {
	_ = godotenv.Load()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	logger := logging.Default()
	accountRepo := accounts.NewPostgresRepository(pool)
	doctorRepo := doctors.NewPostgresRepository(pool)
	svc := accounts.NewService(accountRepo, doctorRepo, nil, 10, logger)

	for _, req := range seedAccounts {
		r := req
		if _, err := svc.Signup(ctx, &r); err != nil {
			if errors.Is(err, accounts.ErrEmailTaken) {
				log.Printf("skip %s: already exists", r.Email)
				continue
			}
			log.Fatalf("seed %s: %v", r.Email, err)
		}
		log.Printf("created %s (%s)", r.Email, r.Role)
	}

	log.Println("database seeded")
	log.Println("sample login: harry.potter@hogwarts.edu / " + seedPassword)
}
