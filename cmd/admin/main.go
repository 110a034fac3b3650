// Command admin is the operator CLI: it seeds or resets the administrator
// account and prints the dashboard statistics to the console.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"

	"medcert-dashboard-go/internal/auth"
	"medcert-dashboard-go/internal/stats"
	"medcert-dashboard-go/migrations"
	"medcert-dashboard-go/pkg/config"
	"medcert-dashboard-go/pkg/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	switch os.Args[1] {
	case "seed-admin":
		seedAdmin(db)
	case "stats":
		printStats(db)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("Usage: admin <command>")
	fmt.Println("Commands:")
	fmt.Println("  seed-admin   create the administrator account (or reset its password)")
	fmt.Println("               reads ADMIN_LOGIN and ADMIN_PASSWORD from the environment")
	fmt.Println("  stats        print dashboard statistics")
}

// seedAdmin creates the ADMIN account, or resets its password when the
// login already exists.
func seedAdmin(db *sqlx.DB) {
	login := os.Getenv("ADMIN_LOGIN")
	if login == "" {
		login = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		color.Yellow("WARNING: using the default password; set ADMIN_PASSWORD in the environment")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var existingID int
	err = db.Get(&existingID, "SELECT id FROM users WHERE login = $1", login)
	if err == nil {
		_, err = db.Exec("UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", hash, existingID)
		if err != nil {
			log.Fatalf("Failed to reset admin password: %v", err)
		}
		color.Green("Password reset for %q (user id %d)", login, existingID)
		return
	}

	var userID int
	err = db.QueryRow(
		"INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id",
		login, hash, model.RoleAdmin).Scan(&userID)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	color.Green("Administrator %q created (user id %d)", login, userID)
}

// printStats renders the summary the dashboard shows, as console tables.
func printStats(db *sqlx.DB) {
	statsService := stats.NewStatsService(db)
	summary, err := statsService.Summary(model.Actor{Role: model.RoleAdmin})
	if err != nil {
		log.Fatalf("Failed to compute statistics: %v", err)
	}

	color.Cyan("\n=== Certification Program Statistics ===")

	color.Yellow("\nSlots")
	slots := tablewriter.NewWriter(os.Stdout)
	slots.SetHeader([]string{"Total", "Filled", "Vacant", "Doctors Filled", "Nurses Filled"})
	slots.Append([]string{
		strconv.Itoa(summary.Global.TotalSlots),
		strconv.Itoa(summary.Global.Filled),
		strconv.Itoa(summary.Global.Vacant),
		strconv.Itoa(summary.Global.DoctorsFilled),
		strconv.Itoa(summary.Global.NursesFilled),
	})
	slots.Render()

	color.Yellow("\nCertification Funnel")
	funnel := tablewriter.NewWriter(os.Stdout)
	funnel.SetHeader([]string{"Step", "Count"})
	for _, step := range summary.Funnel {
		funnel.Append([]string{step.Step, strconv.Itoa(step.Count)})
	}
	funnel.Render()

	color.Yellow("\nRegions")
	regions := tablewriter.NewWriter(os.Stdout)
	regions.SetHeader([]string{"Region", "Slots", "Vacant", "Cert 1", "Cert 4", "Module 1 Passed", "Module 4 Passed"})
	for _, r := range summary.Regions {
		regions.Append([]string{
			r.Name,
			strconv.Itoa(r.TotalSlots),
			strconv.Itoa(r.Vacant),
			strconv.Itoa(r.Cert1),
			strconv.Itoa(r.Cert4),
			strconv.Itoa(r.Module1Passed),
			strconv.Itoa(r.Module4Passed),
		})
	}
	regions.Render()

	color.Yellow("\nTop Problem Regions (no-shows)")
	problems := tablewriter.NewWriter(os.Stdout)
	problems.SetHeader([]string{"Region", "No-shows", "Failed", "Vacant"})
	for _, p := range summary.ProblemRegions.NoShow {
		problems.Append([]string{
			p.RegionName,
			strconv.Itoa(p.TotalNoShow),
			strconv.Itoa(p.TotalFailed),
			strconv.Itoa(p.Vacant),
		})
	}
	problems.Render()
}
