// Command seed manages the records the site cannot create by itself.
//
//	seed admin                 create or reset the admin from ADMIN_EMAIL / ADMIN_PASSWORD
//	seed barber [flags]        add a barber
//	seed delete-last-barber    remove the most recently added barber
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-site/internal/db"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	infraRepo "github.com/BruksfildServices01/barbershop-site/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-site/internal/logging"
	"github.com/BruksfildServices01/barbershop-site/internal/media"
	ucBarber "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New("barbershop-seed", true)
	ctx := context.Background()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "admin":
		err = seedAdmin(ctx, db, cfg)
	case "barber":
		err = seedBarber(ctx, db, cfg, os.Args[2:])
	case "delete-last-barber":
		err = deleteLastBarber(ctx, db, cfg)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("seed failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: seed admin | barber [flags] | delete-last-barber")
}

// ======================================================
// ADMIN
// ======================================================

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin, err := infraRepo.NewAdminGormRepository(db, cfg.StoreTimeout).Upsert(ctx, cfg.AdminEmail, string(hash))
	if err != nil {
		return err
	}

	fmt.Printf("Admin ready: %s\n", admin.Email)
	return nil
}

// ======================================================
// BARBERS
// ======================================================

func seedBarber(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("barber", flag.ExitOnError)
	var in ucBarber.CreateBarberInput
	fs.StringVar(&in.Name, "name", "John Fade", "barber name")
	fs.StringVar(&in.Specialty, "specialty", "Skin Fade Specialist", "specialty")
	fs.IntVar(&in.Experience, "experience", 7, "years of experience")
	fs.StringVar(&in.WorkingHours, "hours", "Mon-Sat 9:00-19:00", "working hours")
	fs.StringVar(&in.Bio, "bio", "Expert barber with over 7 years experience.", "short bio")
	photo := fs.String("image", "", "path to a photo (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		return err
	}

	create := ucBarber.NewCreateBarber(
		infraRepo.NewBarberGormRepository(db, cfg.StoreTimeout),
		media.NewImages(store, cfg.ImageMaxWidth),
		validators.New(),
		nil,
	)

	var image io.Reader
	if *photo != "" {
		f, err := os.Open(*photo)
		if err != nil {
			return err
		}
		defer f.Close()
		image = f
	}

	b, err := create.Execute(ctx, "", in, image)
	if err != nil {
		return err
	}

	fmt.Printf("Barber added: %s (%s)\n", b.Name, b.ID)
	return nil
}

func deleteLastBarber(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	repo := infraRepo.NewBarberGormRepository(db, cfg.StoreTimeout)

	last, err := repo.Latest(ctx)
	if httperr.IsBusiness(err, httperr.CodeBarberNotFound) {
		fmt.Println("No barbers found.")
		return nil
	}
	if err != nil {
		return err
	}

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := ucBarber.NewDeleteBarber(repo, media.NewImages(store, cfg.ImageMaxWidth), nil).
		Execute(ctx, "", last.ID)
	if err != nil {
		return err
	}
	if res.ImageErr != nil {
		fmt.Fprintf(os.Stderr, "image not removed: %v\n", res.ImageErr)
	}

	fmt.Printf("Deleted barber: %s\n", res.Barber.Name)
	return nil
}
