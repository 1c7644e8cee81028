package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotelex_register/internal/adapters/observability"
	"hotelex_register/internal/adapters/wallmessage"
	"hotelex_register/internal/app"
	"hotelex_register/internal/domain"
	"hotelex_register/internal/shared"
	mysqlrepo "hotelex_register/internal/storage/mysql"
)

// importer bulk-loads registrations from a JSON file, e.g. exports from the
// old form backend. Each entry goes through the same service as a live
// request, so the atomicity and notification rules hold.

type entry struct {
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phoneNumber"`
	Whatsapp    string  `json:"whatsapp"`
	HotelName   string  `json:"hotelName"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Items       []struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	} `json:"items"`
}

func main() {
	file := flag.String("file", "", "path to a JSON array of registrations")
	workers := flag.Int("workers", 8, "concurrent imports")
	notify := flag.Bool("notify", false, "send WhatsApp confirmations")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("read input file failed")
	}
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatal().Err(err).Msg("parse input file failed")
	}
	log.Info().Int("entries", len(entries)).Int("workers", *workers).Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	var messenger domain.Messenger
	if *notify {
		cl, err := wallmessage.New(cfg.GatewayURL, cfg.GatewayApp, cfg.GatewayAuth, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("-notify requires gateway configuration")
		}
		messenger = cl
	}
	svc := app.NewRegistrationService(repo, messenger, nil, cfg.CountryCode)

	sem := semaphore.NewWeighted(int64(*workers))
	var wg sync.WaitGroup

	for i, e := range entries {
		i, e := i, e

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			cmd := app.RegisterHotelCommand{
				Name:        e.Name,
				PhoneNumber: e.PhoneNumber,
				Whatsapp:    e.Whatsapp,
				HotelName:   e.HotelName,
				Description: e.Description,
				Address:     e.Address,
				Notify:      *notify,
			}
			for _, it := range e.Items {
				cmd.Items = append(cmd.Items, app.ItemInput{Name: it.Name, Description: it.Description})
			}

			res, err := svc.RegisterHotel(ctx, cmd)
			if err != nil {
				log.Warn().Int("entry", i).Err(err).Msg("import failed")
				return
			}
			ev := log.Info().Int("entry", i).Int64("hotel_id", res.HotelID)
			if res.Warning != "" {
				ev = ev.Str("warning", res.Warning)
			}
			ev.Msg("import ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("import completed")
}
