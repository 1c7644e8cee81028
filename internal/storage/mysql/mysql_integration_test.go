//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotelex_register/internal/domain"
	mysqlrepo "hotelex_register/internal/storage/mysql"
)

func pstr(s string) *string { return &s }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotelex",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotelex")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRepo_MySQL_RegistrationWritePath(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// bootstrap must be idempotent
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema (second run): %v", err)
	}

	hotel := domain.Hotel{
		Name:        "Ali",
		PhoneNumber: "0211234567",
		Whatsapp:    "+98912345678",
		HotelName:   "Grand Azadi",
		Description: pstr("near the tower"),
		Address:     pstr("Valiasr St 12"),
	}
	items := []domain.Item{
		{Name: "Suite"},
		{Name: "Pool", Description: pstr("outdoor")},
		{Name: "Spa"},
	}

	id, err := repo.InsertHotelWithItems(ctx, hotel, items)
	if err != nil {
		t.Fatalf("InsertHotelWithItems: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected generated id, got %d", id)
	}

	got, err := repo.GetHotel(ctx, id)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.HotelName != "Grand Azadi" || got.Description == nil || *got.Description != "near the tower" {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	for _, it := range got.Items {
		if it.HotelID != id {
			t.Fatalf("item %d references hotel %d, want %d", it.ID, it.HotelID, id)
		}
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}
}

func TestRepo_MySQL_ItemFailureRollsBackHotel(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	hotels := countRows(t, db, "hotels")
	itemRows := countRows(t, db, "items")

	bad := []domain.Item{
		{Name: "ok item"},
		{Name: strings.Repeat("x", 200)}, // exceeds VARCHAR(100), strict mode rejects
	}
	_, err := repo.InsertHotelWithItems(ctx, domain.Hotel{
		Name: "Ali", PhoneNumber: "021", Whatsapp: "+98912345678", HotelName: "Doomed",
	}, bad)
	if err == nil {
		t.Fatalf("expected constraint failure")
	}

	if n := countRows(t, db, "hotels"); n != hotels {
		t.Fatalf("hotel row survived rollback: %d -> %d", hotels, n)
	}
	if n := countRows(t, db, "items"); n != itemRows {
		t.Fatalf("item rows survived rollback: %d -> %d", itemRows, n)
	}
}

func TestRepo_MySQL_DuplicateSubmissionsAndList(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	h := domain.Hotel{Name: "Ali", PhoneNumber: "021", Whatsapp: "+98912345678", HotelName: "Twice"}
	id1, err := repo.InsertHotelWithItems(ctx, h, nil)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	id2, err := repo.InsertHotelWithItems(ctx, h, nil)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate submissions shared id %d", id1)
	}

	list, err := repo.ListHotels(ctx, 10)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(list))
	}
	if list[0].ID != id2 {
		t.Fatalf("expected newest first, got %d", list[0].ID)
	}

	if _, err := repo.GetHotel(ctx, id2+1000); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MySQL_InsertUser(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	id, err := repo.InsertUser(ctx, domain.User{Name: "Sara", Phone: "+98912345678"})
	if err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected generated id, got %d", id)
	}
	if n := countRows(t, db, "users"); n != 1 {
		t.Fatalf("expected 1 user row, got %d", n)
	}
}
