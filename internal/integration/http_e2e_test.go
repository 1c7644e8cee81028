//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "hotelex_register/internal/adapters/http_server"
	"hotelex_register/internal/adapters/wallmessage"
	"hotelex_register/internal/app"
	"hotelex_register/internal/domain"
	mysqlrepo "hotelex_register/internal/storage/mysql"
)

type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (nopCache) Set(ctx context.Context, key string, v any) error           { return nil }
func (nopCache) Del(ctx context.Context, key string) error                  { return nil }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
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
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotelex?parseTime=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

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

func newStack(t *testing.T, db *sql.DB, messenger domain.Messenger) *httptest.Server {
	t.Helper()
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	reg := app.NewRegistrationService(repo, messenger, nopCache{}, "+98")
	q := app.NewQueryService(repo, nopCache{}, time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Reg: reg, Q: q})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func TestEndToEnd_RegisterAndNotify(t *testing.T) {
	db := startMySQL(t)

	// fake WallMessage gateway capturing the delivered payload
	var delivered map[string]string
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&delivered)
		w.WriteHeader(200)
	}))
	defer gw.Close()

	messenger, err := wallmessage.New(gw.URL, "app-key", "auth-key", 100)
	if err != nil {
		t.Fatalf("wallmessage.New: %v", err)
	}
	ts := newStack(t, db, messenger)

	res, err := http.Post(ts.URL+"/api/send-whatsapp", "application/json", strings.NewReader(`{
		"name":"Ali","phoneNumber":"0211234567","whatsapp":"0912345678",
		"hotelName":"Grand Azadi","description":"by the park",
		"items":[{"name":"Suite"},{"name":"Pool"},{"name":"Spa"}]
	}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Success bool    `json:"success"`
		HotelID int64   `json:"hotelId"`
		Warning *string `json:"warning"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.HotelID == 0 || body.Warning != nil {
		t.Fatalf("unexpected body: %+v", body)
	}

	// the gateway saw the normalized destination and the rendered template
	if delivered["to"] != "+98912345678" {
		t.Fatalf("gateway destination: %q", delivered["to"])
	}
	if !strings.Contains(delivered["message"], "Grand Azadi") {
		t.Fatalf("gateway message: %q", delivered["message"])
	}

	// exactly 1 hotel and 3 items committed, all referencing the returned id
	var items int
	if err := db.QueryRow("SELECT COUNT(*) FROM items WHERE hotel_id = ?", body.HotelID).Scan(&items); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 3 {
		t.Fatalf("expected 3 items for hotel %d, got %d", body.HotelID, items)
	}

	// the registered hotel is queryable over the API
	res2, err := http.Get(fmt.Sprintf("%s/api/hotels/%d", ts.URL, body.HotelID))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res2.StatusCode)
	}
}

func TestEndToEnd_GatewayFailureKeepsRegistration(t *testing.T) {
	db := startMySQL(t)

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("gateway down"))
	}))
	defer gw.Close()

	messenger, err := wallmessage.New(gw.URL, "app-key", "auth-key", 100)
	if err != nil {
		t.Fatalf("wallmessage.New: %v", err)
	}
	ts := newStack(t, db, messenger)

	res, err := http.Post(ts.URL+"/api/send-whatsapp", "application/json", strings.NewReader(`{
		"name":"Ali","phoneNumber":"0211234567","whatsapp":"0912345678","hotelName":"Grand Azadi"
	}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		HotelID int64  `json:"hotelId"`
		Warning string `json:"warning"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.HotelID == 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if !strings.Contains(body.Warning, "gateway down") {
		t.Fatalf("warning should carry remote body, got %q", body.Warning)
	}

	// the hotel row survived the failed notification
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM hotels WHERE id = ?", body.HotelID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("registered hotel missing after gateway failure")
	}
}
