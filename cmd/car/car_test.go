package car

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zk "github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/trichner/carlot/pkg/app"
	"github.com/trichner/carlot/pkg/cfg"
	"github.com/trichner/carlot/pkg/notify"
)

func openApp(t *testing.T) (*app.App, context.Context, *bytes.Buffer, *notify.Recorder) {
	t.Helper()
	zk.MockInit()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/api/v1/cars/45" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Car not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":45,"make":"Mazda","model":"CX-5","year":2022,"price":26990,"mileage":8000,"description":"One owner."}`))
	}))
	t.Cleanup(srv.Close)

	ctx := cfg.WithConfigProvider(context.Background(), cfg.NewWithEnv(map[string]string{
		"XDG_CONFIG_HOME": t.TempDir(),
		"BACKEND_URL":     srv.URL,
	}))
	a, err := app.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	var out bytes.Buffer
	rec := &notify.Recorder{}
	a.Stdout = &out
	a.Notifier = rec
	require.NoError(t, a.Session.Save(&oauth2.Token{AccessToken: "tok"}))
	return a, ctx, &out, rec
}

func TestShowCar(t *testing.T) {
	a, ctx, out, _ := openApp(t)

	require.NoError(t, run(ctx, a, &cli{ID: 45}))

	assert.Contains(t, out.String(), "2022 Mazda CX-5")
	assert.Contains(t, out.String(), "One owner.")
	assert.Contains(t, out.String(), "[Compare] #45\n")
}

func TestToggleCompare(t *testing.T) {
	a, ctx, out, rec := openApp(t)

	require.NoError(t, run(ctx, a, &cli{ID: 45, ToggleCompare: true}))
	assert.Contains(t, out.String(), "[Remove from Compare] #45\n")
	assert.Equal(t, "Car added to comparison", rec.Last().Text)

	out.Reset()
	require.NoError(t, run(ctx, a, &cli{ID: 45, ToggleCompare: true}))
	assert.Contains(t, out.String(), "[Compare] #45\n")
	assert.Equal(t, "Car removed from comparison", rec.Last().Text)
}

func TestMissingCar(t *testing.T) {
	a, ctx, out, rec := openApp(t)

	require.NoError(t, run(ctx, a, &cli{ID: 99}))

	assert.Empty(t, out.String())
	assert.Equal(t, notify.Message{Text: "Car 99 not found", Severity: notify.Error}, rec.Last())
}
