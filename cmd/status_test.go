package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/up":
			_, _ = w.Write([]byte("up"))
		case "/metrics":
			_, _ = w.Write([]byte("# TYPE fomo_sponsorship_decisions_total counter\n" +
				`fomo_sponsorship_decisions_total{decision="approved",method="pm_getPaymasterData",reason="sponsored"} 3` + "\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	var buf bytes.Buffer
	printStatus(&buf, srv.URL)

	output := buf.String()
	assert.Contains(t, output, "📊 Relay Status Report")
	assert.Contains(t, output, "💓 Liveness: 200 up")
	assert.Contains(t, output, `reason="sponsored"} 3`)
}

func TestStatusCommandUnreachable(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, "http://127.0.0.1:1")

	assert.Contains(t, buf.String(), "❌ Relay unreachable")
}

func TestStatusCommandHelp(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
	assert.Equal(t, "Display relay status", statusCmd.Short)
	assert.NotNil(t, statusCmd.Run, "Status command should have a Run function")
	assert.NotNil(t, statusCmd.Flags().Lookup("url"))
}
