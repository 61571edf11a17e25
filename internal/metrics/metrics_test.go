package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tjbot/internal/domain"
)

func TestRecorder_RecordOutcome(t *testing.T) {
	r := NewRecorder()
	r.RecordOutcome("tag-manage", "create", domain.OutcomeSuccess)
	r.RecordOutcome("tag-manage", "create", domain.OutcomeSuccess)
	r.RecordOutcome("tag-manage", "delete", domain.OutcomeDenied)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomes.WithLabelValues("tag-manage", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("tag-manage", "delete", "denied")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.outcomes))
}

func TestRecorder_RecordInteraction(t *testing.T) {
	r := NewRecorder()
	r.RecordInteraction("command", true)
	r.RecordInteraction("unknown", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.interactions.WithLabelValues("command", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.interactions.WithLabelValues("unknown", "false")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RecordOutcome("wolf", "", domain.OutcomeUnexpected)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tjbot_command_outcomes_total{command="wolf",outcome="unexpected",subcommand=""} 1`)
}
