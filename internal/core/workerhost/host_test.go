package workerhost

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transform"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

func startHost(t *testing.T) (*transport.PipeEnd, context.CancelFunc, <-chan error) {
	t.Helper()

	caller, hostEnd := transport.NewPipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, hostEnd, zerolog.Nop())
	}()

	t.Cleanup(func() {
		cancel()
		caller.Close()
	})
	return caller, cancel, done
}

func next(t *testing.T, conn transport.Conn) protocol.Message {
	t.Helper()
	select {
	case msg, ok := <-conn.Incoming():
		require.True(t, ok, "connection closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
		return protocol.Message{}
	}
}

func columnSpec() *widget.Spec {
	return &widget.Spec{
		Type:       widget.ChartColumn,
		Dimensions: []string{"region"},
		Measures:   []widget.Measure{{Column: "amount", Aggregate: widget.AggSum}},
	}
}

func pushRows(t *testing.T, conn transport.Conn, generation int64, rules []transform.Rule) {
	t.Helper()
	require.NoError(t, conn.Send(protocol.Message{
		Type:           protocol.TypeSetSource,
		DataSourceID:   "ds-1",
		RowVersion:     "v1",
		Generation:     generation,
		TransformRules: rules,
		Rows: []filter.Row{
			{"region": "North", "amount": 10.0, "status": "paid"},
			{"region": "South", "amount": 5.0, "status": "void"},
			{"region": "North", "amount": 2.0, "status": "paid"},
		},
	}))
}

func TestHost_ComputesAgainstCache(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, nil)

	require.NoError(t, conn.Send(protocol.Message{
		Type:       protocol.TypeComputeRequest,
		RequestID:  "r1",
		Generation: 1,
		WidgetSpec: columnSpec(),
	}))

	reply := next(t, conn)
	require.Equal(t, protocol.TypePayload, reply.Type, reply.Error)
	assert.Equal(t, "r1", reply.RequestID)
	assert.Equal(t, int64(1), reply.Generation)
	require.NotNil(t, reply.Result)
	assert.Equal(t, []string{"North", "South"}, reply.Result.Payload.Labels)
	assert.Equal(t, []float64{12, 5}, reply.Result.Payload.Values(0))
	require.NotNil(t, reply.Result.Spec)
	assert.Equal(t, widget.ChartColumn, reply.Result.Spec.Type)
}

func TestHost_GlobalAndWidgetFiltersAreANDed(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, nil)

	spec := columnSpec()
	spec.Filters = []filter.Clause{{Column: "region", DataType: filter.DataTypeText, Value: "north"}}

	require.NoError(t, conn.Send(protocol.Message{
		Type:       protocol.TypeComputeRequest,
		RequestID:  "r1",
		Generation: 1,
		WidgetSpec: spec,
		FilterSet:  []filter.Clause{{Column: "amount", DataType: filter.DataTypeNumber, Value: "10"}},
	}))

	reply := next(t, conn)
	require.Equal(t, protocol.TypePayload, reply.Type, reply.Error)
	assert.Equal(t, []string{"North"}, reply.Result.Payload.Labels)
	assert.Equal(t, []float64{10}, reply.Result.Payload.Values(0))
}

func TestHost_AppliesTransformRules(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, []transform.Rule{
		{Type: transform.RuleExclude, Column: "status"},
		{Type: transform.RuleRename, Column: "region", To: "area"},
		{Type: transform.RuleReplace, Column: "area", Find: "south", Replace: "Southern"},
	})

	spec := columnSpec()
	spec.Dimensions = []string{"area"}
	require.NoError(t, conn.Send(protocol.Message{
		Type:       protocol.TypeComputeRequest,
		RequestID:  "r1",
		Generation: 1,
		WidgetSpec: spec,
	}))

	reply := next(t, conn)
	require.Equal(t, protocol.TypePayload, reply.Type, reply.Error)
	assert.Equal(t, []string{"North", "Southern"}, reply.Result.Payload.Labels)
}

func TestHost_ErrorReplies(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, nil)

	bad := columnSpec()
	bad.Type = "gauge"

	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "invalid", Generation: 1, WidgetSpec: bad}))
	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "missing", Generation: 1}))
	require.NoError(t, conn.Send(protocol.Message{Type: "resize", RequestID: "unknown"}))

	invalid := next(t, conn)
	assert.Equal(t, protocol.TypeError, invalid.Type)
	assert.Equal(t, "invalid", invalid.RequestID)
	assert.Equal(t, int64(1), invalid.Generation)
	assert.Contains(t, invalid.Error, "invalid widget spec")

	missing := next(t, conn)
	assert.Equal(t, protocol.TypeError, missing.Type)
	assert.Equal(t, ErrMissingWidget.Error(), missing.Error)

	unknown := next(t, conn)
	assert.Equal(t, protocol.TypeError, unknown.Type)
	assert.Contains(t, unknown.Error, "unknown message type")
}

func TestHost_UnroutableRequestGetsNoReply(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, nil)

	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, Generation: 1, WidgetSpec: columnSpec()}))
	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "after", Generation: 1, WidgetSpec: columnSpec()}))

	reply := next(t, conn)
	assert.Equal(t, "after", reply.RequestID)
}

func TestHost_BrokenTransformRejectsUntilNextPush(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 1, []transform.Rule{{Type: "explode", Column: "region"}})

	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "r1", Generation: 1, WidgetSpec: columnSpec()}))
	assert.Equal(t, protocol.TypeError, next(t, conn).Type)

	pushRows(t, conn, 2, nil)
	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "r2", Generation: 2, WidgetSpec: columnSpec()}))
	assert.Equal(t, protocol.TypePayload, next(t, conn).Type)
}

func TestHost_RepliesWithCacheGeneration(t *testing.T) {
	conn, _, _ := startHost(t)
	pushRows(t, conn, 2, nil)

	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "old", Generation: 1, WidgetSpec: columnSpec()}))

	reply := next(t, conn)
	assert.Equal(t, protocol.TypePayload, reply.Type)
	assert.Equal(t, int64(2), reply.Generation)
}

func TestHost_StopsWhenTransportCloses(t *testing.T) {
	conn, _, done := startHost(t)
	require.NoError(t, conn.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("host did not stop")
	}
}

func TestHost_StopsOnCancel(t *testing.T) {
	_, cancel, done := startHost(t)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("host did not stop")
	}
}
