package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r), scanner.Text())
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Now()
	stubs := tracetest.SpanStubs{
		{
			Name:       SpanLex,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Millisecond),
			Status:     sdktrace.Status{Code: codes.Ok},
			Attributes: []attribute.KeyValue{attribute.String(AttrLanguage, "lua"), attribute.Int(AttrLineCount, 40)},
			Events:     []sdktrace.Event{{Name: EventChunk, Time: start}},
		},
		{
			Name:      SpanFold,
			StartTime: start,
			EndTime:   start.Add(time.Millisecond),
			Status:    sdktrace.Status{Code: codes.Error, Description: "boom"},
		},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), stubs.Snapshots()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 2)

	require.Equal(t, SpanLex, records[0].Name)
	require.Equal(t, "OK", records[0].Status)
	require.InDelta(t, 2.0, records[0].DurationMs, 0.001)
	require.Equal(t, "lua", records[0].Attributes[AttrLanguage])
	require.EqualValues(t, 40, records[0].Attributes[AttrLineCount])
	require.Equal(t, []string{EventChunk}, records[0].Events)

	require.Equal(t, "ERROR", records[1].Status)
	require.Equal(t, "boom", records[1].Message)
	require.Empty(t, records[1].Attributes)
}

func TestFileExporter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	for range 2 {
		exporter, err := NewFileExporter(path)
		require.NoError(t, err)
		stubs := tracetest.SpanStubs{{Name: SpanEdit, StartTime: time.Now(), EndTime: time.Now()}}
		require.NoError(t, exporter.ExportSpans(context.Background(), stubs.Snapshots()))
		require.NoError(t, exporter.Shutdown(context.Background()))
	}
	require.Len(t, readRecords(t, path), 2)
}

func TestFileExporter_AfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	stubs := tracetest.SpanStubs{{Name: SpanEdit}}
	require.Error(t, exporter.ExportSpans(context.Background(), stubs.Snapshots()))
}

func TestStatusName(t *testing.T) {
	require.Equal(t, "UNSET", statusName(codes.Unset))
	require.Equal(t, "OK", statusName(codes.Ok))
	require.Equal(t, "ERROR", statusName(codes.Error))
}

func TestEnd_RecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	_, span := Start(context.Background(), tracer, SpanReconfigure, attribute.String(AttrProperty, "fold"))
	End(span, errors.New("unknown property"))
	_, span = Start(context.Background(), tracer, SpanOpen)
	End(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1, "the error is recorded as an event")
	require.Equal(t, codes.Ok, spans[1].Status.Code)
}
