package graph

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryClientQueuesThenHandler(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient().WithReadHandler(func(cypher string, _ map[string]any) (Result, error) {
		return Result{Records: []Record{{"q": cypher}}}, nil
	})
	client.PushReadResult(Result{Records: []Record{{"n": 1}}})

	first, err := client.ExecuteRead(ctx, "A", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Records[0]["n"] != 1 {
		t.Fatalf("expected queued result first, got %+v", first)
	}

	second, err := client.ExecuteRead(ctx, "B", map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Records[0]["q"] != "B" {
		t.Fatalf("expected handler result, got %+v", second)
	}

	if calls := client.ReadCalls(); len(calls) != 2 || calls[1].Params["k"] != "v" {
		t.Fatalf("unexpected read calls %+v", calls)
	}
}

func TestMemoryClientErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	client := NewMemoryClient().WithError(boom)

	if _, err := client.ExecuteWrite(ctx, "CREATE ()", nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(client.WriteCalls()) != 0 {
		t.Fatalf("failed writes must not be recorded")
	}

	_ = client.Close(ctx)
	if err := client.VerifyConnectivity(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}
