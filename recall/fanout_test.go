package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

type stubSource struct {
	name  string
	recs  []core.Recommendation
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]core.Recommendation, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.recs, s.err
}

func TestFanout_MergesByPriority(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", recs: []core.Recommendation{{Product: 1, Score: 0.9, Source: "a"}}},
			&stubSource{name: "b", recs: []core.Recommendation{
				{Product: 1, Score: 0.5, Source: "b"},
				{Product: 2, Score: 0.4, Source: "b"},
			}},
		},
		Dedup:         true,
		MergeStrategy: "priority",
	}

	got, err := n.Process(context.Background(), &core.RecommendContext{User: "u"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 recs", got)
	}
	// 去重保留优先级更高来源的记录
	if got[0].Product != 1 || got[0].Source != "a" {
		t.Errorf("got[0] = %v, want product 1 from source a", got[0])
	}
	if got[1].Product != 2 {
		t.Errorf("got[1] = %v, want product 2", got[1])
	}
}

func TestFanout_UnionKeepsDuplicates(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", recs: []core.Recommendation{{Product: 1, Source: "a"}}},
			&stubSource{name: "b", recs: []core.Recommendation{{Product: 1, Source: "b"}}},
		},
		MergeStrategy: "union",
	}

	got, err := n.Process(context.Background(), &core.RecommendContext{User: "u"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("union should keep both: %v", got)
	}
}

func TestFanout_SkipsFailedSource(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "bad", err: core.NewStoreError("recall", errBroken)},
			&stubSource{name: "good", recs: []core.Recommendation{{Product: 7, Source: "good"}}},
		},
	}

	got, err := n.Process(context.Background(), &core.RecommendContext{User: "u"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 1 || got[0].Product != 7 {
		t.Errorf("got %v, want only product 7", got)
	}
}

func TestFanout_TimeoutDropsSlowSource(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "slow", delay: 200 * time.Millisecond, recs: []core.Recommendation{{Product: 1}}},
			&stubSource{name: "fast", recs: []core.Recommendation{{Product: 2, Source: "fast"}}},
		},
		Timeout: 20 * time.Millisecond,
	}

	got, err := n.Process(context.Background(), &core.RecommendContext{User: "u"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 1 || got[0].Product != 2 {
		t.Errorf("got %v, want only the fast source's product 2", got)
	}
}

func TestFanout_MaxConcurrent(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", recs: []core.Recommendation{{Product: 1}}},
			&stubSource{name: "b", recs: []core.Recommendation{{Product: 2}}},
			&stubSource{name: "c", recs: []core.Recommendation{{Product: 3}}},
		},
		MaxConcurrent: 1,
		MergeStrategy: "union",
	}

	got, err := n.Process(context.Background(), &core.RecommendContext{User: "u"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %v, want all 3 products", got)
	}
}
