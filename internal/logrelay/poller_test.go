package logrelay

import (
	"context"
	"reflect"
	"testing"
)

type fakeFetcher struct {
	snapshots [][]string
	calls     int
}

func (f *fakeFetcher) Logs(ctx context.Context) ([]string, error) {
	snap := f.snapshots[f.calls]
	if f.calls < len(f.snapshots)-1 {
		f.calls++
	}
	return snap, nil
}

func TestNewLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prev []string
		cur  []string
		want []string
	}{
		{"first snapshot", nil, []string{"a", "b"}, []string{"a", "b"}},
		{"unchanged", []string{"a", "b"}, []string{"a", "b"}, []string{}},
		{"appended", []string{"a", "b"}, []string{"a", "b", "c"}, []string{"c"}},
		{"window slid", []string{"a", "b", "c"}, []string{"b", "c", "d", "e"}, []string{"d", "e"}},
		{"fully rotated", []string{"a", "b"}, []string{"x", "y"}, []string{"x", "y"}},
		{"empty", []string{"a"}, nil, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newLines(tt.prev, tt.cur)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("newLines = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPollerPublishesOnlyNewLines(t *testing.T) {
	t.Parallel()

	relay := New(10, nil)
	fetcher := &fakeFetcher{snapshots: [][]string{
		{"Downloading video..."},
		{"Downloading video...", "Transcribing audio..."},
		{"Downloading video...", "Transcribing audio..."},
	}}
	p := NewPoller(fetcher, relay, 0)

	ctx := context.Background()
	counts := []int{p.Poll(ctx), p.Poll(ctx), p.Poll(ctx)}
	if !reflect.DeepEqual(counts, []int{1, 1, 0}) {
		t.Fatalf("published counts = %v", counts)
	}

	recent := relay.Recent(0)
	if len(recent) != 2 || recent[1].Message != "Transcribing audio..." {
		t.Fatalf("recent = %v", recent)
	}
}
