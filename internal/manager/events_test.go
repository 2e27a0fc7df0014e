package manager

import (
	"context"
	"testing"
)

func TestMultiPublisherFansOutInOrder(t *testing.T) {
	a, b := NewMemoryPublisher(), NewMemoryPublisher()
	d, l := okCollaborators()
	m, err := NewWithConfig(ManagerConfig{
		Repository: newRecordingRepo(),
		Downloader: d,
		Loader:     l,
		Publisher:  MultiPublisher{a, b},
	})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if out := m.SetupModel(context.Background(), "m"); !out.OK() {
		t.Fatalf("setup: %v", out.Err())
	}
	want := []Status{StatusDownloading, StatusDownloaded, StatusLoading, StatusLoaded}
	for i, p := range []*MemoryPublisher{a, b} {
		if got := p.Transitions("m"); !equalStatuses(got, want) {
			t.Fatalf("publisher %d saw %v, want %v", i, got, want)
		}
	}
}
