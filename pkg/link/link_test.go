package link

import (
	"context"
	"testing"

	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
)

var labels = map[string]string{"lab": "test"}

func TestGetOrCreateIdempotent(t *testing.T) {
	fake := runtime.NewFake()
	l := New(fake, 0, P2P, "test", labels)

	id, err := l.GetOrCreate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty network id")
	}
	id2, err := l.GetOrCreate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id2 != id {
		t.Errorf("second GetOrCreate returned %s, want cached %s", id2, id)
	}
	if fake.CreateNetworkCalls != 1 {
		t.Errorf("create calls = %d, want 1", fake.CreateNetworkCalls)
	}
}

func TestGetOrCreateReusesExisting(t *testing.T) {
	fake := runtime.NewFake()
	if _, err := fake.CreateNetwork(context.Background(), runtime.NetworkSpec{Name: "test_net-0"}); err != nil {
		t.Fatal(err)
	}
	fake.CreateNetworkCalls = 0

	l := New(fake, 0, P2P, "test", labels)
	if _, err := l.GetOrCreate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fake.CreateNetworkCalls != 0 {
		t.Errorf("created a network that already existed")
	}
}

func TestConnectCreatesLazily(t *testing.T) {
	fake := runtime.NewFake()
	l := New(fake, 3, Multipoint, "test", labels)

	if l.NetworkID() != "" {
		t.Fatal("network created eagerly")
	}
	if err := l.Connect(context.Background(), "cid-test_r1"); err != nil {
		t.Fatal(err)
	}
	if fake.CreateNetworkCalls != 1 {
		t.Fatalf("create calls = %d, want 1", fake.CreateNetworkCalls)
	}
	spec := fake.Networks["test_net-3"]
	if spec.Driver != "bridge" {
		t.Errorf("driver = %s, want bridge", spec.Driver)
	}
	if spec.Labels["lab"] != "test" {
		t.Errorf("labels = %v, want lab=test", spec.Labels)
	}
	want := "connect:test_net-3:test_r1"
	if fake.Events[len(fake.Events)-1] != want {
		t.Errorf("last event = %s, want %s", fake.Events[len(fake.Events)-1], want)
	}
}

func TestInvalidate(t *testing.T) {
	fake := runtime.NewFake()
	l := New(fake, 0, P2P, "test", labels)
	if _, err := l.GetOrCreate(context.Background()); err != nil {
		t.Fatal(err)
	}
	l.Invalidate()
	if l.NetworkID() != "" {
		t.Fatal("handle not dropped")
	}
	if _, err := l.GetOrCreate(context.Background()); err != nil {
		t.Fatal(err)
	}
	// still one create: the network survived, the handle was re-resolved
	if fake.CreateNetworkCalls != 1 {
		t.Errorf("create calls = %d, want 1", fake.CreateNetworkCalls)
	}
}
