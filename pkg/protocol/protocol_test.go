package protocol

import (
	"errors"
	"sync"
	"testing"
)

func TestNewRegistry_HasV1(t *testing.T) {
	r := NewRegistry()

	if !r.Supports(VersionV1) {
		t.Fatal("Supports(VersionV1) = false")
	}

	p, err := r.New(VersionV1)
	if err != nil {
		t.Fatalf("New(VersionV1): %v", err)
	}
	if p.Version() != VersionV1 {
		t.Errorf("Version() = %d, want %d", p.Version(), VersionV1)
	}
	if p.Name() != "cloudberry/1" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestNewEmptyRegistry(t *testing.T) {
	r := NewEmptyRegistry()
	if r.Supports(VersionV1) {
		t.Error("empty registry supports V1")
	}
}

func TestRegistry_UnsupportedVersion(t *testing.T) {
	r := NewRegistry()

	_, err := r.New(99)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("New(99) err = %v, want ErrUnsupportedVersion", err)
	}
	if r.Supports(99) {
		t.Error("Supports(99) = true")
	}
}

type protoV2 struct{}

func (protoV2) Version() uint32 { return 2 }
func (protoV2) Name() string    { return "test/2" }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(2, func() Protocol { return protoV2{} }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	p, err := r.New(2)
	if err != nil {
		t.Fatalf("New(2): %v", err)
	}
	if p.Name() != "test/2" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	err := r.Register(VersionV1, func() Protocol { return NewV1() })
	if !errors.Is(err, ErrVersionRegistered) {
		t.Errorf("Register dup err = %v, want ErrVersionRegistered", err)
	}
}

func TestRegistry_RegisterNilConstructor(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(2, nil); err == nil {
		t.Error("Register(2, nil) succeeded")
	}
}

func TestRegistry_NewReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()

	a, _ := r.New(VersionV1)
	b, _ := r.New(VersionV1)
	if a == b {
		t.Error("New returned the same instance twice")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(version uint32) {
			defer wg.Done()
			_ = r.Register(version, func() Protocol { return protoV2{} })
			r.Supports(version)
			_, _ = r.New(VersionV1)
		}(uint32(10 + g))
	}
	wg.Wait()

	for g := 0; g < 8; g++ {
		if !r.Supports(uint32(10 + g)) {
			t.Errorf("Supports(%d) = false after concurrent registration", 10+g)
		}
	}
}
