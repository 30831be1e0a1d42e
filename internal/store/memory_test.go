package store

import (
	"testing"
)

func TestMemoryStoreContract(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close()
	testStoreContract(t, st)
}

func TestMemoryStoreClonesOnReadAndWrite(t *testing.T) {
	st := NewMemoryStore()
	g := gameAt(t, "gm-1", "g-1", storeTestStart)
	if err := st.PutGame(g); err != nil {
		t.Fatalf("PutGame failed: %v", err)
	}

	// Mutating the caller's copy after Put must not leak into the store.
	g.Teams[0].Name = "tampered"
	stored, err := st.GetGame("g-1")
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if stored.Teams[0].Name == "tampered" {
		t.Fatal("store shares team slice with caller")
	}

	// Mutating a read result must not leak into later reads.
	stored.Teams[0].Name = "tampered"
	again, err := st.GetGame("g-1")
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if again.Teams[0].Name == "tampered" {
		t.Fatal("reads share team slice")
	}
}
