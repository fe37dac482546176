package client

import "testing"

func TestFindOrCreateReportsCreation(t *testing.T) {
	r := &Registry{infos: make(map[string]*Info)}

	info, created := r.findOrCreate("alice", true)
	if !created || info == nil || info.AccountName != "alice" {
		t.Fatalf("first call: info=%+v created=%v", info, created)
	}

	again, created := r.findOrCreate("alice", true)
	if created {
		t.Fatal("second call for the same name should not report created")
	}
	if again != info {
		t.Fatal("expected the same Info instance to be returned")
	}

	if info, created := r.findOrCreate("bob", false); info != nil || created {
		t.Fatalf("create=false for unknown name should return nil, false: info=%+v created=%v", info, created)
	}
}

func TestMachineIdentityPersistsAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := MachineIdentity(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first == "" {
		t.Fatal("expected a non-empty machine identity")
	}

	second, err := MachineIdentity(dir)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("got %q, want %q (identity should be stable)", second, first)
	}
}
