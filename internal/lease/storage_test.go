package lease

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func assertRoundTrip(t *testing.T, orig, loaded *Lease) {
	t.Helper()
	if loaded == nil {
		t.Fatal("Load returned nil after Dump")
	}
	if loaded.IP() != orig.IP() {
		t.Errorf("ip = %q, want %q", loaded.IP(), orig.IP())
	}
	gotMask, err1 := loaded.SubnetMask()
	wantMask, err2 := orig.SubnetMask()
	if err1 != nil || err2 != nil || gotMask != wantMask {
		t.Errorf("subnet mask = %q (%v), want %q (%v)", gotMask, err1, wantMask, err2)
	}
	if loaded.Obtained != orig.Obtained {
		t.Errorf("obtained = %v, want exactly %v", loaded.Obtained, orig.Obtained)
	}
	if len(loaded.Ack.Options) != len(orig.Ack.Options) {
		t.Errorf("option count = %d, want %d", len(loaded.Ack.Options), len(orig.Ack.Options))
	}
	if loaded.ServerMAC != orig.ServerMAC {
		t.Errorf("server_mac = %q, want %q", loaded.ServerMAC, orig.ServerMAC)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewFileStorage(t.TempDir(), testLogger(&buf))
	l := testLease(nil)

	if err := s.Dump(l); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	assertRoundTrip(t, l, s.Load("eth0"))
}

func TestFileStorageLoadMissing(t *testing.T) {
	var buf bytes.Buffer
	s := NewFileStorage(t.TempDir(), testLogger(&buf))

	if got := s.Load("eth0"); got != nil {
		t.Errorf("Load for an interface with no lease file = %v, want nil", got)
	}
	if !strings.Contains(buf.String(), "no existing lease") {
		t.Errorf("missing lease not logged: %s", buf.String())
	}
}

func TestFileStorageLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{definitely not json"},
		{"wrong schema", `{"ack": 42}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			dir := t.TempDir()
			s := NewFileStorage(dir, testLogger(&buf))
			path := filepath.Join(dir, "eth0.lease.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			if got := s.Load("eth0"); got != nil {
				t.Errorf("Load of corrupt file = %v, want nil", got)
			}
			if !strings.Contains(buf.String(), "discarding") {
				t.Errorf("corrupt lease not logged: %s", buf.String())
			}
		})
	}
}

func TestFileStoragePath(t *testing.T) {
	s := NewFileStorage("/var/lib/athena-dhclient", slog.Default())
	want := "/var/lib/athena-dhclient/eth0.lease.json"
	if got := s.Path("eth0"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
	// Same interface, same path: the mapping is deterministic.
	if s.Path("eth0") != s.Path("eth0") {
		t.Error("Path is not deterministic")
	}
}

func TestDiscardStorage(t *testing.T) {
	var out bytes.Buffer
	s := &DiscardStorage{Out: &out}
	l := testLease(nil)

	if err := s.Dump(l); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	decoded := &Lease{}
	if err := json.Unmarshal(out.Bytes(), decoded); err != nil {
		t.Fatalf("Dump output is not valid JSON: %v", err)
	}
	if decoded.IP() != l.IP() {
		t.Errorf("dumped ip = %q, want %q", decoded.IP(), l.IP())
	}

	if got := s.Load("eth0"); got != nil {
		t.Errorf("DiscardStorage.Load = %v, want nil", got)
	}
}

func TestBoltStorageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewBoltStorage(filepath.Join(t.TempDir(), "leases.db"), testLogger(&buf))
	if err != nil {
		t.Fatalf("NewBoltStorage: %v", err)
	}
	defer s.Close()

	if got := s.Load("eth0"); got != nil {
		t.Errorf("Load before any Dump = %v, want nil", got)
	}

	l := testLease(nil)
	if err := s.Dump(l); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	assertRoundTrip(t, l, s.Load("eth0"))

	if got := s.Load("wlan0"); got != nil {
		t.Errorf("Load for another interface = %v, want nil", got)
	}
}

func TestPersistedSchema(t *testing.T) {
	l := testLease(nil)
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"ack", "interface", "server_mac", "obtained"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("persisted lease is missing field %q", field)
		}
	}

	var ackRaw struct {
		YIAddr string         `json:"yiaddr"`
		Opts   map[string]any `json:"options"`
	}
	if err := json.Unmarshal(raw["ack"], &ackRaw); err != nil {
		t.Fatal(err)
	}
	if ackRaw.YIAddr != l.IP() {
		t.Errorf("ack.yiaddr = %q, want %q", ackRaw.YIAddr, l.IP())
	}
	if _, ok := ackRaw.Opts["subnet_mask"]; !ok {
		t.Error("ack.options is not keyed by lowercase option name")
	}
}
