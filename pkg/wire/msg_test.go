package wire

import (
	"net/netip"
	"testing"
)

func TestCapabilities_Has(t *testing.T) {
	c := Capabilities(0b1011)

	if !c.Has(0b0001) {
		t.Error("Has(0b0001) = false")
	}
	if !c.Has(0b1010) {
		t.Error("Has(0b1010) = false")
	}
	if c.Has(0b0100) {
		t.Error("Has(0b0100) = true")
	}
	if !c.Has(0) {
		t.Error("Has(0) = false, the empty set is always satisfied")
	}
}

func TestCapabilities_String(t *testing.T) {
	if got := Capabilities(0xbeef).String(); got != "0x0000beef" {
		t.Errorf("String() = %q", got)
	}
}

func TestDifficulty_Cmp(t *testing.T) {
	if got := Difficulty(5).Cmp(10); got != -1 {
		t.Errorf("5.Cmp(10) = %d, want -1", got)
	}
	if got := Difficulty(10).Cmp(5); got != 1 {
		t.Errorf("10.Cmp(5) = %d, want 1", got)
	}
	if got := Difficulty(7).Cmp(7); got != 0 {
		t.Errorf("7.Cmp(7) = %d, want 0", got)
	}
}

func TestHand_AddrAccessors(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"ipv4", "198.51.100.7:13414"},
		{"ipv6", "[2001:db8::1]:13414"},
		{"loopback", "127.0.0.1:1"},
		{"unspecified", "0.0.0.0:65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := netip.MustParseAddrPort(tt.addr)

			var h Hand
			h.SetSenderAddr(addr)
			h.SetReceiverAddr(addr)

			sender, err := h.SenderAddr()
			if err != nil {
				t.Fatalf("SenderAddr: %v", err)
			}
			if sender != addr {
				t.Errorf("SenderAddr() = %v, want %v", sender, addr)
			}

			receiver, err := h.ReceiverAddr()
			if err != nil {
				t.Fatalf("ReceiverAddr: %v", err)
			}
			if receiver != addr {
				t.Errorf("ReceiverAddr() = %v, want %v", receiver, addr)
			}
		})
	}
}

func TestHand_AddrAccessors_MappedV4Unmapped(t *testing.T) {
	// A 4-in-6 mapped address decodes back to plain IPv4.
	mapped := netip.AddrPortFrom(netip.MustParseAddr("::ffff:198.51.100.7"), 13414)

	var h Hand
	h.SetSenderAddr(mapped)

	got, err := h.SenderAddr()
	if err != nil {
		t.Fatalf("SenderAddr: %v", err)
	}
	want := netip.MustParseAddrPort("198.51.100.7:13414")
	if got != want {
		t.Errorf("SenderAddr() = %v, want %v", got, want)
	}
}

func TestHand_AddrDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		ip   []byte
		port uint32
	}{
		{"empty IP", nil, 7000},
		{"short IP", []byte{10, 0, 0}, 7000},
		{"long IP", make([]byte, 17), 7000},
		{"port overflow", []byte{10, 0, 0, 1}, 0x10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hand{SenderIP: tt.ip, SenderPort: tt.port}
			if _, err := h.SenderAddr(); err == nil {
				t.Error("SenderAddr() accepted invalid encoding")
			}
		})
	}
}
