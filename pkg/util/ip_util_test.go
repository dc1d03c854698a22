package util

import (
	"errors"
	"net"
	"testing"
)

func TestCheckHostAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid /24", "192.168.10.30/24", false},
		{"valid /8", "10.0.0.1/8", false},
		{"valid /31", "10.0.0.1/31", false},
		{"/32 has no room for a host", "10.0.0.1/32", true},
		{"missing prefix", "192.168.10.30", true},
		{"not an address", "not-an-ip/24", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckHostAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckHostAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("CheckHostAddr(%q) error = %v, want ErrInvalidAddress", tt.addr, err)
			}
		})
	}
}

func TestNetmask(t *testing.T) {
	tests := []struct {
		ones int
		want string
	}{
		{8, "255.0.0.0"},
		{16, "255.255.0.0"},
		{24, "255.255.255.0"},
		{30, "255.255.255.252"},
	}
	for _, tt := range tests {
		if got := Netmask(net.CIDRMask(tt.ones, 32)); got != tt.want {
			t.Errorf("Netmask(/%d) = %s, want %s", tt.ones, got, tt.want)
		}
	}
}

func TestBroadcast(t *testing.T) {
	_, ipNet, err := net.ParseCIDR("172.20.16.0/22")
	if err != nil {
		t.Fatal(err)
	}
	if got := Broadcast(ipNet).String(); got != "172.20.19.255" {
		t.Errorf("Broadcast(172.20.16.0/22) = %s, want 172.20.19.255", got)
	}
}

func TestSecondToLast(t *testing.T) {
	tests := []struct {
		cidr     string
		wantAddr string
		wantMask string
		wantErr  bool
	}{
		{"192.168.100.0/24", "192.168.100.254", "255.255.255.0", false},
		{"10.1.0.0/16", "10.1.255.254", "255.255.0.0", false},
		{"172.20.16.0/22", "172.20.19.254", "255.255.252.0", false},
		{"bogus", "", "", true},
		{"2001:db8::/64", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			addr, mask, err := SecondToLast(tt.cidr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SecondToLast(%q) error = %v, wantErr %v", tt.cidr, err, tt.wantErr)
			}
			if addr != tt.wantAddr || mask != tt.wantMask {
				t.Errorf("SecondToLast(%q) = (%s, %s), want (%s, %s)", tt.cidr, addr, mask, tt.wantAddr, tt.wantMask)
			}
		})
	}
}
