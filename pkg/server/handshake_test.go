package server

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

func encodeHandshake(protoVersion int32, nextState int32) *protocol.Packet {
	var buf bytes.Buffer
	protocol.WriteVarInt(&buf, protoVersion)
	protocol.WriteString(&buf, "localhost")
	protocol.WriteUint16(&buf, 25565)
	protocol.WriteVarInt(&buf, nextState)
	return &protocol.Packet{ID: 0x00, Data: buf.Bytes()}
}

func TestHandleHandshakeNextState(t *testing.T) {
	cases := []struct {
		name      string
		nextState int32
		want      connState
		wantErr   bool
	}{
		{"status", 1, stateStatus, false},
		{"login", 2, stateLogin, false},
		{"unknown", 3, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := handleHandshake(encodeHandshake(protocol.ProtocolVersion, tc.nextState))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for next_state %d", tc.nextState)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("next state = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOfflineUUIDIsStableAndUsernameSensitive(t *testing.T) {
	a1 := offlineUUID("Notch")
	a2 := offlineUUID("Notch")
	if a1 != a2 {
		t.Fatalf("offlineUUID not stable across calls: %v vs %v", a1, a2)
	}
	b := offlineUUID("Herobrine")
	if a1 == b {
		t.Fatalf("offlineUUID collided for distinct usernames")
	}
	if a1.Version() != 3 {
		t.Fatalf("offlineUUID version = %d, want 3 (name-based MD5)", a1.Version())
	}
}

func TestHandleStatusRequestReportsConfiguredMOTD(t *testing.T) {
	s := &Server{config: Config{MaxPlayers: 20, MOTD: "hello world"}}
	server, client := net.Pipe()
	defer client.Close()
	c := NewConnection(server)
	go s.handleStatusRequest(c)

	pkt, err := protocol.ReadPacket(client)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	r := bytes.NewReader(pkt.Data)
	body, err := protocol.ReadString(r)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if !strings.Contains(body, "hello world") {
		t.Fatalf("status response %q missing configured MOTD", body)
	}
	if !strings.Contains(body, `"protocol":771`) {
		t.Fatalf("status response %q missing protocol version", body)
	}
}
