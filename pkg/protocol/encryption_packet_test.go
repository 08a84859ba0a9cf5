package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeEncryptionRequestRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}
	token, err := GenerateVerifyToken()
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	raw := EncodeEncryptionRequest(kp.PublicDER, token)
	r := bytes.NewReader(raw)

	id, _, err := ReadVarInt(r)
	if err != nil || id != PacketIDEncryptionRequest {
		t.Fatalf("id = %d, err %v; want %d", id, err, PacketIDEncryptionRequest)
	}
	serverID, err := ReadString(r)
	if err != nil || serverID != "" {
		t.Fatalf("serverID = %q, err %v; want empty", serverID, err)
	}
	keyLen, _, err := ReadVarInt(r)
	if err != nil || int(keyLen) != len(kp.PublicDER) {
		t.Fatalf("keyLen = %d, err %v; want %d", keyLen, err, len(kp.PublicDER))
	}
}

func TestDecodeEncryptionResponse(t *testing.T) {
	var buf bytes.Buffer
	secret := []byte{1, 2, 3, 4}
	token := []byte{5, 6, 7, 8}
	WriteVarInt(&buf, int32(len(secret)))
	buf.Write(secret)
	WriteVarInt(&buf, int32(len(token)))
	buf.Write(token)

	resp, err := DecodeEncryptionResponse(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeEncryptionResponse error: %v", err)
	}
	if !bytes.Equal(resp.EncryptedSharedSecret, secret) {
		t.Errorf("got secret %v, want %v", resp.EncryptedSharedSecret, secret)
	}
	if !bytes.Equal(resp.EncryptedVerifyToken, token) {
		t.Errorf("got token %v, want %v", resp.EncryptedVerifyToken, token)
	}
}
