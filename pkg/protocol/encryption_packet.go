package protocol

import (
	"bytes"
	"io"
)

// PacketIDEncryptionRequest is the Login-state clientbound id for the
// encryption handshake request.
const PacketIDEncryptionRequest = 0x01

// EncodeEncryptionRequest builds the server's Encryption Request packet: an
// empty server id, the DER-encoded RSA public key, and a random verify
// token the client must echo back encrypted.
func EncodeEncryptionRequest(publicKeyDER, verifyToken []byte) []byte {
	var body bytes.Buffer
	WriteString(&body, "") // server id, always empty since Mojang auth is not in scope
	WriteVarInt(&body, int32(len(publicKeyDER)))
	body.Write(publicKeyDER)
	WriteVarInt(&body, int32(len(verifyToken)))
	body.Write(verifyToken)
	WriteBool(&body, false) // authenticate: offline-mode only
	return rawPacket(PacketIDEncryptionRequest, body.Bytes())
}

// EncryptionResponse is the client's reply to the Encryption Request,
// carrying its RSA-encrypted shared secret and echoed verify token.
type EncryptionResponse struct {
	EncryptedSharedSecret []byte
	EncryptedVerifyToken  []byte
}

// DecodeEncryptionResponse parses the Encryption Response packet payload.
func DecodeEncryptionResponse(payload []byte) (EncryptionResponse, error) {
	r := bytes.NewReader(payload)
	secretLen, _, err := ReadVarInt(r)
	if err != nil {
		return EncryptionResponse{}, err
	}
	secret := make([]byte, secretLen)
	if _, err := io.ReadFull(r, secret); err != nil {
		return EncryptionResponse{}, err
	}
	tokenLen, _, err := ReadVarInt(r)
	if err != nil {
		return EncryptionResponse{}, err
	}
	token := make([]byte, tokenLen)
	if _, err := io.ReadFull(r, token); err != nil {
		return EncryptionResponse{}, err
	}
	return EncryptionResponse{EncryptedSharedSecret: secret, EncryptedVerifyToken: token}, nil
}
