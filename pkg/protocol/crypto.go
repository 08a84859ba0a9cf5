package protocol

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
)

// VerifyTokenSize is the length of the random token the server sends in the
// encryption request and expects echoed back, encrypted, in the response.
const VerifyTokenSize = 16

// KeyPair holds the server's RSA keypair used for the login encryption
// handshake (shared-secret decryption via PKCS#1 v1.5, matching vanilla's
// only supported scheme).
type KeyPair struct {
	Private   *rsa.PrivateKey
	PublicDER []byte
}

// GenerateKeyPair creates a fresh 1024-bit RSA keypair, vanilla's key size
// for the login encryption exchange.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, PublicDER: der}, nil
}

// GenerateVerifyToken returns a fresh random verify token for an encryption
// request.
func GenerateVerifyToken() ([]byte, error) {
	tok := make([]byte, VerifyTokenSize)
	_, err := io.ReadFull(rand.Reader, tok)
	return tok, err
}

// DecryptPKCS1v15 decrypts an RSA-PKCS1v1.5-encrypted blob (the shared
// secret or verify token sent back by the client) with the server's private
// key.
func (k *KeyPair) DecryptPKCS1v15(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, k.Private, ciphertext)
}

// cfb8 implements AES-128-CFB8, the 8-bit-feedback stream mode Minecraft
// uses for its whole-connection encryption. The stdlib's crypto/cipher only
// ships full-block-width CFB, so the feedback register is managed here by
// hand: each output byte becomes the new tail byte fed back into the next
// block encryption.
type cfb8 struct {
	block    cipher.Block
	feedback []byte
	decrypt  bool
	tmp      []byte
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	fb := make([]byte, len(iv))
	copy(fb, iv)
	return &cfb8{block: block, feedback: fb, decrypt: decrypt, tmp: make([]byte, block.BlockSize())}
}

// XORKeyStream implements cipher.Stream. It processes one byte at a time:
// encrypt the feedback register, XOR its first byte against the input byte
// to get the output byte, then shift that byte (ciphertext in encrypt mode,
// input in decrypt mode) into the feedback register.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	for i := range src {
		c.block.Encrypt(c.tmp, c.feedback)
		out := src[i] ^ c.tmp[0]

		var fbByte byte
		if c.decrypt {
			fbByte = src[i]
		} else {
			fbByte = out
		}
		copy(c.feedback, c.feedback[1:])
		c.feedback[len(c.feedback)-1] = fbByte

		dst[i] = out
	}
}

// EncryptedConn wraps a connection with AES-128-CFB8 encryption in both
// directions, the shared secret doubling as key and IV per vanilla's
// handshake.
type EncryptedConn struct {
	io.ReadWriteCloser
	encryptStream cipher.Stream
	decryptStream cipher.Stream
}

// NewEncryptedConn builds a stream-cipher wrapper around conn using the
// given shared secret. It must only be constructed once, after the
// Encryption packet exchange, and applies to every byte read/written for
// the remainder of the connection's life.
func NewEncryptedConn(conn io.ReadWriteCloser, sharedSecret []byte) (*EncryptedConn, error) {
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	return &EncryptedConn{
		ReadWriteCloser: conn,
		encryptStream:   newCFB8(block, sharedSecret, false),
		decryptStream:   newCFB8(block, sharedSecret, true),
	}, nil
}

func (c *EncryptedConn) Read(p []byte) (int, error) {
	n, err := c.ReadWriteCloser.Read(p)
	if n > 0 {
		c.decryptStream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}

func (c *EncryptedConn) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	c.encryptStream.XORKeyStream(out, p)
	return c.ReadWriteCloser.Write(out)
}
