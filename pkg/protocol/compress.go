package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CompressionThresholdDisabled marks a connection that has not yet received
// SetCompression; frames use the uncompressed [length][id][payload] layout.
const CompressionThresholdDisabled = -1

// ReadCompressedPacket reads a frame under the compression scheme negotiated
// by SetCompression: [VarInt length_of_rest][VarInt data_length][payload].
// data_length==0 means payload is the raw, unmodified packet body; otherwise
// payload is zlib-compressed and data_length is its inflated size.
func ReadCompressedPacket(r io.Reader) (*Packet, error) {
	lengthOfRest, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if lengthOfRest < 1 {
		return nil, fmt.Errorf("compressed packet length too small: %d", lengthOfRest)
	}
	body := make([]byte, lengthOfRest)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	br := bytes.NewReader(body)
	dataLength, n, err := ReadVarInt(br)
	if err != nil {
		return nil, err
	}
	rest := body[n:]

	var payload []byte
	if dataLength == 0 {
		payload = rest
	} else {
		zr, err := zlib.NewReader(bytes.NewReader(rest))
		if err != nil {
			return nil, fmt.Errorf("zlib reader: %w", err)
		}
		defer zr.Close()
		payload = make([]byte, dataLength)
		if _, err := io.ReadFull(zr, payload); err != nil {
			return nil, fmt.Errorf("zlib inflate: %w", err)
		}
	}

	pr := bytes.NewReader(payload)
	packetID, idLen, err := ReadVarInt(pr)
	if err != nil {
		return nil, err
	}
	return &Packet{ID: packetID, Data: payload[idLen:]}, nil
}

// WriteCompressedPacket writes a frame under the compression scheme: below
// threshold the payload passes through with data_length=0; at or above it,
// the payload is zlib-compressed at level 3 and data_length is its original
// size.
func WriteCompressedPacket(w io.Writer, p *Packet, threshold int32) error {
	idSize := VarIntSize(p.ID)
	var uncompressed bytes.Buffer
	uncompressed.Grow(idSize + len(p.Data))
	WriteVarInt(&uncompressed, p.ID)
	uncompressed.Write(p.Data)

	var body bytes.Buffer
	if int32(uncompressed.Len()) < threshold {
		WriteVarInt(&body, 0)
		body.Write(uncompressed.Bytes())
	} else {
		WriteVarInt(&body, int32(uncompressed.Len()))
		zw, err := zlib.NewWriterLevel(&body, 3)
		if err != nil {
			return err
		}
		if _, err := zw.Write(uncompressed.Bytes()); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	}

	var frame bytes.Buffer
	frame.Grow(VarIntSize(int32(body.Len())) + body.Len())
	WriteVarInt(&frame, int32(body.Len()))
	frame.Write(body.Bytes())
	_, err := w.Write(frame.Bytes())
	return err
}
