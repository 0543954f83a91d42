package cache

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Shared zstd coders. Both are safe for concurrent EncodeAll/DecodeAll use.
var (
	coderOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	coderErr  error
)

func coders() (*zstd.Encoder, *zstd.Decoder, error) {
	coderOnce.Do(func() {
		encoder, coderErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if coderErr != nil {
			return
		}
		decoder, coderErr = zstd.NewReader(nil)
	})
	return encoder, decoder, coderErr
}

// Compress returns data compressed with zstd.
func Compress(data []byte) ([]byte, error) {
	enc, _, err := coders()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	_, dec, err := coders()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(data, nil)
}
