package cipher

import "fmt"

// Byte-mode transforms treat every byte value as an alphabet symbol,
// so arbitrary binary files round-trip. There is no pass-through set
// and the Vigenère key position advances on every byte.

// ByteCaesarEncrypt shifts every byte by shift mod 256.
func ByteCaesarEncrypt(data []byte, shift int) []byte {
	return byteShift(data, shift)
}

// ByteCaesarDecrypt inverts ByteCaesarEncrypt.
func ByteCaesarDecrypt(data []byte, shift int) []byte {
	return byteShift(data, -shift)
}

func byteShift(data []byte, shift int) []byte {
	out := make([]byte, len(data))
	b := byte(((shift % 256) + 256) % 256)
	for i, c := range data {
		out[i] = c + b
	}
	return out
}

// ByteVigenereEncrypt shifts each byte by the repeating key bytes.
func ByteVigenereEncrypt(data, key []byte) ([]byte, error) {
	return byteVigenere(data, key, false)
}

// ByteVigenereDecrypt inverts ByteVigenereEncrypt.
func ByteVigenereDecrypt(data, key []byte) ([]byte, error) {
	return byteVigenere(data, key, true)
}

func byteVigenere(data, key []byte, reverse bool) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	out := make([]byte, len(data))
	for i, c := range data {
		k := key[i%len(key)]
		if reverse {
			out[i] = c - k
		} else {
			out[i] = c + k
		}
	}
	return out, nil
}
