package cat

// Frequencies travel as packed BCD: two decimal digits per byte, least
// significant pair first, low nibble holding the lesser digit of the pair.
// 14074000 Hz in a 10-digit field is therefore 00 40 07 14 00.

// encodeBCD writes val into dst as digits/2 BCD bytes, zero-padded to the
// full field width. dst contents beyond the field are left alone; bytes
// inside it are always overwritten, so stale buffer data cannot leak into
// a reply.
func encodeBCD(dst []byte, val int64, digits int) {
	for i := 0; i < digits/2; i++ {
		lo := byte(val % 10)
		val /= 10
		hi := byte(val % 10)
		val /= 10
		dst[i] = hi<<4 | lo
	}
}

// decodeBCD reads digits/2 bytes from src and reassembles the decimal
// value. Nibbles above 9 are not valid BCD; the protocol leaves their
// meaning undefined and this implementation folds them in positionally
// (a 0x0B ones-nibble contributes 11).
func decodeBCD(src []byte, digits int) int64 {
	var val int64
	mul := int64(1)
	for i := 0; i < digits/2; i++ {
		val += int64(src[i]&0x0F) * mul
		mul *= 10
		val += int64(src[i]>>4) * mul
		mul *= 10
	}
	return val
}
